package userctx

import (
	"log/slog"
	"sync"

	"dashboard-platform/internal/audit"
	"dashboard-platform/internal/auth"
)

// Registry hands out one Service per principal so the HTTP layer can share
// resolution state across requests. Services are created lazily and removed on
// sign-out.
type Registry struct {
	resolver *Resolver
	nav      Navigator
	cache    SnapshotStore
	audit    *audit.Service
	log      *slog.Logger

	mu   sync.Mutex
	svcs map[string]*Service
}

func NewRegistry(resolver *Resolver, nav Navigator, cache SnapshotStore, aud *audit.Service, log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}
	if cache == nil {
		cache = NewCache(nil, 0)
	}
	return &Registry{
		resolver: resolver,
		nav:      nav,
		cache:    cache,
		audit:    aud,
		log:      log,
		svcs:     make(map[string]*Service),
	}
}

// For returns the service owning userID's context, creating it if needed.
func (r *Registry) For(userID, email string) *Service {
	r.mu.Lock()
	defer r.mu.Unlock()
	if svc, ok := r.svcs[userID]; ok {
		return svc
	}
	svc := NewService(r.resolver, r.nav, r.cache, r.audit, r.log)
	svc.setPrincipal(userID, email)
	r.svcs[userID] = svc
	return svc
}

// Attach subscribes the registry to session events and routes each event to
// the affected principal's service. Returns an unsubscribe func.
func (r *Registry) Attach(p auth.Provider) func() {
	return p.Subscribe(func(ev auth.SessionEvent, sess *auth.Session) {
		if sess == nil {
			return
		}
		svc := r.For(sess.UserID, sess.Email)
		svc.OnSessionChange(ev, sess)
		if ev == auth.EventSignedOut {
			r.mu.Lock()
			delete(r.svcs, sess.UserID)
			r.mu.Unlock()
		}
	})
}
