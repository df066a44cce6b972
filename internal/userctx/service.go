package userctx

import (
	"context"
	"log/slog"
	"sync"

	"dashboard-platform/internal/audit"
	"dashboard-platform/internal/auth"
)

// State is the resolution lifecycle of one principal's context.
//
// StateFailed is terminal until the next session event or explicit refresh; it
// is distinct from no_access (a valid deny classification) and from loading.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateFailed  State = "failed"
)

// SnapshotStore persists resolved context snapshots across process restarts.
// Implementations must treat snapshots as disposable: a snapshot may only ever
// be served for the exact session state it was written under.
type SnapshotStore interface {
	Get(ctx context.Context, userID string) (UserContext, bool, error)
	Put(ctx context.Context, userID string, uc UserContext) error
	Invalidate(ctx context.Context, userID string) error
}

// Service owns one principal's UserContext lifecycle: init from the session
// provider, rebuild on session events, switch the active scope. It can be
// unit-tested without any HTTP runtime.
//
// The held UserContext is owned exclusively by this service; consumers always
// receive copies.
type Service struct {
	resolver *Resolver
	nav      Navigator
	cache    SnapshotStore
	audit    *audit.Service
	log      *slog.Logger

	mu       sync.Mutex
	userID   string
	email    string
	state    State
	current  UserContext
	inFlight bool
	unsub    func()
}

func NewService(resolver *Resolver, nav Navigator, cache SnapshotStore, aud *audit.Service, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	if cache == nil {
		cache = NewCache(nil, 0)
	}
	return &Service{
		resolver: resolver,
		nav:      nav,
		cache:    cache,
		audit:    aud,
		log:      log,
		state:    StateIdle,
	}
}

// Init fetches the current session, resolves the context if one exists, and
// subscribes to session changes. Call Close to unsubscribe.
func (s *Service) Init(ctx context.Context, p auth.Provider) error {
	sess, err := p.Current(ctx)
	if err != nil {
		return err
	}
	if sess != nil {
		s.setPrincipal(sess.UserID, sess.Email)
		s.resolve(ctx)
	}
	s.unsub = p.Subscribe(s.OnSessionChange)
	return nil
}

// OnSessionChange rebuilds the context from scratch on sign-in and token
// refresh, and tears state down on sign-out. There is no partial-patch path.
func (s *Service) OnSessionChange(ev auth.SessionEvent, sess *auth.Session) {
	if ev == auth.EventSignedOut || sess == nil {
		s.mu.Lock()
		uid := s.userID
		s.userID = ""
		s.email = ""
		s.current = UserContext{}
		s.state = StateIdle
		s.mu.Unlock()
		if err := s.cache.Invalidate(context.Background(), uid); err != nil {
			s.log.Warn("context snapshot invalidation failed", "user_id", uid, "err", err)
		}
		return
	}

	// The snapshot belongs to the pre-event session state. Drop it before
	// rebuilding so a failed rebuild cannot be papered over by a stale read.
	if err := s.cache.Invalidate(context.Background(), sess.UserID); err != nil {
		s.log.Warn("context snapshot invalidation failed", "user_id", sess.UserID, "err", err)
	}
	s.setPrincipal(sess.UserID, sess.Email)
	s.resolve(context.Background())
}

// Close unsubscribes from the session provider.
func (s *Service) Close() {
	if s.unsub != nil {
		s.unsub()
		s.unsub = nil
	}
}

// Current returns a copy of the held context and its lifecycle state without
// triggering any resolution.
func (s *Service) Current() (UserContext, State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone(), s.state
}

// Context returns the principal's context, resolving it if the service holds
// no ready copy. A redis snapshot, when present, satisfies the read without a
// store round-trip.
func (s *Service) Context(ctx context.Context) (UserContext, State) {
	s.mu.Lock()
	if s.state == StateReady {
		uc := s.current.Clone()
		s.mu.Unlock()
		return uc, StateReady
	}
	uid := s.userID
	s.mu.Unlock()

	if uid == "" {
		return UserContext{}, StateIdle
	}

	if snap, ok, err := s.cache.Get(ctx, uid); err == nil && ok {
		s.mu.Lock()
		if s.userID == uid {
			s.current = snap
			s.state = StateReady
		}
		uc := snap.Clone()
		s.mu.Unlock()
		return uc, StateReady
	}

	s.resolve(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone(), s.state
}

// Switch validates the target against the resolved context and, on success,
// replaces the active scope and issues the navigation side effect. An unknown
// id is a silent no-op: the existing active scope is never cleared or
// corrupted in response to bad input. Switching to the already-active scope is
// a successful no-op.
func (s *Service) Switch(ctx context.Context, kind ScopeKind, id string) (string, bool) {
	s.mu.Lock()
	if s.state != StateReady || id == "" {
		s.mu.Unlock()
		return "", false
	}
	uid := s.userID

	var ok bool
	switch kind {
	case ScopeCompany:
		ok = s.current.HasCompany(id)
	case ScopeClient:
		ok = s.current.HasClient(id)
	}
	if !ok {
		s.mu.Unlock()
		if s.audit != nil {
			_ = s.audit.LogSwitchRejected(ctx, uid, string(kind), id)
		}
		return "", false
	}

	s.current.Active = &ActiveContext{Kind: kind, ID: id}
	snapshot := s.current.Clone()
	s.mu.Unlock()

	var path string
	if kind == ScopeCompany {
		path = CompanyDashboardPath(id)
	} else {
		path = ClientRootPath(id)
	}
	if s.nav != nil {
		s.nav.Navigate(path)
	}
	if err := s.cache.Put(ctx, uid, snapshot); err != nil {
		s.log.Warn("context snapshot write failed", "user_id", uid, "err", err)
	}
	if s.audit != nil {
		_ = s.audit.LogContextSwitched(ctx, uid, string(kind), id)
	}
	return path, true
}

func (s *Service) setPrincipal(userID, email string) {
	s.mu.Lock()
	s.userID = userID
	s.email = email
	s.mu.Unlock()
}

// resolve runs one full resolution cycle. An overlapping call for the same
// principal is skipped, not queued: the in-flight cycle's result wins.
func (s *Service) resolve(ctx context.Context) {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		s.log.Debug("resolution already in flight, skipping")
		return
	}
	uid := s.userID
	if uid == "" {
		s.mu.Unlock()
		return
	}
	s.inFlight = true
	s.state = StateLoading
	s.mu.Unlock()

	uc, err := s.resolver.Resolve(ctx, uid)

	s.mu.Lock()
	s.inFlight = false
	if s.userID != uid {
		// Session changed while resolving; this result belongs to a dead
		// session and must not leak into the new one.
		s.mu.Unlock()
		return
	}
	if err != nil {
		s.current = UserContext{}
		s.state = StateFailed
		s.mu.Unlock()
		s.log.Error("context resolution failed", "user_id", uid, "err", err)
		if ierr := s.cache.Invalidate(ctx, uid); ierr != nil {
			s.log.Warn("context snapshot invalidation failed", "user_id", uid, "err", ierr)
		}
		return
	}
	s.current = uc
	s.state = StateReady
	s.mu.Unlock()

	if err := s.cache.Put(ctx, uid, uc); err != nil {
		s.log.Warn("context snapshot write failed", "user_id", uid, "err", err)
	}
	if s.audit != nil {
		_ = s.audit.LogContextResolved(ctx, uid, string(uc.Type), len(uc.Companies), len(uc.Clients))
	}
}
