package auth

import (
	"context"
	"sync"
)

// Session is the authenticated principal as known to the session provider.
// It is immutable for the lifetime of a session; roles are never part of it,
// they are resolved from the stores on every context rebuild.
type Session struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

type SessionEvent string

const (
	EventSignedIn       SessionEvent = "signed_in"
	EventSignedOut      SessionEvent = "signed_out"
	EventTokenRefreshed SessionEvent = "token_refreshed"
)

// Provider is the session provider contract.
//
// Current returns the session at the time of the call, or nil when signed out.
// Subscribe registers a listener for (event, session) pairs and returns an
// unsubscribe func. On sign-out the session passed to listeners is the one
// that just ended, so consumers can tear down per-principal state.
type Provider interface {
	Current(ctx context.Context) (*Session, error)
	Subscribe(fn func(SessionEvent, *Session)) (unsubscribe func())
}

// MemoryProvider is an in-process Provider. It backs tests and single-node
// deployments where the API process itself issues tokens.
type MemoryProvider struct {
	mu      sync.Mutex
	current *Session
	nextID  int
	subs    map[int]func(SessionEvent, *Session)
}

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{subs: make(map[int]func(SessionEvent, *Session))}
}

func (p *MemoryProvider) Current(ctx context.Context) (*Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return nil, nil
	}
	s := *p.current
	return &s, nil
}

func (p *MemoryProvider) Subscribe(fn func(SessionEvent, *Session)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextID
	p.nextID++
	p.subs[id] = fn
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.subs, id)
	}
}

// SignIn replaces the current session and notifies subscribers.
func (p *MemoryProvider) SignIn(userID, email string) {
	s := &Session{UserID: userID, Email: email}
	p.mu.Lock()
	p.current = s
	p.mu.Unlock()
	p.emit(EventSignedIn, s)
}

// SignOut clears the current session. Subscribers receive the session that
// ended, or nothing if there was none.
func (p *MemoryProvider) SignOut() {
	p.mu.Lock()
	ended := p.current
	p.current = nil
	p.mu.Unlock()
	if ended != nil {
		p.emit(EventSignedOut, ended)
	}
}

// Refresh signals a token refresh for the current session.
func (p *MemoryProvider) Refresh() {
	p.mu.Lock()
	s := p.current
	p.mu.Unlock()
	if s != nil {
		p.emit(EventTokenRefreshed, s)
	}
}

func (p *MemoryProvider) emit(ev SessionEvent, s *Session) {
	p.mu.Lock()
	fns := make([]func(SessionEvent, *Session), 0, len(p.subs))
	for _, fn := range p.subs {
		fns = append(fns, fn)
	}
	p.mu.Unlock()

	for _, fn := range fns {
		cp := *s
		fn(ev, &cp)
	}
}
