package userctx

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"dashboard-platform/internal/auth"
)

type navRecorder struct {
	mu    sync.Mutex
	paths []string
}

func (n *navRecorder) Navigate(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, path)
}

func (n *navRecorder) last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.paths) == 0 {
		return ""
	}
	return n.paths[len(n.paths)-1]
}

type countingMemberships struct {
	out   []CompanyAccess
	delay time.Duration
	calls atomic.Int32
}

func (s *countingMemberships) Resolve(ctx context.Context, userID string) []CompanyAccess {
	s.calls.Add(1)
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
		}
	}
	return s.out
}

type memSnapshots struct {
	mu    sync.Mutex
	snaps map[string]UserContext
}

func newMemSnapshots() *memSnapshots {
	return &memSnapshots{snaps: make(map[string]UserContext)}
}

func (m *memSnapshots) Get(ctx context.Context, userID string) (UserContext, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	uc, ok := m.snaps[userID]
	return uc, ok, nil
}

func (m *memSnapshots) Put(ctx context.Context, userID string, uc UserContext) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snaps[userID] = uc.Clone()
	return nil
}

func (m *memSnapshots) Invalidate(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snaps, userID)
	return nil
}

func newTestService(companies []CompanyAccess, clientAccess []ClientAccess, nav Navigator) *Service {
	r := NewResolver(stubMemberships{out: companies}, stubClients{out: clientAccess}, time.Second, nil)
	return NewService(r, nav, nil, nil, nil)
}

func TestService_InitResolvesCurrentSession(t *testing.T) {
	p := auth.NewMemoryProvider()
	p.SignIn("u1", "u1@example.com")

	svc := newTestService([]CompanyAccess{{CompanyID: "c1", Role: "owner"}}, nil, nil)
	if err := svc.Init(context.Background(), p); err != nil {
		t.Fatalf("init: %v", err)
	}
	defer svc.Close()

	uc, state := svc.Current()
	if state != StateReady {
		t.Fatalf("expected ready, got %q", state)
	}
	if uc.Type != TypeCompany || uc.Active == nil || uc.Active.ID != "c1" {
		t.Fatalf("unexpected context: %+v", uc)
	}
}

func TestService_SignOutClearsState(t *testing.T) {
	p := auth.NewMemoryProvider()
	p.SignIn("u1", "u1@example.com")

	svc := newTestService([]CompanyAccess{{CompanyID: "c1", Role: "owner"}}, nil, nil)
	if err := svc.Init(context.Background(), p); err != nil {
		t.Fatalf("init: %v", err)
	}
	defer svc.Close()

	p.SignOut()

	uc, state := svc.Current()
	if state != StateIdle {
		t.Fatalf("expected idle after sign-out, got %q", state)
	}
	if uc.Type != "" || uc.Active != nil || len(uc.Companies) != 0 {
		t.Fatalf("expected cleared context, got %+v", uc)
	}
}

func TestService_SessionEventTriggersRebuild(t *testing.T) {
	p := auth.NewMemoryProvider()
	mem := &countingMemberships{out: []CompanyAccess{{CompanyID: "c1", Role: "owner"}}}
	r := NewResolver(mem, stubClients{}, time.Second, nil)
	svc := NewService(r, nil, nil, nil, nil)
	if err := svc.Init(context.Background(), p); err != nil {
		t.Fatalf("init: %v", err)
	}
	defer svc.Close()

	p.SignIn("u1", "u1@example.com")
	p.Refresh()

	if got := mem.calls.Load(); got != 2 {
		t.Fatalf("expected full re-resolution per session event, got %d calls", got)
	}
	if _, state := svc.Current(); state != StateReady {
		t.Fatalf("expected ready, got %q", state)
	}
}

func TestService_SwitchToKnownScopeNavigates(t *testing.T) {
	nav := &navRecorder{}
	svc := newTestService(
		[]CompanyAccess{{CompanyID: "c1", Role: "admin"}},
		[]ClientAccess{{ClientID: "k1", ClientName: "Acme Retail", CompanyID: "c2", Role: "member"}},
		nav,
	)
	svc.setPrincipal("u1", "u1@example.com")
	svc.resolve(context.Background())

	uc, _ := svc.Current()
	if uc.Type != TypeMulti || uc.Active != nil {
		t.Fatalf("expected multi with no selection, got %+v", uc)
	}

	path, ok := svc.Switch(context.Background(), ScopeClient, "k1")
	if !ok {
		t.Fatalf("expected switch to succeed")
	}
	if path != "/client/k1" || nav.last() != "/client/k1" {
		t.Fatalf("expected client root navigation, got path=%q nav=%q", path, nav.last())
	}

	uc, _ = svc.Current()
	if uc.Active == nil || uc.Active.Kind != ScopeClient || uc.Active.ID != "k1" {
		t.Fatalf("expected active client k1, got %+v", uc.Active)
	}
}

func TestService_SwitchToUnknownIDIsNoOp(t *testing.T) {
	nav := &navRecorder{}
	svc := newTestService([]CompanyAccess{{CompanyID: "c1", Role: "owner"}}, nil, nav)
	svc.setPrincipal("u1", "u1@example.com")
	svc.resolve(context.Background())

	if _, ok := svc.Switch(context.Background(), ScopeCompany, "not-mine"); ok {
		t.Fatalf("expected switch to unknown id to fail")
	}
	if nav.last() != "" {
		t.Fatalf("expected no navigation, got %q", nav.last())
	}

	// The existing active scope must survive bad input untouched.
	uc, _ := svc.Current()
	if uc.Active == nil || uc.Active.ID != "c1" {
		t.Fatalf("expected active c1 preserved, got %+v", uc.Active)
	}
}

func TestService_SwitchToActiveScopeIsIdempotent(t *testing.T) {
	svc := newTestService([]CompanyAccess{{CompanyID: "c1", Role: "owner"}}, nil, nil)
	svc.setPrincipal("u1", "u1@example.com")
	svc.resolve(context.Background())

	before, _ := svc.Current()
	path, ok := svc.Switch(context.Background(), ScopeCompany, "c1")
	if !ok || path != "/company/c1/dashboard" {
		t.Fatalf("expected idempotent switch to succeed, got ok=%v path=%q", ok, path)
	}
	after, _ := svc.Current()
	if *before.Active != *after.Active {
		t.Fatalf("expected equal active context, got %+v vs %+v", before.Active, after.Active)
	}
}

// A selection never reverts to unselected within a session; only a fresh
// resolution re-enters that state.
func TestService_SelectionPersistsUntilReresolution(t *testing.T) {
	svc := newTestService(
		[]CompanyAccess{{CompanyID: "c1", Role: "admin"}},
		[]ClientAccess{{ClientID: "k1", ClientName: "n", CompanyID: "c2", Role: "member"}},
		nil,
	)
	svc.setPrincipal("u1", "u1@example.com")
	svc.resolve(context.Background())

	if _, ok := svc.Switch(context.Background(), ScopeCompany, "c1"); !ok {
		t.Fatalf("expected switch to succeed")
	}
	if _, ok := svc.Switch(context.Background(), ScopeClient, "nope"); ok {
		t.Fatalf("expected invalid switch to fail")
	}
	uc, _ := svc.Current()
	if uc.Active == nil {
		t.Fatalf("expected selection to persist")
	}

	svc.resolve(context.Background())
	uc, _ = svc.Current()
	if uc.Active != nil {
		t.Fatalf("expected fresh multi resolution to be unselected, got %+v", uc.Active)
	}
}

func TestService_OverlappingResolutionIsSkipped(t *testing.T) {
	mem := &countingMemberships{out: []CompanyAccess{{CompanyID: "c1", Role: "owner"}}, delay: 50 * time.Millisecond}
	r := NewResolver(mem, stubClients{}, time.Second, nil)
	svc := NewService(r, nil, nil, nil, nil)
	svc.setPrincipal("u1", "u1@example.com")

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		svc.resolve(context.Background())
	}()
	time.Sleep(10 * time.Millisecond) // let the first cycle enter its in-flight window
	svc.resolve(context.Background())
	wg.Wait()

	if got := mem.calls.Load(); got != 1 {
		t.Fatalf("expected second concurrent resolution to be skipped, got %d calls", got)
	}
	if _, state := svc.Current(); state != StateReady {
		t.Fatalf("expected ready, got %q", state)
	}
}

func TestService_FailedResolutionIsTerminal(t *testing.T) {
	mem := &countingMemberships{delay: 200 * time.Millisecond}
	r := NewResolver(mem, stubClients{}, 10*time.Millisecond, nil)
	svc := NewService(r, nil, nil, nil, nil)
	svc.setPrincipal("u1", "u1@example.com")
	svc.resolve(context.Background())

	uc, state := svc.Current()
	if state != StateFailed {
		t.Fatalf("expected failed state, got %q", state)
	}
	if uc.Type == TypeNoAccess {
		t.Fatalf("a timed-out resolution must not masquerade as a no_access classification")
	}
	if _, ok := svc.Switch(context.Background(), ScopeCompany, "c1"); ok {
		t.Fatalf("expected switch to fail while context is not ready")
	}
}

// A session event makes any persisted snapshot stale. If the rebuild then
// fails, neither Current nor Context may fall back to the pre-event snapshot.
func TestService_SessionEventInvalidatesSnapshot(t *testing.T) {
	p := auth.NewMemoryProvider()
	p.SignIn("u1", "u1@example.com")

	store := newMemSnapshots()
	mem := &countingMemberships{out: []CompanyAccess{{CompanyID: "c1", Role: "owner"}}}
	r := NewResolver(mem, stubClients{}, 20*time.Millisecond, nil)
	svc := NewService(r, nil, store, nil, nil)
	if err := svc.Init(context.Background(), p); err != nil {
		t.Fatalf("init: %v", err)
	}
	defer svc.Close()

	if _, ok, _ := store.Get(context.Background(), "u1"); !ok {
		t.Fatalf("expected snapshot persisted after first resolution")
	}

	// Stall the store past the resolver deadline so the rebuild fails.
	mem.delay = 200 * time.Millisecond
	p.Refresh()

	if _, state := svc.Current(); state != StateFailed {
		t.Fatalf("expected failed state after rebuild, got %q", state)
	}
	if _, ok, _ := store.Get(context.Background(), "u1"); ok {
		t.Fatalf("expected snapshot dropped on session event")
	}

	uc, state := svc.Context(context.Background())
	if state == StateReady {
		t.Fatalf("stale snapshot served as ready after failed rebuild: %+v", uc)
	}
	if len(uc.Companies) != 0 {
		t.Fatalf("expected no access data while failed, got %+v", uc.Companies)
	}
}
