package userctx

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// MembershipSource yields company-level accesses for a principal.
// Implementations are fail-closed: errors are swallowed into an empty slice.
type MembershipSource interface {
	Resolve(ctx context.Context, userID string) []CompanyAccess
}

// ClientSource yields enriched client-level accesses for a principal.
// Same fail-closed contract as MembershipSource.
type ClientSource interface {
	Resolve(ctx context.Context, userID string) []ClientAccess
}

// ErrResolveTimeout marks a resolution that did not settle within the bound.
// It is a distinct terminal state: a stalled resolver must surface as "failed",
// never as an empty-access grant and never as an indefinite loading state.
var ErrResolveTimeout = errors.New("userctx: resolution timed out")

const defaultResolveTimeout = 10 * time.Second

// Resolver runs both resolver arms concurrently and aggregates the result.
// One slow or failing arm must not block the other's data, but the context is
// not ready until both arms settle.
type Resolver struct {
	memberships MembershipSource
	clients     ClientSource
	timeout     time.Duration
	log         *slog.Logger
}

func NewResolver(memberships MembershipSource, clients ClientSource, timeout time.Duration, log *slog.Logger) *Resolver {
	if timeout <= 0 {
		timeout = defaultResolveTimeout
	}
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{memberships: memberships, clients: clients, timeout: timeout, log: log}
}

// Resolve builds a fresh UserContext for the principal.
// An empty userID resolves to no_access rather than an error: absence of
// evidence of access means no access.
func (r *Resolver) Resolve(ctx context.Context, userID string) (UserContext, error) {
	if userID == "" {
		return Aggregate(nil, nil), nil
	}

	rctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var (
		companies []CompanyAccess
		clients   []ClientAccess
	)

	g, gctx := errgroup.WithContext(rctx)
	g.Go(func() error {
		companies = r.memberships.Resolve(gctx, userID)
		return nil
	})
	g.Go(func() error {
		clients = r.clients.Resolve(gctx, userID)
		return nil
	})
	_ = g.Wait()

	if err := rctx.Err(); err != nil {
		r.log.Error("context resolution did not settle", "user_id", userID, "err", err)
		return UserContext{}, ErrResolveTimeout
	}
	return Aggregate(companies, clients), nil
}
