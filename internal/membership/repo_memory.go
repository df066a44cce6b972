package membership

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory Repository useful for tests. Err, when set, is
// returned by every call to exercise the fail-closed path.
type MemoryRepo struct {
	mu   sync.Mutex
	rows []CompanyMembership
	Err  error
}

func NewMemoryRepo(rows ...CompanyMembership) *MemoryRepo {
	return &MemoryRepo{rows: rows}
}

func (r *MemoryRepo) Add(m CompanyMembership) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, m)
}

func (r *MemoryRepo) ListByUser(ctx context.Context, userID string) ([]CompanyMembership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	var out []CompanyMembership
	for _, m := range r.rows {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}
