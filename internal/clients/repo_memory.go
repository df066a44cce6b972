package clients

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory Repository useful for tests. RelErr and DetailErr
// inject failures into the respective phase.
type MemoryRepo struct {
	mu        sync.Mutex
	rels      []ClientRelationship
	details   map[string]Client
	RelErr    error
	DetailErr error

	// DetailCalls counts ClientsByIDs invocations so tests can assert the
	// second phase is skipped when there are no relationships.
	DetailCalls int
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{details: make(map[string]Client)}
}

func (r *MemoryRepo) AddRelationship(rel ClientRelationship) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rels = append(r.rels, rel)
}

func (r *MemoryRepo) AddClient(c Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.details[c.ID] = c
}

func (r *MemoryRepo) RelationshipsByUser(ctx context.Context, userID string) ([]ClientRelationship, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.RelErr != nil {
		return nil, r.RelErr
	}
	var out []ClientRelationship
	for _, rel := range r.rels {
		if rel.UserID == userID {
			out = append(out, rel)
		}
	}
	return out, nil
}

func (r *MemoryRepo) ClientsByIDs(ctx context.Context, ids []string) ([]Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.DetailCalls++
	if r.DetailErr != nil {
		return nil, r.DetailErr
	}
	var out []Client
	for _, id := range ids {
		if c, ok := r.details[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}
