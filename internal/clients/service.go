package clients

import (
	"context"
	"log/slog"

	"dashboard-platform/internal/userctx"
)

// Service resolves a principal's client-level accesses via the two-phase
// lookup:
//
//  1. raw (client_id, role) pairs for the principal,
//  2. one batched detail fetch keyed by those ids,
//  3. an in-memory join.
//
// A relationship whose client id has no matching detail row is dropped, not
// defaulted: a relationship pointing at a deleted or inaccessible client must
// never produce a context entry with blank data.
//
// Fail-closed like the membership side: any failure in either phase yields an
// empty result and a log line, never an error to the caller. No ordering
// guarantee on the output.
type Service struct {
	repo Repository
	log  *slog.Logger
}

func NewService(repo Repository, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{repo: repo, log: log}
}

func (s *Service) Resolve(ctx context.Context, userID string) []userctx.ClientAccess {
	if userID == "" || s.repo == nil {
		return nil
	}

	rels, err := s.repo.RelationshipsByUser(ctx, userID)
	if err != nil {
		s.log.Warn("client relationship lookup failed, treating as no relationships", "user_id", userID, "err", err)
		return nil
	}
	if len(rels) == 0 {
		return nil
	}

	ids := make([]string, 0, len(rels))
	for _, rel := range rels {
		ids = append(ids, rel.ClientID)
	}

	details, err := s.repo.ClientsByIDs(ctx, ids)
	if err != nil {
		s.log.Warn("client detail lookup failed, treating as no relationships", "user_id", userID, "err", err)
		return nil
	}

	byID := make(map[string]Client, len(details))
	for _, c := range details {
		byID[c.ID] = c
	}

	out := make([]userctx.ClientAccess, 0, len(rels))
	for _, rel := range rels {
		c, ok := byID[rel.ClientID]
		if !ok {
			s.log.Warn("dropping relationship with no resolvable client", "user_id", userID, "client_id", rel.ClientID)
			continue
		}
		out = append(out, userctx.ClientAccess{
			ClientID:   c.ID,
			ClientName: c.Name,
			CompanyID:  c.CompanyID,
			Role:       rel.Role,
		})
	}
	return out
}
