package membership

import (
	"context"
	"log/slog"

	"dashboard-platform/internal/rbac"
	"dashboard-platform/internal/userctx"
)

// Service resolves a principal's company-level accesses.
//
// It is fail-closed: any failure (query error, no rows, no principal) yields
// an empty result, never an error. Absence of evidence of access means no
// access; a store outage must not surface as an access grant, and it must not
// surface as a thrown error either. Errors are logged for diagnostics only.
// There are no retries.
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

// Resolve returns every company access held by the principal, with the legacy
// "user" role alias normalized to member.
func (s *Service) Resolve(ctx context.Context, userID string) []userctx.CompanyAccess {
	if userID == "" || s.repo == nil {
		return nil
	}

	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		s.log.Warn("company membership lookup failed, treating as no memberships", "user_id", userID, "err", err)
		return nil
	}

	out := make([]userctx.CompanyAccess, 0, len(rows))
	for _, m := range rows {
		out = append(out, userctx.CompanyAccess{
			CompanyID: m.CompanyID,
			Role:      rbac.NormalizeCompanyRole(m.Role),
		})
	}
	return out
}
