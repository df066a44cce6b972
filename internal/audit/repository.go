package audit

import (
	"context"
	"database/sql"
)

// PGRepo appends audit events to Postgres.
//
// Assumes an INSERT-only audit_events table; a trigger preventing
// UPDATE/DELETE keeps the append-only invariant honest at the store.
type PGRepo struct {
	db *sql.DB
}

func NewPGRepo(db *sql.DB) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) Append(ctx context.Context, e Event) error {
	const q = `
INSERT INTO audit_events (
  id, user_id, type, company_id, client_id, message, metadata, created_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8
)
`
	_, err := r.db.ExecContext(ctx, q,
		e.ID,
		e.UserID,
		e.Type,
		e.CompanyID,
		e.ClientID,
		e.Message,
		e.Metadata,
		e.CreatedAt,
	)
	return err
}
