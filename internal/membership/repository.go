package membership

import (
	"context"
	"database/sql"
)

// Repository is the persistence contract for company membership rows.
type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]CompanyMembership, error)
}

// PGRepo reads membership rows from Postgres.
//
// The query is keyed by user_id only. It deliberately joins nothing: the
// membership lookup is the authorization evidence, it must not depend on any
// other table being visible.
type PGRepo struct {
	db *sql.DB
}

func NewPGRepo(db *sql.DB) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]CompanyMembership, error) {
	const q = `
SELECT user_id, company_id, role
FROM company_memberships
WHERE user_id = $1
`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CompanyMembership
	for rows.Next() {
		var m CompanyMembership
		if err := rows.Scan(&m.UserID, &m.CompanyID, &m.Role); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
