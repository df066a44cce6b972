package clients

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
)

// Repository is the persistence contract for the two-phase client lookup.
//
// The phases are deliberately decoupled queries:
//   - RelationshipsByUser must not join across the company/ownership chain;
//     joining would make "can I see this client row" depend on "do I have a
//     relationship to it", which is a cycle in the access policy.
//   - ClientsByIDs fetches detail rows for exactly the given ids, never a
//     wildcard or broader set.
type Repository interface {
	RelationshipsByUser(ctx context.Context, userID string) ([]ClientRelationship, error)
	ClientsByIDs(ctx context.Context, ids []string) ([]Client, error)
}

type PGRepo struct {
	db *sql.DB
}

func NewPGRepo(db *sql.DB) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) RelationshipsByUser(ctx context.Context, userID string) ([]ClientRelationship, error) {
	const q = `
SELECT user_id, client_id, role
FROM client_relationships
WHERE user_id = $1
`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ClientRelationship
	for rows.Next() {
		var rel ClientRelationship
		if err := rows.Scan(&rel.UserID, &rel.ClientID, &rel.Role); err != nil {
			return nil, err
		}
		out = append(out, rel)
	}
	return out, rows.Err()
}

func (r *PGRepo) ClientsByIDs(ctx context.Context, ids []string) ([]Client, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	q := `SELECT id, name, company_id FROM clients WHERE id IN (` + placeholders(len(ids)) + `)`
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Client
	for rows.Next() {
		var c Client
		if err := rows.Scan(&c.ID, &c.Name, &c.CompanyID); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func placeholders(n int) string {
	var b strings.Builder
	for i := 1; i <= n; i++ {
		if i > 1 {
			b.WriteByte(',')
		}
		b.WriteByte('$')
		b.WriteString(strconv.Itoa(i))
	}
	return b.String()
}
