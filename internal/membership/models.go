package membership

// CompanyMembership is one company-level grant row. Many-to-many: a principal
// may hold memberships in multiple companies, each independently scoped.
//
// Role holds whatever the store has, including the legacy "user" alias; it is
// normalized at the service boundary, never in storage.
type CompanyMembership struct {
	UserID    string `json:"user_id" db:"user_id"`
	CompanyID string `json:"company_id" db:"company_id"`
	Role      string `json:"role" db:"role"`
}
