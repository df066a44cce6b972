package clients

// ClientRelationship is one sub-tenant grant row, independent of any company
// membership: a principal can hold a relationship into a client whose parent
// company they have no membership in.
type ClientRelationship struct {
	UserID   string `json:"user_id" db:"user_id"`
	ClientID string `json:"client_id" db:"client_id"`
	Role     string `json:"role" db:"role"`
}

// Client is the detail row owned by a company. It is fetched in a second pass
// only for client ids the relationship lookup has already proven access to.
type Client struct {
	ID        string `json:"id" db:"id"`
	Name      string `json:"name" db:"name"`
	CompanyID string `json:"company_id" db:"company_id"`
}
