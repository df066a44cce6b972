package userctx

// UserContext is the merged, classified view of every scope a principal can
// reach. It is rebuilt from scratch on every sign-in and session change and is
// never patched in place, so the company and client sides cannot drift apart
// after a server-side permission change.
//
// Invariants:
// - Type is a pure function of (len(Companies), len(Clients)).
// - Active, when set, references an id present in Companies or Clients of the
//   same instance. Stale cross-session references are forbidden.
// - Consumers treat the value as read-only; state changes flow only through a
//   fresh aggregation cycle.

type ContextType string

const (
	TypeCompany  ContextType = "company"
	TypeClient   ContextType = "client"
	TypeMulti    ContextType = "multi"
	TypeNoAccess ContextType = "no_access"
)

type ScopeKind string

const (
	ScopeCompany ScopeKind = "company"
	ScopeClient  ScopeKind = "client"
)

// CompanyAccess is one company-level grant held by the principal.
// Role is already normalized (the legacy "user" alias never appears here).
type CompanyAccess struct {
	CompanyID string `json:"company_id"`
	Role      string `json:"role"`
}

// ClientAccess is one sub-tenant grant, enriched with client details resolved
// in a second pass. Client access does not imply any access to the parent
// company.
type ClientAccess struct {
	ClientID   string `json:"client_id"`
	ClientName string `json:"client_name"`
	CompanyID  string `json:"company_id"`
	Role       string `json:"role"`
}

// ActiveContext is the single scope currently driving navigation and data
// scoping.
type ActiveContext struct {
	Kind ScopeKind `json:"kind"`
	ID   string    `json:"id"`
}

type UserContext struct {
	Type      ContextType     `json:"type"`
	Companies []CompanyAccess `json:"companies"`
	Clients   []ClientAccess  `json:"clients"`
	// Active is nil while Type is multi and no selection has been made, and
	// always nil for no_access (a terminal deny state, not a loading state).
	Active *ActiveContext `json:"active_context,omitempty"`
}

// Clone returns an independent copy safe to hand to consumers.
func (u UserContext) Clone() UserContext {
	out := UserContext{Type: u.Type}
	if len(u.Companies) > 0 {
		out.Companies = make([]CompanyAccess, len(u.Companies))
		copy(out.Companies, u.Companies)
	}
	if len(u.Clients) > 0 {
		out.Clients = make([]ClientAccess, len(u.Clients))
		copy(out.Clients, u.Clients)
	}
	if u.Active != nil {
		a := *u.Active
		out.Active = &a
	}
	return out
}

// HasCompany reports whether the context contains the given company id.
func (u UserContext) HasCompany(companyID string) bool {
	for _, c := range u.Companies {
		if c.CompanyID == companyID {
			return true
		}
	}
	return false
}

// HasClient reports whether the context contains the given client id.
func (u UserContext) HasClient(clientID string) bool {
	for _, c := range u.Clients {
		if c.ClientID == clientID {
			return true
		}
	}
	return false
}
