package userctx

// Aggregate merges the two independently resolved role sets into a classified
// UserContext.
//
// Default active scope:
//   - company-only: the first company in input order becomes active.
//   - client-only: the first client becomes active.
//   - multi: left unset. A principal with administrative power in one place and
//     plain membership in another must pick a scope explicitly.
//   - no_access: unset; downstream treats this as a stable deny, not loading.
func Aggregate(companies []CompanyAccess, clients []ClientAccess) UserContext {
	uc := UserContext{
		Type:      classify(len(companies), len(clients)),
		Companies: companies,
		Clients:   clients,
	}

	switch uc.Type {
	case TypeCompany:
		uc.Active = &ActiveContext{Kind: ScopeCompany, ID: companies[0].CompanyID}
	case TypeClient:
		uc.Active = &ActiveContext{Kind: ScopeClient, ID: clients[0].ClientID}
	}
	return uc
}

func classify(companies, clients int) ContextType {
	switch {
	case companies > 0 && clients > 0:
		return TypeMulti
	case companies > 0:
		return TypeCompany
	case clients > 0:
		return TypeClient
	default:
		return TypeNoAccess
	}
}
