package rbac

import "dashboard-platform/internal/userctx"

// Gate predicates are pure set-membership checks over an already-resolved
// context. There is NO role hierarchy: holding owner does not satisfy IsAdmin.
// Callers that want "owner or admin" must check both. Several call sites
// enumerate allowed roles rather than a minimum rank, and that flat semantics
// is load-bearing.
//
// These checks are advisory: they drive route guards and UI affordances. The
// enforcement boundary for data access is row-level policy at the store; a
// predicate returning true proves nothing to the database.
//
// No predicate returns an error. Unauthorized simply evaluates to false.

// IsOwner reports whether the principal holds the owner role on the company.
func IsOwner(uc userctx.UserContext, companyID string) bool {
	return hasCompanyRole(uc, companyID, RoleOwner)
}

// IsAdmin reports whether the principal holds the admin role on the company.
func IsAdmin(uc userctx.UserContext, companyID string) bool {
	return hasCompanyRole(uc, companyID, RoleAdmin)
}

// IsMember reports whether the principal holds the member role on the company.
// The legacy "user" alias is accepted as member.
func IsMember(uc userctx.UserContext, companyID string) bool {
	return hasCompanyRole(uc, companyID, RoleMember)
}

// IsClientAdmin reports whether the principal holds the admin role on the client.
func IsClientAdmin(uc userctx.UserContext, clientID string) bool {
	return hasClientRole(uc, clientID, RoleAdmin)
}

// IsClientMember reports whether the principal holds the member role on the client.
func IsClientMember(uc userctx.UserContext, clientID string) bool {
	return hasClientRole(uc, clientID, RoleMember)
}

// HasAnyCompanyRole reports whether the principal holds any of the given roles
// on the company. Roles are compared after alias normalization.
func HasAnyCompanyRole(uc userctx.UserContext, companyID string, roles ...string) bool {
	for _, r := range roles {
		if hasCompanyRole(uc, companyID, NormalizeCompanyRole(r)) {
			return true
		}
	}
	return false
}

// HasAnyClientRole reports whether the principal holds any of the given roles
// on the client.
func HasAnyClientRole(uc userctx.UserContext, clientID string, roles ...string) bool {
	for _, r := range roles {
		if hasClientRole(uc, clientID, r) {
			return true
		}
	}
	return false
}

func hasCompanyRole(uc userctx.UserContext, companyID, role string) bool {
	if companyID == "" {
		return false
	}
	for _, c := range uc.Companies {
		if c.CompanyID == companyID && NormalizeCompanyRole(c.Role) == role {
			return true
		}
	}
	return false
}

func hasClientRole(uc userctx.UserContext, clientID, role string) bool {
	if clientID == "" {
		return false
	}
	for _, c := range uc.Clients {
		if c.ClientID == clientID && c.Role == role {
			return true
		}
	}
	return false
}
