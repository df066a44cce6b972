package rbac

// Role names. Keep these stable; they are part of authorization contracts.
//
// Company side: owner, admin, member. A fourth historical alias "user" still
// exists in membership rows and is equivalent to member.
// Client side: admin, member, independent of any company role.
const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleMember = "member"

	// legacyRoleUser is the historical alias for member. It is normalized
	// away at the resolution boundary and never appears in a UserContext.
	legacyRoleUser = "user"
)

// NormalizeCompanyRole maps the legacy "user" alias to member. All other role
// strings pass through unchanged, including unknown ones: an unknown role
// grants nothing because the gate predicates are exact set-membership checks.
func NormalizeCompanyRole(role string) string {
	if role == legacyRoleUser {
		return RoleMember
	}
	return role
}
