package rbac

import (
	"net/http"

	"dashboard-platform/internal/audit"
	"dashboard-platform/internal/auth"
	"dashboard-platform/internal/userctx"

	"github.com/gin-gonic/gin"
)

// Guards are gin route guards over the resolved UserContext. They must run
// after userctx.RequireContext.
//
// A failed check renders a deny-state JSON; it never panics and never clears
// the caller's context. Denials are audited best-effort.
type Guards struct {
	Audit *audit.Service
}

// RequireScopeType denies callers whose context classification is not one of
// the allowed types. no_access callers are always denied here: that state is a
// stable deny, not a loading state.
func (g Guards) RequireScopeType(allowed ...userctx.ContextType) gin.HandlerFunc {
	allowedSet := make(map[userctx.ContextType]struct{}, len(allowed))
	for _, t := range allowed {
		allowedSet[t] = struct{}{}
	}

	return func(c *gin.Context) {
		uc, err := userctx.FromContext(c.Request.Context())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "context required"})
			return
		}
		if _, ok := allowedSet[uc.Type]; !ok {
			g.deny(c, "", "", "scope type not allowed")
			return
		}
		c.Next()
	}
}

// RequireCompanyRole allows the request if the caller holds any of the given
// roles on the company named by the :company_id route param.
func (g Guards) RequireCompanyRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		uc, err := userctx.FromContext(c.Request.Context())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "context required"})
			return
		}
		companyID := c.Param("company_id")
		if companyID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "company_id required"})
			return
		}
		if !HasAnyCompanyRole(uc, companyID, roles...) {
			g.deny(c, "company", companyID, "company role not held")
			return
		}
		c.Next()
	}
}

// RequireClientRole allows the request if the caller holds any of the given
// roles on the client named by the :client_id route param.
func (g Guards) RequireClientRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		uc, err := userctx.FromContext(c.Request.Context())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "context required"})
			return
		}
		clientID := c.Param("client_id")
		if clientID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "client_id required"})
			return
		}
		if !HasAnyClientRole(uc, clientID, roles...) {
			g.deny(c, "client", clientID, "client role not held")
			return
		}
		c.Next()
	}
}

func (g Guards) deny(c *gin.Context, kind, scopeID, detail string) {
	if g.Audit != nil {
		if uid, err := auth.UserID(c.Request.Context()); err == nil {
			_ = g.Audit.LogGuardDenied(c.Request.Context(), uid, kind, scopeID, detail)
		}
	}
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
}
