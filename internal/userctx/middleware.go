package userctx

import (
	"net/http"

	"dashboard-platform/internal/auth"

	"github.com/gin-gonic/gin"
)

// RequireContext resolves the caller's UserContext and attaches it to the
// request. It must run after auth.RequireAccessToken.
//
// A failed resolution responds 503: the caller's access is unknown, which is
// neither a grant nor a deny. no_access is NOT an error here; it flows through
// and the rbac guards deny the scoped routes.
func RequireContext(reg *Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, err := auth.UserID(c.Request.Context())
		if err != nil || uid == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user_id required", "redirect": auth.LoginRedirectPath})
			return
		}
		email, _ := auth.Email(c.Request.Context())

		svc := reg.For(uid, email)
		uc, state := svc.Context(c.Request.Context())
		switch state {
		case StateReady:
		case StateFailed:
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "context resolution failed"})
			return
		default:
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "context not ready"})
			return
		}

		c.Request = c.Request.WithContext(WithContext(c.Request.Context(), uc))
		c.Set("user_context", uc)
		c.Next()
	}
}
