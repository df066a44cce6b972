package httpapi

import (
	"net/http"
	"time"

	"dashboard-platform/internal/auth"
	"dashboard-platform/internal/userctx"

	"github.com/gin-gonic/gin"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.

type Handlers struct {
	Auth     *auth.Manager
	Sessions *auth.MemoryProvider
	Contexts *userctx.Registry
}

// --- Auth ---

type loginRequest struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// Login issues a JWT token pair and signs the principal into the session
// provider, which kicks off context resolution.
//
// NOTE: This is a skeleton-only endpoint. Real systems must validate
// credentials before issuing tokens.
func (h Handlers) Login(c *gin.Context) {
	if h.Auth == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "auth not configured"})
		return
	}
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.UserID == "" || req.Email == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "user_id and email required"})
		return
	}
	pair, err := h.Auth.IssuePair(time.Now(), req.UserID, req.Email)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "token issuance failed"})
		return
	}
	if h.Sessions != nil {
		h.Sessions.SignIn(req.UserID, req.Email)
	}
	c.JSON(http.StatusOK, gin.H{"access_token": pair.AccessToken, "refresh_token": pair.RefreshToken})
}

// Logout ends the current session; subscribers tear down resolved state.
func (h Handlers) Logout(c *gin.Context) {
	if h.Sessions != nil {
		h.Sessions.SignOut()
	}
	c.JSON(http.StatusOK, gin.H{"redirect": auth.LoginRedirectPath})
}

// --- Context ---

// MeContext returns the caller's resolved context. no_access comes back as a
// normal 200: it is a stable classification the UI must render as deny, not an
// HTTP error.
func (h Handlers) MeContext(c *gin.Context) {
	uc, err := userctx.FromContext(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "context required"})
		return
	}
	c.JSON(http.StatusOK, uc)
}

type switchRequest struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

// SwitchContext changes the caller's active scope. An id absent from the
// resolved context leaves the active scope untouched and reports
// switched=false; it is not an HTTP error.
func (h Handlers) SwitchContext(c *gin.Context) {
	if h.Contexts == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "context registry not configured"})
		return
	}
	uid, err := auth.UserID(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user_id required"})
		return
	}
	var req switchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	var kind userctx.ScopeKind
	switch req.Kind {
	case string(userctx.ScopeCompany):
		kind = userctx.ScopeCompany
	case string(userctx.ScopeClient):
		kind = userctx.ScopeClient
	default:
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "kind must be company or client"})
		return
	}

	email, _ := auth.Email(c.Request.Context())
	svc := h.Contexts.For(uid, email)
	path, switched := svc.Switch(c.Request.Context(), kind, req.ID)

	uc, _ := svc.Current()
	resp := gin.H{"switched": switched, "active_context": uc.Active}
	if switched {
		resp["redirect"] = path
	}
	c.JSON(http.StatusOK, resp)
}

// --- Scoped dashboards (gate demonstration) ---

// CompanyDashboard is a placeholder behind the company-role guard.
func (h Handlers) CompanyDashboard(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"company_id": c.Param("company_id"), "status": "ok"})
}

// ClientRoot is a placeholder behind the client-role guard.
func (h Handlers) ClientRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"client_id": c.Param("client_id"), "status": "ok"})
}
