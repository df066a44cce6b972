package main

import (
	"dashboard-platform/internal/audit"
	"dashboard-platform/internal/auth"
	"dashboard-platform/internal/httpapi"
	"dashboard-platform/internal/rbac"
	"dashboard-platform/internal/userctx"

	"github.com/gin-gonic/gin"
)

type routeDeps struct {
	Auth     *auth.Manager
	Sessions *auth.MemoryProvider
	Contexts *userctx.Registry
	Audit    *audit.Service
}

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers delegate to internal modules.
func registerRoutes(r *gin.Engine, deps routeDeps) {
	h := httpapi.Handlers{
		Auth:     deps.Auth,
		Sessions: deps.Sessions,
		Contexts: deps.Contexts,
	}
	guards := rbac.Guards{Audit: deps.Audit}

	// public
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := r.Group("/v1")

	// AUTH routes (token issuance).
	v1.POST("/auth/login", h.Login)

	// Everything below requires a verified access token and a resolved,
	// settled context. no_access principals get past this chain and are
	// denied per-route by the guards; that state is a classification, not a
	// transport failure.
	protected := v1.Group("")
	protected.Use(auth.RequireAccessToken(deps.Auth))
	protected.Use(userctx.RequireContext(deps.Contexts))
	{
		protected.POST("/auth/logout", h.Logout)

		protected.GET("/me/context", h.MeContext)
		protected.POST("/me/context/switch", h.SwitchContext)

		// COMPANY routes. Any company role may view the dashboard; settings
		// require owner or admin explicitly. Being an owner alone does NOT
		// satisfy an admin check, so both roles are listed wherever both are
		// meant to pass.
		company := protected.Group("/company/:company_id")
		company.Use(guards.RequireCompanyRole(rbac.RoleOwner, rbac.RoleAdmin, rbac.RoleMember))
		{
			company.GET("/dashboard", h.CompanyDashboard)

			companyAdmin := company.Group("")
			companyAdmin.Use(guards.RequireCompanyRole(rbac.RoleOwner, rbac.RoleAdmin))
			{
				companyAdmin.GET("/settings", h.CompanyDashboard)
			}
		}

		// CLIENT routes, independent of any company access.
		client := protected.Group("/client/:client_id")
		client.Use(guards.RequireClientRole(rbac.RoleAdmin, rbac.RoleMember))
		{
			client.GET("", h.ClientRoot)

			clientAdmin := client.Group("")
			clientAdmin.Use(guards.RequireClientRole(rbac.RoleAdmin))
			{
				clientAdmin.GET("/settings", h.ClientRoot)
			}
		}
	}
}
