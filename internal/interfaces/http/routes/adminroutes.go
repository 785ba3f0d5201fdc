package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/ns-ai-search/console/internal/interfaces/http/handlers"
	"github.com/ns-ai-search/console/internal/interfaces/http/middleware"
)

// AdminRouteConfig holds dependencies for the staff admin API.
type AdminRouteConfig struct {
	WebsiteHandler       *handlers.WebsiteHandler
	LogHandler           *handlers.LogHandler
	DashboardHandler     *handlers.DashboardHandler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
}

// SetupAdminRoutes configures /api/admin. Every route requires a staff token
// and passes the casbin policy check.
func SetupAdminRoutes(engine *gin.Engine, cfg *AdminRouteConfig) {
	admin := engine.Group("/api/admin")
	admin.Use(
		cfg.AuthMiddleware.RequireAuth(),
		cfg.PermissionMiddleware.RequirePermission(),
	)

	admin.GET("/dashboard", cfg.DashboardHandler.GetDashboard)
	admin.GET("/plans", cfg.WebsiteHandler.ListPlans)

	websites := admin.Group("/websites")
	{
		websites.GET("", cfg.WebsiteHandler.ListWebsites)
		websites.POST("", cfg.WebsiteHandler.CreateWebsite)
		websites.GET("/:id", cfg.WebsiteHandler.GetWebsite)
		websites.PATCH("/:id", cfg.WebsiteHandler.UpdateWebsite)
		websites.DELETE("/:id", cfg.WebsiteHandler.DeleteWebsite)

		websites.POST("/:id/credits", cfg.WebsiteHandler.AdjustCredits)
		websites.POST("/:id/credits/reset", cfg.WebsiteHandler.ResetCredits)
		websites.POST("/:id/sync", cfg.WebsiteHandler.SyncWebsite)
		websites.POST("/:id/renew", cfg.WebsiteHandler.RenewSubscription)
		websites.POST("/:id/license-key", cfg.WebsiteHandler.RegenerateLicenseKey)
		websites.GET("/:id/usage-logs", cfg.LogHandler.RemoteUsageLogs)
	}

	admin.GET("/logs", cfg.LogHandler.ListAdminLogs)
	admin.GET("/usage-logs", cfg.LogHandler.ListUsageLogs)
}
