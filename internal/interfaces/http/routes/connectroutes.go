package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/ns-ai-search/console/internal/interfaces/http/handlers"
	"github.com/ns-ai-search/console/internal/interfaces/http/middleware"
)

// PublicPrefixes are served to WordPress plugins on any origin.
var PublicPrefixes = []string{"/connect", "/api/messenger"}

// ConnectRouteConfig holds dependencies for the Messenger connector routes.
type ConnectRouteConfig struct {
	ConnectHandler *handlers.ConnectHandler
	RateLimiter    *middleware.RateLimiter
}

// SetupConnectRoutes registers the connector under /connect and the paths
// older plugin releases still call. Initiate and callback are browser
// redirects and are not rate limited.
func SetupConnectRoutes(engine *gin.Engine, cfg *ConnectRouteConfig) {
	h := cfg.ConnectHandler
	limit := cfg.RateLimiter.Limit()

	connect := engine.Group("/connect", middleware.PublicCORS())
	{
		connect.GET("/initiate", h.Initiate)
		connect.GET("/callback", h.Callback)
		connect.GET("/status", limit, h.Status)
		connect.OPTIONS("/status", h.Preflight)
		connect.POST("/disconnect", limit, h.Disconnect)
		connect.OPTIONS("/disconnect", h.Preflight)
	}

	legacy := engine.Group("/api/messenger", middleware.PublicCORS())
	{
		legacy.GET("/auth", h.Initiate)
		legacy.GET("/callback", h.Callback)
		legacy.GET("/status", limit, h.Status)
		legacy.OPTIONS("/status", h.Preflight)
		legacy.POST("/disconnect", limit, h.Disconnect)
		legacy.OPTIONS("/disconnect", h.Preflight)
	}
}
