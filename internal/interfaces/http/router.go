package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/ns-ai-search/console/internal/infrastructure/config"
	"github.com/ns-ai-search/console/internal/interfaces/http/handlers"
	"github.com/ns-ai-search/console/internal/interfaces/http/middleware"
	"github.com/ns-ai-search/console/internal/interfaces/http/routes"
	"github.com/ns-ai-search/console/internal/shared/logger"

	_ "github.com/ns-ai-search/console/docs"
)

// Router represents the HTTP router configuration
type Router struct {
	*Container
}

// NewRouter creates a new HTTP router with all dependencies
func NewRouter(db *gorm.DB, cfg *config.Config, log logger.Interface) (*Router, error) {
	c, err := NewContainer(db, cfg, log)
	if err != nil {
		return nil, err
	}
	return &Router{Container: c}, nil
}

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes() {
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.RequestLogger(r.log, routes.PublicPrefixes...))
	r.engine.Use(middleware.Recovery(r.log))
	if r.metrics != nil {
		r.engine.Use(middleware.Metrics(r.metrics))
	}
	r.engine.Use(middleware.CORS(r.cfg.Server.AllowedOrigins, routes.PublicPrefixes...))

	r.engine.GET("/health", r.hdlrs.health.HealthCheck)
	r.engine.GET("/version", r.hdlrs.health.Version)
	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	if r.metrics != nil {
		r.engine.GET(r.cfg.Metrics.Path, gin.WrapH(r.metrics.Handler()))
	}
	for _, page := range handlers.DefaultLegalPages {
		r.engine.GET("/"+page.Slug, r.hdlrs.legal.Page(page))
	}
	// old path still linked from the Facebook app settings
	r.engine.GET("/terms-and-condition", func(c *gin.Context) {
		c.Redirect(stdhttp.StatusMovedPermanently, "/terms-and-conditions")
	})

	routes.SetupConnectRoutes(r.engine, &routes.ConnectRouteConfig{
		ConnectHandler: r.hdlrs.connect,
		RateLimiter:    r.connectLimiter,
	})

	routes.SetupAuthRoutes(r.engine, &routes.AuthRouteConfig{
		AuthHandler:    r.hdlrs.auth,
		AuthMiddleware: r.authMiddleware,
		RateLimiter:    r.loginLimiter,
	})

	routes.SetupAdminRoutes(r.engine, &routes.AdminRouteConfig{
		WebsiteHandler:       r.hdlrs.website,
		LogHandler:           r.hdlrs.logs,
		DashboardHandler:     r.hdlrs.dashboard,
		AuthMiddleware:       r.authMiddleware,
		PermissionMiddleware: r.permissionMiddleware,
	})
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
