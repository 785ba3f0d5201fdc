package http

import (
	"github.com/ns-ai-search/console/internal/infrastructure/ratelimit"
	"github.com/ns-ai-search/console/internal/interfaces/http/handlers"
	"github.com/ns-ai-search/console/internal/interfaces/http/middleware"
	"github.com/ns-ai-search/console/internal/shared/services/markdown"
)

// allHandlers holds every HTTP handler.
type allHandlers struct {
	connect   *handlers.ConnectHandler
	auth      *handlers.AuthHandler
	website   *handlers.WebsiteHandler
	logs      *handlers.LogHandler
	dashboard *handlers.DashboardHandler
	legal     *handlers.LegalHandler
	health    *handlers.HealthHandler
}

func (c *Container) initHandlers() {
	cfg, log := c.cfg, c.log

	var health *handlers.HealthHandler
	if sqlDB, err := c.db.DB(); err == nil {
		health = handlers.NewHealthHandler(sqlDB)
	} else {
		log.Warnw("failed to get sql.DB for health checks", "error", err)
		health = handlers.NewHealthHandler(nil)
	}

	c.hdlrs = &allHandlers{
		connect:   handlers.NewConnectHandler(c.svcs.messenger, log.Named("connect")),
		auth:      handlers.NewAuthHandler(c.svcs.staff, log.Named("auth")),
		website:   handlers.NewWebsiteHandler(c.svcs.website, log.Named("website")),
		logs:      handlers.NewLogHandler(c.svcs.logs, log.Named("logs")),
		dashboard: handlers.NewDashboardHandler(c.svcs.dashboard, log.Named("dashboard")),
		legal:     handlers.NewLegalHandler(cfg.Legal.PagesDir, markdown.NewRenderer(), log.Named("legal")),
		health:    health,
	}

	c.authMiddleware = middleware.NewAuthMiddleware(c.jwtSvc, log)
	c.permissionMiddleware = middleware.NewPermissionMiddleware(c.enforcer, log)

	var limiter ratelimit.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = ratelimit.NewRedisRateLimiter(c.redis)
	}
	c.connectLimiter = middleware.NewRateLimiter(limiter, "connect", cfg.RateLimit.ConnectPerMinute, log)
	c.loginLimiter = middleware.NewRateLimiter(limiter, "login", cfg.RateLimit.LoginPerMinute, log)
}
