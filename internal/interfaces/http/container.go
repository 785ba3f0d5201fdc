package http

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/ns-ai-search/console/internal/infrastructure/auth"
	"github.com/ns-ai-search/console/internal/infrastructure/config"
	"github.com/ns-ai-search/console/internal/infrastructure/metrics"
	"github.com/ns-ai-search/console/internal/infrastructure/permission"
	"github.com/ns-ai-search/console/internal/interfaces/http/middleware"
	"github.com/ns-ai-search/console/internal/shared/logger"
)

// Container holds the infrastructure components, repositories, services,
// handlers and middlewares of the console, wired together.
type Container struct {
	// Core infrastructure
	engine  *gin.Engine
	db      *gorm.DB
	cfg     *config.Config
	log     logger.Interface
	redis   *redis.Client
	metrics *metrics.Metrics

	// Auth
	jwtSvc   *auth.JWTService
	hasher   *auth.BcryptPasswordHasher
	enforcer *permission.Enforcer

	repos *repositories
	svcs  *allServices
	hdlrs *allHandlers

	// Middlewares
	authMiddleware       *middleware.AuthMiddleware
	permissionMiddleware *middleware.PermissionMiddleware
	connectLimiter       *middleware.RateLimiter
	loginLimiter         *middleware.RateLimiter
}

// NewContainer creates a Container with all dependencies wired together.
func NewContainer(db *gorm.DB, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine: gin.New(),
		db:     db,
		cfg:    cfg,
		log:    log,
	}

	// Section 1: Infrastructure - Redis, metrics, auth, repositories
	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}

	// Section 2: Application services
	c.initServices()

	// Section 3: Handlers and middlewares
	c.initHandlers()

	return c, nil
}

// Shutdown releases resources owned by the container.
func (c *Container) Shutdown(ctx context.Context) error {
	if c.redis == nil {
		return nil
	}

	done := make(chan error, 1)
	go func() { done <- c.redis.Close() }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to close redis client: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
