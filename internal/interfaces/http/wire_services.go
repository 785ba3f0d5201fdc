package http

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ns-ai-search/console/internal/application/dashboard"
	"github.com/ns-ai-search/console/internal/application/logs"
	"github.com/ns-ai-search/console/internal/application/messenger"
	"github.com/ns-ai-search/console/internal/application/staff"
	"github.com/ns-ai-search/console/internal/application/website"
	"github.com/ns-ai-search/console/internal/infrastructure/auth"
	"github.com/ns-ai-search/console/internal/infrastructure/cache"
	"github.com/ns-ai-search/console/internal/infrastructure/config"
	"github.com/ns-ai-search/console/internal/infrastructure/credits"
	"github.com/ns-ai-search/console/internal/infrastructure/email"
	"github.com/ns-ai-search/console/internal/infrastructure/facebook"
	"github.com/ns-ai-search/console/internal/infrastructure/metrics"
	"github.com/ns-ai-search/console/internal/infrastructure/permission"
	"github.com/ns-ai-search/console/internal/shared/logger"
)

const pageLookupFailureTTL = 10 * time.Minute

// allServices holds the application services and the outbound clients they
// share.
type allServices struct {
	graph    *facebook.Client
	credits  *credits.Client
	notifier *email.OpsNotifier

	website   *website.ServiceDDD
	messenger *messenger.ServiceDDD
	logs      *logs.ServiceDDD
	staff     *staff.ServiceDDD
	dashboard *dashboard.GetDashboardUseCase
}

func (c *Container) initInfrastructure() error {
	cfg, log := c.cfg, c.log

	c.redis = initRedis(cfg, log)

	if cfg.Metrics.Enabled {
		m, err := metrics.New(nil)
		if err != nil {
			return fmt.Errorf("failed to register metrics: %w", err)
		}
		c.metrics = m
	}

	c.repos = newRepositories(c.db, log)

	c.jwtSvc = auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.AccessExpMinutes)
	c.hasher = auth.NewBcryptPasswordHasher(cfg.Auth.BcryptCost)

	enforcer, err := permission.NewEnforcer(c.db, log.Named("permission"))
	if err != nil {
		return fmt.Errorf("failed to create permission enforcer: %w", err)
	}
	if err := enforcer.EnsureDefaultPolicies(); err != nil {
		return err
	}
	c.enforcer = enforcer

	return nil
}

func (c *Container) initServices() {
	cfg, log := c.cfg, c.log

	if !cfg.Facebook.IsConfigured() {
		log.Warnw("facebook app credentials are not configured; connect requests will fail with config_error")
	}
	if !cfg.Credits.IsConfigured() {
		log.Warnw("credits backend is not configured; credit pushes are skipped")
	}

	graph := facebook.NewClient(cfg.Facebook, cfg.Server.CallbackURL(), c.metrics, log.Named("facebook"))
	creditsClient := credits.NewClient(cfg.Credits, c.metrics, log.Named("credits"))
	notifier := email.NewOpsNotifier(cfg.Email, log.Named("email"))

	c.svcs = &allServices{
		graph:    graph,
		credits:  creditsClient,
		notifier: notifier,

		website: website.NewServiceDDD(
			c.repos.websiteRepo,
			c.repos.adminLogRepo,
			c.repos.usageLogRepo,
			c.repos.txManager,
			creditsClient,
			notifier,
			log.Named("website"),
		),
		messenger: messenger.NewServiceDDD(messenger.Dependencies{
			Websites: c.repos.websiteRepo,
			Graph:    graph,
			Credits:  creditsClient,
			Mailer:   notifier,
			Audit:    c.repos.adminLogRepo,
			Lookups:  cache.NewPageLookupCache(pageLookupFailureTTL),
			Metrics:  c.metrics,
			States:   cache.NewRedisStateStore(c.redis, cache.DefaultStatePrefix),
		}, cfg.Facebook, log.Named("messenger")),
		logs: logs.NewServiceDDD(
			c.repos.adminLogRepo,
			c.repos.usageLogRepo,
			c.repos.websiteRepo,
			creditsClient,
			log.Named("logs"),
		),
		staff:     staff.NewServiceDDD(c.repos.staffRepo, c.hasher, c.jwtSvc, log.Named("staff")),
		dashboard: dashboard.NewGetDashboardUseCase(c.repos.websiteRepo, c.repos.adminLogRepo, c.repos.usageLogRepo, log.Named("dashboard")),
	}
}

// initRedis creates the Redis client. An unreachable server is logged and
// tolerated; its users fail open until it comes back.
func initRedis(cfg *config.Config, log logger.Interface) *redis.Client {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Warnw("redis is unreachable, rate limiting and state replay checks fail open until it recovers", "addr", cfg.Redis.GetAddr(), "error", err)
		return redisClient
	}
	log.Infow("Redis connection established successfully")

	return redisClient
}
