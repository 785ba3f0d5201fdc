package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ns-ai-search/console/internal/domain/auditlog"
	"github.com/ns-ai-search/console/internal/domain/website"
	"github.com/ns-ai-search/console/internal/infrastructure/credits"
	"github.com/ns-ai-search/console/internal/infrastructure/email"
	"github.com/ns-ai-search/console/internal/shared/biztime"
	"github.com/ns-ai-search/console/internal/shared/logger"
)

const sideEffectTimeout = 10 * time.Second

// Side effect names, also used as the metric label.
const (
	effectSubscribeWebhooks   = "subscribe_webhooks"
	effectUnsubscribeWebhooks = "unsubscribe_webhooks"
	effectUpdatePageCache     = "update_page_cache"
	effectInvalidatePageCache = "invalidate_page_cache"
	effectRefreshSite         = "refresh_site"
	effectPushCredits         = "push_credits"
	effectOpsEmail            = "ops_email"
	effectAudit               = "audit"
	effectPageNameBackfill    = "page_name_backfill"
)

// SideEffects runs the follow-up calls made after a binding change is
// committed. Each call has its own timeout and error boundary; a failure is
// logged and counted, never returned.
type SideEffects struct {
	graph   GraphClient
	credits CreditsBackend
	mailer  OpsMailer
	audit   AuditRecorder
	metrics ConnectMetrics
	logger  logger.Interface
	timeout time.Duration
}

func NewSideEffects(
	graph GraphClient,
	credits CreditsBackend,
	mailer OpsMailer,
	audit AuditRecorder,
	metrics ConnectMetrics,
	logger logger.Interface,
) *SideEffects {
	return &SideEffects{
		graph:   graph,
		credits: credits,
		mailer:  mailer,
		audit:   audit,
		metrics: metrics,
		logger:  logger,
		timeout: sideEffectTimeout,
	}
}

// Run executes fn detached from the caller's cancellation. fn must honour
// the context it is given; that is the only bound on its duration.
func (s *SideEffects) Run(ctx context.Context, effect string, fn func(ctx context.Context) error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		return fn(ctx)
	}()
	if err != nil {
		s.metrics.SideEffectFailed(effect)
		s.logger.Warnw("side effect failed", "effect", effect, "error", err)
	}
}

// Connected runs after a binding was persisted.
func (s *SideEffects) Connected(ctx context.Context, site *website.Website, b website.MessengerBinding) {
	s.Run(ctx, effectSubscribeWebhooks, func(ctx context.Context) error {
		return s.graph.SubscribeApp(ctx, b.PageID, b.PageAccessToken)
	})
	s.Run(ctx, effectUpdatePageCache, func(ctx context.Context) error {
		return s.credits.UpdatePageCache(ctx, b.PageID, site.Domain())
	})
	s.Run(ctx, effectRefreshSite, func(ctx context.Context) error {
		return s.credits.RefreshSite(ctx, site.Domain())
	})
	s.Run(ctx, effectPushCredits, func(ctx context.Context) error {
		return s.pushCredits(ctx, site)
	})
	s.Run(ctx, effectOpsEmail, func(ctx context.Context) error {
		return s.mailer.MessengerConnected(ctx, email.MessengerEvent{
			Domain:   site.Domain(),
			PageID:   b.PageID,
			PageName: b.PageName,
			At:       biztime.NowUTC(),
		})
	})
	s.Run(ctx, effectAudit, func(ctx context.Context) error {
		return s.record(ctx, site.ID(), auditlog.ActionMessengerConnected, nil, map[string]any{
			"facebookPageId":   b.PageID,
			"facebookPageName": b.PageName,
			"tokenExpiresAt":   b.TokenExpiresAt,
		}, "Connected via Facebook OAuth")
	})
}

// Disconnected runs after the binding was cleared. Unsubscribing needs the
// page token, so it happens in Disconnect before the clear.
func (s *SideEffects) Disconnected(ctx context.Context, site *website.Website, pageID string) {
	if pageID != "" {
		s.Run(ctx, effectInvalidatePageCache, func(ctx context.Context) error {
			return s.credits.InvalidatePageCache(ctx, pageID)
		})
	}
	s.Run(ctx, effectRefreshSite, func(ctx context.Context) error {
		return s.credits.RefreshSite(ctx, site.Domain())
	})
	s.Run(ctx, effectOpsEmail, func(ctx context.Context) error {
		return s.mailer.MessengerDisconnected(ctx, email.MessengerEvent{
			Domain: site.Domain(),
			PageID: pageID,
			At:     biztime.NowUTC(),
		})
	})
	s.Run(ctx, effectAudit, func(ctx context.Context) error {
		return s.record(ctx, site.ID(), auditlog.ActionMessengerDisconnect,
			map[string]any{"facebookPageId": pageID}, nil, "Disconnected by plugin")
	})
}

func (s *SideEffects) pushCredits(ctx context.Context, site *website.Website) error {
	err := s.credits.SetCredits(ctx, credits.Allowance{
		Domain:           site.Domain(),
		CreditsTotal:     site.CreditsTotal(),
		CreditsRemaining: site.CreditsRemaining(),
		Plan:             site.Plan().String(),
	})
	if errors.Is(err, credits.ErrNotConfigured) {
		s.logger.Debugw("credits backend not configured, skipping push", "domain", site.Domain())
		return nil
	}
	return err
}

func (s *SideEffects) record(ctx context.Context, websiteID uint, action string, oldValue, newValue map[string]any, reason string) error {
	entry, err := auditlog.NewEntry(&websiteID, nil, action, oldValue, newValue, reason)
	if err != nil {
		return err
	}
	return s.audit.Create(ctx, entry)
}
