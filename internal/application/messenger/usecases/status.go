package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/ns-ai-search/console/internal/domain/website"
	"github.com/ns-ai-search/console/internal/shared/goroutine"
	"github.com/ns-ai-search/console/internal/shared/logger"
)

const pageNameLookupTimeout = 5 * time.Second

type GetStatusQuery struct {
	LicenseKey string
	Domain     string
}

// StatusResult is the plugin-facing connection state. Pointer fields
// serialize as null when Messenger is not connected.
type StatusResult struct {
	MessengerEnabled bool
	TokenExpiresAt   *time.Time
	FacebookPageID   *string
	FacebookPageName *string
}

// AsyncRunner starts background work. goroutine.SafeGo in production.
type AsyncRunner func(log logger.Interface, name string, fn func())

type GetStatusUseCase struct {
	websites WebsiteStore
	graph    GraphClient
	failures PageLookupCache
	runAsync AsyncRunner
	metrics  ConnectMetrics
	logger   logger.Interface
}

func NewGetStatusUseCase(
	websites WebsiteStore,
	graph GraphClient,
	failures PageLookupCache,
	metrics ConnectMetrics,
	logger logger.Interface,
) *GetStatusUseCase {
	return &GetStatusUseCase{
		websites: websites,
		graph:    graph,
		failures: failures,
		runAsync: goroutine.SafeGo,
		metrics:  metrics,
		logger:   logger,
	}
}

// WithAsyncRunner replaces the background runner, mainly for tests.
func (uc *GetStatusUseCase) WithAsyncRunner(r AsyncRunner) *GetStatusUseCase {
	uc.runAsync = r
	return uc
}

// Execute returns website.ErrWebsiteNotFound when the pair matches nothing.
func (uc *GetStatusUseCase) Execute(ctx context.Context, q GetStatusQuery) (*StatusResult, error) {
	site, err := uc.websites.GetByCredentials(ctx, q.LicenseKey, q.Domain)
	if err != nil {
		uc.logger.Errorw("failed to look up website for status", "error", err, "domain", q.Domain)
		return nil, fmt.Errorf("failed to get website: %w", err)
	}
	if site == nil {
		return nil, website.ErrWebsiteNotFound
	}

	b := site.Messenger()
	if !site.MessengerEnabled() || b == nil || b.PageID == "" || b.TokenExpiresAt.IsZero() {
		return &StatusResult{}, nil
	}

	expiresAt := b.TokenExpiresAt.UTC()
	pageID := b.PageID
	result := &StatusResult{
		MessengerEnabled: true,
		TokenExpiresAt:   &expiresAt,
		FacebookPageID:   &pageID,
	}

	name := b.PageName
	if name == "" && b.PageAccessToken != "" {
		name = uc.backfillPageName(ctx, site.ID(), b)
	}
	if name != "" {
		result.FacebookPageName = &name
	}
	return result, nil
}

// backfillPageName looks up the name of a binding made before names were
// stored. The lookup is best-effort and the write happens in the background.
func (uc *GetStatusUseCase) backfillPageName(ctx context.Context, websiteID uint, b *website.MessengerBinding) string {
	if uc.failures != nil && uc.failures.RecentlyFailed(b.PageID) {
		return ""
	}

	lookupCtx, cancel := context.WithTimeout(ctx, pageNameLookupTimeout)
	defer cancel()

	name, err := uc.graph.PageName(lookupCtx, b.PageID, b.PageAccessToken)
	if err != nil || name == "" {
		uc.metrics.SideEffectFailed(effectPageNameBackfill)
		uc.logger.Warnw("failed to fetch facebook page name", "page_id", b.PageID, "error", err)
		if uc.failures != nil {
			uc.failures.MarkFailed(b.PageID)
		}
		return ""
	}

	uc.runAsync(uc.logger, "messenger-page-name-backfill", func() {
		saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), pageNameLookupTimeout)
		defer cancel()
		if err := uc.websites.UpdatePageName(saveCtx, websiteID, name); err != nil {
			uc.metrics.SideEffectFailed(effectPageNameBackfill)
			uc.logger.Warnw("failed to store facebook page name", "website_id", websiteID, "error", err)
		}
	})
	return name
}
