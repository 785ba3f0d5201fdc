// Package dashboard aggregates the console overview shown after login.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ns-ai-search/console/internal/domain/auditlog"
	"github.com/ns-ai-search/console/internal/domain/usagelog"
	"github.com/ns-ai-search/console/internal/domain/website"
	"github.com/ns-ai-search/console/internal/shared/biztime"
	"github.com/ns-ai-search/console/internal/shared/logger"
)

const (
	recentLogLimit = 10
	usageDays      = 7
)

type WebsiteStats interface {
	Stats(ctx context.Context) (*website.Stats, error)
}

type AuditLister interface {
	List(ctx context.Context, filter auditlog.ListFilter) ([]*auditlog.EntryView, int64, error)
}

type UsageCounter interface {
	CountByDay(ctx context.Context, since time.Time) ([]usagelog.DailyCount, error)
}

type WebsiteTotals struct {
	Total     int64 `json:"total"`
	Active    int64 `json:"active"`
	Inactive  int64 `json:"inactive"`
	Suspended int64 `json:"suspended"`
}

type CreditTotals struct {
	Total     int64 `json:"total"`
	Used      int64 `json:"used"`
	Remaining int64 `json:"remaining"`
}

type Response struct {
	Websites    WebsiteTotals         `json:"websites"`
	Credits     CreditTotals          `json:"credits"`
	ByPlan      map[string]int64      `json:"by_plan"`
	RecentLogs  []*auditlog.EntryView `json:"recent_logs"`
	UsageByDay  []usagelog.DailyCount `json:"usage_by_day"`
	GeneratedAt time.Time             `json:"generated_at"`
}

// GetDashboardUseCase runs the independent overview queries concurrently.
type GetDashboardUseCase struct {
	websites WebsiteStats
	audit    AuditLister
	usage    UsageCounter
	logger   logger.Interface
}

func NewGetDashboardUseCase(websites WebsiteStats, audit AuditLister, usage UsageCounter, logger logger.Interface) *GetDashboardUseCase {
	return &GetDashboardUseCase{
		websites: websites,
		audit:    audit,
		usage:    usage,
		logger:   logger,
	}
}

func (uc *GetDashboardUseCase) Execute(ctx context.Context) (*Response, error) {
	now := biztime.NowUTC()
	since := biztime.StartOfDayUTC(now).AddDate(0, 0, -(usageDays - 1))

	var (
		stats  *website.Stats
		recent []*auditlog.EntryView
		daily  []usagelog.DailyCount
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, err := uc.websites.Stats(gctx)
		if err != nil {
			return fmt.Errorf("failed to load website stats: %w", err)
		}
		stats = s
		return nil
	})
	g.Go(func() error {
		views, _, err := uc.audit.List(gctx, auditlog.ListFilter{Page: 1, PageSize: recentLogLimit})
		if err != nil {
			return fmt.Errorf("failed to load recent admin logs: %w", err)
		}
		recent = views
		return nil
	})
	g.Go(func() error {
		counts, err := uc.usage.CountByDay(gctx, since)
		if err != nil {
			return fmt.Errorf("failed to count usage: %w", err)
		}
		daily = counts
		return nil
	})
	if err := g.Wait(); err != nil {
		uc.logger.Errorw("failed to build dashboard", "error", err)
		return nil, err
	}

	resp := &Response{
		ByPlan:      make(map[string]int64, len(website.Catalog())),
		RecentLogs:  recent,
		UsageByDay:  daily,
		GeneratedAt: now,
	}
	// every plan shows up, even with no websites
	for _, p := range website.Catalog() {
		resp.ByPlan[string(p.Plan)] = 0
	}
	if stats != nil {
		resp.Websites = WebsiteTotals{
			Total:     stats.Total,
			Active:    stats.Active,
			Inactive:  stats.Inactive,
			Suspended: stats.Suspended,
		}
		resp.Credits = CreditTotals{
			Total:     stats.CreditsTotal,
			Used:      stats.CreditsUsed,
			Remaining: stats.CreditsRemaining,
		}
		for plan, n := range stats.ByPlan {
			resp.ByPlan[string(plan)] = n
		}
	}
	if resp.RecentLogs == nil {
		resp.RecentLogs = []*auditlog.EntryView{}
	}
	if resp.UsageByDay == nil {
		resp.UsageByDay = []usagelog.DailyCount{}
	}
	return resp, nil
}
