package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/ns-ai-search/console/internal/domain/usagelog"
	"github.com/ns-ai-search/console/internal/infrastructure/persistence/models"
	"github.com/ns-ai-search/console/internal/shared/biztime"
	"github.com/ns-ai-search/console/internal/shared/constants"
	"github.com/ns-ai-search/console/internal/shared/db"
	"github.com/ns-ai-search/console/internal/shared/logger"
)

// UsageLogRepository implements usagelog.Repository.
type UsageLogRepository struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewUsageLogRepository(db *gorm.DB, logger logger.Interface) *UsageLogRepository {
	return &UsageLogRepository{db: db, logger: logger}
}

var _ usagelog.Repository = (*UsageLogRepository)(nil)

func (r *UsageLogRepository) List(ctx context.Context, filter usagelog.ListFilter) ([]*usagelog.Entry, int64, error) {
	base := db.GetTxFromContext(ctx, r.db).Table(constants.TableUsageLogs + " AS ul")
	if filter.WebsiteID != nil {
		base = base.Where("ul.website_id = ?", *filter.WebsiteID)
	}
	if filter.Operation != "" {
		base = base.Where("ul.operation = ?", filter.Operation)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		r.logger.Errorw("failed to count usage logs", "error", err)
		return nil, 0, fmt.Errorf("failed to count usage logs: %w", err)
	}

	query := base.Select("ul.*, w.domain AS website_domain, w.title AS website_title").
		Joins("LEFT JOIN " + constants.TableWebsites + " AS w ON w.id = ul.website_id").
		Order("ul.timestamp DESC").Order("ul.id DESC")
	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var rows []*models.UsageLogRow
	if err := query.Scan(&rows).Error; err != nil {
		r.logger.Errorw("failed to list usage logs", "error", err)
		return nil, 0, fmt.Errorf("failed to list usage logs: %w", err)
	}

	entries := make([]*usagelog.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, &usagelog.Entry{
			ID:               row.ID,
			WebsiteID:        row.WebsiteID,
			WebsiteDomain:    deref(row.WebsiteDomain),
			WebsiteTitle:     deref(row.WebsiteTitle),
			Operation:        row.Operation,
			Cost:             row.Cost,
			CreditsRemaining: row.CreditsRemaining,
			Timestamp:        row.Timestamp,
		})
	}
	return entries, total, nil
}

// CountByDay buckets rows by business day in Go so the query stays portable
// across MySQL and SQLite date functions.
func (r *UsageLogRepository) CountByDay(ctx context.Context, since time.Time) ([]usagelog.DailyCount, error) {
	start := biztime.StartOfDayUTC(since)

	var timestamps []time.Time
	if err := db.GetTxFromContext(ctx, r.db).Model(&models.UsageLogModel{}).
		Where("timestamp >= ?", start).
		Pluck("timestamp", &timestamps).Error; err != nil {
		r.logger.Errorw("failed to load usage timestamps", "error", err)
		return nil, fmt.Errorf("failed to count usage by day: %w", err)
	}

	counts := make(map[string]int64, 8)
	for _, ts := range timestamps {
		counts[biztime.FormatDate(ts)]++
	}

	var out []usagelog.DailyCount
	today := biztime.StartOfDayUTC(biztime.NowUTC())
	for day := start; !day.After(today); day = day.AddDate(0, 0, 1) {
		key := biztime.FormatDate(day)
		out = append(out, usagelog.DailyCount{Date: key, Count: counts[key]})
	}
	return out, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
