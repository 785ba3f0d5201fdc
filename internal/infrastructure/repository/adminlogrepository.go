package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/ns-ai-search/console/internal/domain/auditlog"
	"github.com/ns-ai-search/console/internal/infrastructure/persistence/mappers"
	"github.com/ns-ai-search/console/internal/infrastructure/persistence/models"
	"github.com/ns-ai-search/console/internal/shared/constants"
	"github.com/ns-ai-search/console/internal/shared/db"
	"github.com/ns-ai-search/console/internal/shared/logger"
)

// AdminLogRepository implements auditlog.Repository.
type AdminLogRepository struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewAdminLogRepository(db *gorm.DB, logger logger.Interface) *AdminLogRepository {
	return &AdminLogRepository{db: db, logger: logger}
}

var _ auditlog.Repository = (*AdminLogRepository)(nil)

func (r *AdminLogRepository) Create(ctx context.Context, e *auditlog.Entry) error {
	model, err := mappers.AdminLogToModel(e)
	if err != nil {
		return err
	}
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create admin log", "action", e.Action(), "error", err)
		return fmt.Errorf("failed to create admin log: %w", err)
	}
	e.SetID(model.ID)
	return nil
}

// List returns entries newest first, joined with website and staff labels.
func (r *AdminLogRepository) List(ctx context.Context, filter auditlog.ListFilter) ([]*auditlog.EntryView, int64, error) {
	base := db.GetTxFromContext(ctx, r.db).Table(constants.TableAdminLogs + " AS l")
	if filter.WebsiteID != nil {
		base = base.Where("l.website_id = ?", *filter.WebsiteID)
	}
	if filter.Action != "" {
		base = base.Where("l.action LIKE ?", "%"+filter.Action+"%")
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		r.logger.Errorw("failed to count admin logs", "error", err)
		return nil, 0, fmt.Errorf("failed to count admin logs: %w", err)
	}

	query := base.Select("l.*, w.domain AS website_domain, w.title AS website_title, u.name AS user_name, u.email AS user_email").
		Joins("LEFT JOIN " + constants.TableWebsites + " AS w ON w.id = l.website_id").
		Joins("LEFT JOIN " + constants.TableStaffUsers + " AS u ON u.id = l.user_id").
		Order("l.created_at DESC").Order("l.id DESC")
	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var rows []*models.AdminLogRow
	if err := query.Scan(&rows).Error; err != nil {
		r.logger.Errorw("failed to list admin logs", "error", err)
		return nil, 0, fmt.Errorf("failed to list admin logs: %w", err)
	}

	views := make([]*auditlog.EntryView, 0, len(rows))
	for _, row := range rows {
		views = append(views, mappers.AdminLogRowToView(row))
	}
	return views, total, nil
}
