package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ns-ai-search/console/internal/domain/website"
	"github.com/ns-ai-search/console/internal/infrastructure/persistence/mappers"
	"github.com/ns-ai-search/console/internal/infrastructure/persistence/models"
	"github.com/ns-ai-search/console/internal/shared/db"
	apperrors "github.com/ns-ai-search/console/internal/shared/errors"
	"github.com/ns-ai-search/console/internal/shared/logger"
)

// WebsiteRepository implements website.Repository with GORM.
type WebsiteRepository struct {
	db     *gorm.DB
	mapper mappers.WebsiteMapper
	logger logger.Interface
}

// NewWebsiteRepository creates a new website repository
func NewWebsiteRepository(db *gorm.DB, logger logger.Interface) *WebsiteRepository {
	return &WebsiteRepository{
		db:     db,
		mapper: mappers.NewWebsiteMapper(),
		logger: logger,
	}
}

var _ website.Repository = (*WebsiteRepository)(nil)

// Create inserts a website and sets its ID.
func (r *WebsiteRepository) Create(ctx context.Context, w *website.Website) error {
	model := r.mapper.ToModel(w)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return website.ErrDomainTaken
		}
		r.logger.Errorw("failed to create website", "domain", w.Domain(), "error", err)
		return fmt.Errorf("failed to create website: %w", err)
	}
	w.SetID(model.ID)
	return nil
}

// Update writes every column except the Messenger binding, which only
// BindMessenger and ClearMessenger may change.
func (r *WebsiteRepository) Update(ctx context.Context, w *website.Website) error {
	model := r.mapper.ToModel(w)
	result := db.GetTxFromContext(ctx, r.db).Model(&models.WebsiteModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"title":              model.Title,
			"license_key":        model.LicenseKey,
			"plan":               model.Plan,
			"status":             model.Status,
			"credits_total":      model.CreditsTotal,
			"credits_remaining":  model.CreditsRemaining,
			"credits_used":       model.CreditsUsed,
			"subscription_start": model.SubscriptionStart,
			"subscription_end":   model.SubscriptionEnd,
			"next_reset":         model.NextReset,
			"last_sync":          model.LastSync,
			"updated_at":         model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update website", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update website: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return website.ErrWebsiteNotFound
	}
	return nil
}

// Delete removes the website and its logs in one transaction.
func (r *WebsiteRepository) Delete(ctx context.Context, id uint) error {
	return db.GetTxFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("website_id = ?", id).Delete(&models.UsageLogModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete usage logs: %w", err)
		}
		if err := tx.Where("website_id = ?", id).Delete(&models.AdminLogModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete admin logs: %w", err)
		}
		result := tx.Delete(&models.WebsiteModel{}, id)
		if result.Error != nil {
			r.logger.Errorw("failed to delete website", "id", id, "error", result.Error)
			return fmt.Errorf("failed to delete website: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return website.ErrWebsiteNotFound
		}
		return nil
	})
}

func (r *WebsiteRepository) GetByID(ctx context.Context, id uint) (*website.Website, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *WebsiteRepository) GetByIDForUpdate(ctx context.Context, id uint) (*website.Website, error) {
	tx := db.GetTxFromContext(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"})
	return r.firstIn(tx, "id = ?", id)
}

func (r *WebsiteRepository) GetByLicenseKey(ctx context.Context, licenseKey string) (*website.Website, error) {
	return r.first(ctx, "license_key = ?", licenseKey)
}

func (r *WebsiteRepository) GetByCredentials(ctx context.Context, licenseKey, domain string) (*website.Website, error) {
	return r.first(ctx, "license_key = ? AND domain = ?", licenseKey, website.NormalizeDomain(domain))
}

func (r *WebsiteRepository) GetByPageID(ctx context.Context, pageID string) (*website.Website, error) {
	return r.first(ctx, "facebook_page_id = ?", pageID)
}

func (r *WebsiteRepository) first(ctx context.Context, query string, args ...interface{}) (*website.Website, error) {
	return r.firstIn(db.GetTxFromContext(ctx, r.db), query, args...)
}

func (r *WebsiteRepository) firstIn(tx *gorm.DB, query string, args ...interface{}) (*website.Website, error) {
	var model models.WebsiteModel
	if err := tx.Where(query, args...).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get website", "query", query, "error", err)
		return nil, fmt.Errorf("failed to get website: %w", err)
	}
	entity, err := r.mapper.ToEntity(&model)
	if err != nil {
		r.logger.Errorw("failed to map website model to entity", "id", model.ID, "error", err)
		return nil, fmt.Errorf("failed to map website: %w", err)
	}
	return entity, nil
}

func (r *WebsiteRepository) ExistsByDomain(ctx context.Context, domain string) (bool, error) {
	var count int64
	err := db.GetTxFromContext(ctx, r.db).Model(&models.WebsiteModel{}).
		Where("domain = ?", website.NormalizeDomain(domain)).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check domain: %w", err)
	}
	return count > 0, nil
}

// List retrieves a paginated list of websites, newest first.
func (r *WebsiteRepository) List(ctx context.Context, filter website.ListFilter) ([]*website.Website, int64, error) {
	var list []*models.WebsiteModel
	var total int64

	query := db.GetTxFromContext(ctx, r.db).Model(&models.WebsiteModel{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Plan != "" {
		query = query.Where("plan = ?", filter.Plan)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("domain LIKE ? OR title LIKE ?", like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		r.logger.Errorw("failed to count websites", "error", err)
		return nil, 0, fmt.Errorf("failed to count websites: %w", err)
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	if err := query.Order("created_at DESC").Order("id DESC").Find(&list).Error; err != nil {
		r.logger.Errorw("failed to list websites", "error", err)
		return nil, 0, fmt.Errorf("failed to list websites: %w", err)
	}

	entities, err := r.mapper.ToEntities(list)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to map websites: %w", err)
	}
	return entities, total, nil
}

// BindMessenger stores a Page binding. The lookup of any other holder of the
// page runs under FOR UPDATE in the same transaction as the write, and the
// unique index on facebook_page_id catches whatever slips past the lock.
func (r *WebsiteRepository) BindMessenger(ctx context.Context, websiteID uint, b website.MessengerBinding) error {
	if err := b.Validate(); err != nil {
		return err
	}

	err := db.GetTxFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		var holders []models.WebsiteModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where("facebook_page_id = ? AND id <> ?", b.PageID, websiteID).
			Find(&holders).Error; err != nil {
			return fmt.Errorf("failed to check page binding: %w", err)
		}
		if len(holders) > 0 {
			return website.ErrPageAlreadyConnected
		}

		var pageName *string
		if b.PageName != "" {
			pageName = &b.PageName
		}
		expiresAt := b.TokenExpiresAt.UTC()
		result := tx.Model(&models.WebsiteModel{}).
			Where("id = ?", websiteID).
			Updates(map[string]interface{}{
				"messenger_enabled":          true,
				"facebook_page_id":           b.PageID,
				"facebook_page_name":         pageName,
				"facebook_page_access_token": b.PageAccessToken,
				"token_expires_at":           &expiresAt,
				"updated_at":                 tx.NowFunc(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return website.ErrWebsiteNotFound
		}
		return nil
	})

	switch {
	case err == nil:
		return nil
	case errors.Is(err, website.ErrPageAlreadyConnected), errors.Is(err, website.ErrWebsiteNotFound):
		return err
	case apperrors.IsDuplicateError(err):
		return website.ErrPageAlreadyConnected
	default:
		r.logger.Errorw("failed to bind messenger", "website_id", websiteID, "error", err)
		return fmt.Errorf("failed to bind messenger: %w", err)
	}
}

// ClearMessenger nulls every Messenger column.
func (r *WebsiteRepository) ClearMessenger(ctx context.Context, websiteID uint) error {
	result := db.GetTxFromContext(ctx, r.db).Model(&models.WebsiteModel{}).
		Where("id = ?", websiteID).
		Updates(map[string]interface{}{
			"messenger_enabled":          false,
			"facebook_page_id":           nil,
			"facebook_page_name":         nil,
			"facebook_page_access_token": nil,
			"token_expires_at":           nil,
			"updated_at":                 r.db.NowFunc(),
		})
	if result.Error != nil {
		r.logger.Errorw("failed to clear messenger", "website_id", websiteID, "error", result.Error)
		return fmt.Errorf("failed to clear messenger: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return website.ErrWebsiteNotFound
	}
	return nil
}

func (r *WebsiteRepository) UpdatePageName(ctx context.Context, websiteID uint, name string) error {
	err := db.GetTxFromContext(ctx, r.db).Model(&models.WebsiteModel{}).
		Where("id = ? AND facebook_page_id IS NOT NULL", websiteID).
		Update("facebook_page_name", name).Error
	if err != nil {
		return fmt.Errorf("failed to update page name: %w", err)
	}
	return nil
}

func (r *WebsiteRepository) UpdateLastSync(ctx context.Context, websiteID uint, at time.Time) error {
	result := db.GetTxFromContext(ctx, r.db).Model(&models.WebsiteModel{}).
		Where("id = ?", websiteID).
		Update("last_sync", at)
	if result.Error != nil {
		r.logger.Errorw("failed to update last sync", "id", websiteID, "error", result.Error)
		return fmt.Errorf("failed to update last sync: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return website.ErrWebsiteNotFound
	}
	return nil
}

// Stats aggregates counts and credit sums for the dashboard.
func (r *WebsiteRepository) Stats(ctx context.Context) (*website.Stats, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	stats := &website.Stats{ByPlan: make(map[website.Plan]int64)}

	var byStatus []struct {
		Status string
		Count  int64
	}
	if err := tx.Model(&models.WebsiteModel{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&byStatus).Error; err != nil {
		return nil, fmt.Errorf("failed to count websites by status: %w", err)
	}
	for _, row := range byStatus {
		stats.Total += row.Count
		switch website.Status(row.Status) {
		case website.StatusActive:
			stats.Active = row.Count
		case website.StatusInactive:
			stats.Inactive = row.Count
		case website.StatusSuspended:
			stats.Suspended = row.Count
		}
	}

	var sums struct {
		CreditsTotal     int64
		CreditsUsed      int64
		CreditsRemaining int64
	}
	if err := tx.Model(&models.WebsiteModel{}).
		Select("COALESCE(SUM(credits_total), 0) AS credits_total, " +
			"COALESCE(SUM(credits_used), 0) AS credits_used, " +
			"COALESCE(SUM(credits_remaining), 0) AS credits_remaining").
		Scan(&sums).Error; err != nil {
		return nil, fmt.Errorf("failed to sum credits: %w", err)
	}
	stats.CreditsTotal = sums.CreditsTotal
	stats.CreditsUsed = sums.CreditsUsed
	stats.CreditsRemaining = sums.CreditsRemaining

	var byPlan []struct {
		Plan  string
		Count int64
	}
	if err := tx.Model(&models.WebsiteModel{}).
		Select("plan, COUNT(*) AS count").
		Group("plan").
		Scan(&byPlan).Error; err != nil {
		return nil, fmt.Errorf("failed to count websites by plan: %w", err)
	}
	for _, row := range byPlan {
		stats.ByPlan[website.Plan(row.Plan)] = row.Count
	}

	return stats, nil
}
