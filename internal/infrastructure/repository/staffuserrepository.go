package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/ns-ai-search/console/internal/domain/staff"
	"github.com/ns-ai-search/console/internal/infrastructure/persistence/mappers"
	"github.com/ns-ai-search/console/internal/infrastructure/persistence/models"
	apperrors "github.com/ns-ai-search/console/internal/shared/errors"
	"github.com/ns-ai-search/console/internal/shared/logger"
)

// StaffUserRepository implements staff.Repository.
type StaffUserRepository struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewStaffUserRepository(db *gorm.DB, logger logger.Interface) *StaffUserRepository {
	return &StaffUserRepository{db: db, logger: logger}
}

var _ staff.Repository = (*StaffUserRepository)(nil)

func (r *StaffUserRepository) Create(ctx context.Context, u *staff.User) error {
	model := mappers.StaffUserToModel(u)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return staff.ErrEmailTaken
		}
		r.logger.Errorw("failed to create staff user", "error", err)
		return fmt.Errorf("failed to create staff user: %w", err)
	}
	u.SetID(model.ID)
	return nil
}

func (r *StaffUserRepository) Update(ctx context.Context, u *staff.User) error {
	model := mappers.StaffUserToModel(u)
	err := r.db.WithContext(ctx).Model(&models.StaffUserModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"name":          model.Name,
			"role":          model.Role,
			"password_hash": model.PasswordHash,
			"last_login_at": model.LastLoginAt,
			"updated_at":    model.UpdatedAt,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update staff user: %w", err)
	}
	return nil
}

func (r *StaffUserRepository) DeleteByEmail(ctx context.Context, email string) error {
	result := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Delete(&models.StaffUserModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete staff user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return staff.ErrUserNotFound
	}
	return nil
}

func (r *StaffUserRepository) GetByID(ctx context.Context, id uint) (*staff.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *StaffUserRepository) GetByEmail(ctx context.Context, email string) (*staff.User, error) {
	return r.first(ctx, "email = ?", strings.ToLower(strings.TrimSpace(email)))
}

func (r *StaffUserRepository) first(ctx context.Context, query string, args ...interface{}) (*staff.User, error) {
	var model models.StaffUserModel
	if err := r.db.WithContext(ctx).Where(query, args...).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get staff user: %w", err)
	}
	return mappers.StaffUserToEntity(&model), nil
}
