package mappers

import (
	"github.com/ns-ai-search/console/internal/domain/staff"
	"github.com/ns-ai-search/console/internal/infrastructure/persistence/models"
)

func StaffUserToEntity(m *models.StaffUserModel) *staff.User {
	if m == nil {
		return nil
	}
	return staff.ReconstructUser(m.ID, m.Email, m.Name, staff.Role(m.Role), m.PasswordHash, m.LastLoginAt, m.CreatedAt, m.UpdatedAt)
}

func StaffUserToModel(u *staff.User) *models.StaffUserModel {
	return &models.StaffUserModel{
		ID:           u.ID(),
		Email:        u.Email(),
		Name:         u.Name(),
		Role:         string(u.Role()),
		PasswordHash: u.PasswordHash(),
		LastLoginAt:  u.LastLoginAt(),
		CreatedAt:    u.CreatedAt(),
		UpdatedAt:    u.UpdatedAt(),
	}
}
