package models

import (
	"time"

	"github.com/ns-ai-search/console/internal/shared/constants"
)

// StaffUserModel represents a console operator account.
type StaffUserModel struct {
	ID           uint   `gorm:"primarykey"`
	Email        string `gorm:"uniqueIndex;not null;size:255"`
	Name         string `gorm:"not null;size:100"`
	Role         string `gorm:"not null;default:viewer;size:20"`
	PasswordHash string `gorm:"not null;size:255"`
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName specifies the table name for GORM
func (StaffUserModel) TableName() string {
	return constants.TableStaffUsers
}
