package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/ns-ai-search/console/internal/shared/constants"
)

// AdminLogModel represents one audit row. OldValue and NewValue are JSON
// objects; either may be NULL.
type AdminLogModel struct {
	ID        uint           `gorm:"primarykey"`
	WebsiteID *uint          `gorm:"index:idx_admin_logs_website_id"`
	UserID    *uint          `gorm:"index:idx_admin_logs_user_id"`
	Action    string         `gorm:"not null;size:64;index:idx_admin_logs_action"`
	OldValue  datatypes.JSON `gorm:"type:json"`
	NewValue  datatypes.JSON `gorm:"type:json"`
	Reason    string         `gorm:"size:500"`
	CreatedAt time.Time      `gorm:"index:idx_admin_logs_created_at"`
}

// TableName specifies the table name for GORM
func (AdminLogModel) TableName() string {
	return constants.TableAdminLogs
}

// AdminLogRow is the joined read shape used for listing.
type AdminLogRow struct {
	AdminLogModel
	WebsiteDomain *string
	WebsiteTitle  *string
	UserName      *string
	UserEmail     *string
}
