package models

import (
	"time"

	"github.com/ns-ai-search/console/internal/shared/constants"
)

// UsageLogModel is written by the credits pipeline and read by the console.
type UsageLogModel struct {
	ID               uint      `gorm:"primarykey"`
	WebsiteID        uint      `gorm:"not null;index:idx_usage_logs_website_ts,priority:1"`
	Operation        string    `gorm:"not null;size:32"`
	Cost             int       `gorm:"not null;default:1"`
	CreditsRemaining int       `gorm:"not null;default:0"`
	Timestamp        time.Time `gorm:"not null;index:idx_usage_logs_website_ts,priority:2;index:idx_usage_logs_timestamp"`
}

// TableName specifies the table name for GORM
func (UsageLogModel) TableName() string {
	return constants.TableUsageLogs
}

// UsageLogRow is the joined read shape used for listing.
type UsageLogRow struct {
	UsageLogModel
	WebsiteDomain *string
	WebsiteTitle  *string
}
