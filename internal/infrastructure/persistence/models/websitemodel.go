package models

import (
	"time"

	"github.com/ns-ai-search/console/internal/shared/constants"
)

// WebsiteModel represents the database persistence model for websites.
// FacebookPageID is nullable; the unique index allows any number of NULLs.
type WebsiteModel struct {
	ID                      uint   `gorm:"primarykey"`
	Domain                  string `gorm:"uniqueIndex;not null;size:255"`
	Title                   string `gorm:"not null;size:100"`
	LicenseKey              string `gorm:"uniqueIndex;not null;size:64"`
	Plan                    string `gorm:"not null;default:FREE;size:20;index:idx_websites_plan"`
	Status                  string `gorm:"not null;default:ACTIVE;size:20;index:idx_websites_status"`
	CreditsTotal            int    `gorm:"not null;default:0"`
	CreditsRemaining        int    `gorm:"not null;default:0"`
	CreditsUsed             int    `gorm:"not null;default:0"`
	SubscriptionStart       *time.Time
	SubscriptionEnd         *time.Time
	NextReset               *time.Time
	LastSync                *time.Time
	MessengerEnabled        bool    `gorm:"not null;default:false"`
	FacebookPageID          *string `gorm:"uniqueIndex:uk_websites_facebook_page_id;size:64"`
	FacebookPageName        *string `gorm:"size:255"`
	FacebookPageAccessToken *string `gorm:"type:text"`
	TokenExpiresAt          *time.Time
	CreatedAt               time.Time `gorm:"index:idx_websites_created_at"`
	UpdatedAt               time.Time
}

// TableName specifies the table name for GORM
func (WebsiteModel) TableName() string {
	return constants.TableWebsites
}
