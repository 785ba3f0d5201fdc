package dto

import (
	"time"

	"github.com/ns-ai-search/console/internal/domain/auditlog"
	"github.com/ns-ai-search/console/internal/domain/usagelog"
	"github.com/ns-ai-search/console/internal/domain/website"
)

// CreateWebsiteRequest represents a request to register a new website
type CreateWebsiteRequest struct {
	Domain            string     `json:"domain" binding:"required,website_domain"`
	Title             string     `json:"title" binding:"required,min=2,max=100"`
	Plan              string     `json:"plan" binding:"required,oneof=FREE BASIC PRO ENTERPRISE"`
	CreditsTotal      *int       `json:"credits_total" binding:"omitempty,min=0,max=1000000"`
	SubscriptionStart *time.Time `json:"subscription_start,omitempty"`
	SubscriptionEnd   *time.Time `json:"subscription_end,omitempty"`
}

// UpdateWebsiteRequest represents a partial update of a website
type UpdateWebsiteRequest struct {
	Title  *string `json:"title,omitempty" binding:"omitempty,min=2,max=100"`
	Plan   *string `json:"plan,omitempty" binding:"omitempty,oneof=FREE BASIC PRO ENTERPRISE"`
	Status *string `json:"status,omitempty" binding:"omitempty,oneof=ACTIVE INACTIVE SUSPENDED"`
}

// Credit operations
const (
	CreditOperationAdd    = "add"
	CreditOperationDeduct = "deduct"
)

// AdjustCreditsRequest adds or deducts credits
type AdjustCreditsRequest struct {
	Amount    int    `json:"amount" binding:"required,min=1,max=1000000"`
	Operation string `json:"operation" binding:"required,oneof=add deduct"`
	Reason    string `json:"reason,omitempty" binding:"max=500"`
}

// ResetCreditsRequest restores the full allowance
type ResetCreditsRequest struct {
	Reason string `json:"reason,omitempty" binding:"max=500"`
}

// RenewSubscriptionRequest starts a new subscription period
type RenewSubscriptionRequest struct {
	SubscriptionStart time.Time `json:"subscription_start" binding:"required"`
	SubscriptionEnd   time.Time `json:"subscription_end" binding:"required"`
	CreditsTotal      int       `json:"credits_total" binding:"min=0,max=1000000"`
	Plan              string    `json:"plan" binding:"required,oneof=FREE BASIC PRO ENTERPRISE"`
}

// ListWebsitesRequest represents filtering options for the website list
type ListWebsitesRequest struct {
	Status   string `form:"status" binding:"omitempty,oneof=ACTIVE INACTIVE SUSPENDED"`
	Plan     string `form:"plan" binding:"omitempty,oneof=FREE BASIC PRO ENTERPRISE"`
	Search   string `form:"search" binding:"max=255"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// WebsiteResponse represents a website in API responses
type WebsiteResponse struct {
	ID                uint       `json:"id"`
	Domain            string     `json:"domain"`
	Title             string     `json:"title"`
	LicenseKey        string     `json:"license_key"`
	Plan              string     `json:"plan"`
	Status            string     `json:"status"`
	CreditsTotal      int        `json:"credits_total"`
	CreditsRemaining  int        `json:"credits_remaining"`
	CreditsUsed       int        `json:"credits_used"`
	SubscriptionStart *time.Time `json:"subscription_start"`
	SubscriptionEnd   *time.Time `json:"subscription_end"`
	NextReset         *time.Time `json:"next_reset"`
	LastSync          *time.Time `json:"last_sync"`
	Messenger         Messenger  `json:"messenger"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// Messenger summarizes the Facebook binding. The page token is never
// exposed.
type Messenger struct {
	Enabled        bool       `json:"enabled"`
	PageID         string     `json:"page_id,omitempty"`
	PageName       string     `json:"page_name,omitempty"`
	TokenExpiresAt *time.Time `json:"token_expires_at,omitempty"`
}

// WebsiteDetailResponse is a website with its most recent activity
type WebsiteDetailResponse struct {
	WebsiteResponse
	UsageLogs []*usagelog.Entry     `json:"usage_logs"`
	AdminLogs []*auditlog.EntryView `json:"admin_logs"`
}

// ListWebsitesResponse represents a paginated list of websites
type ListWebsitesResponse struct {
	Items      []WebsiteResponse `json:"items"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}

// RegenerateLicenseKeyResponse carries the new key, shown once
type RegenerateLicenseKeyResponse struct {
	LicenseKey string `json:"license_key"`
}

// ToWebsiteResponse converts a domain website to its API shape
func ToWebsiteResponse(w *website.Website) WebsiteResponse {
	resp := WebsiteResponse{
		ID:                w.ID(),
		Domain:            w.Domain(),
		Title:             w.Title(),
		LicenseKey:        w.LicenseKey(),
		Plan:              w.Plan().String(),
		Status:            w.Status().String(),
		CreditsTotal:      w.CreditsTotal(),
		CreditsRemaining:  w.CreditsRemaining(),
		CreditsUsed:       w.CreditsUsed(),
		SubscriptionStart: w.SubscriptionStart(),
		SubscriptionEnd:   w.SubscriptionEnd(),
		NextReset:         w.NextReset(),
		LastSync:          w.LastSync(),
		CreatedAt:         w.CreatedAt(),
		UpdatedAt:         w.UpdatedAt(),
	}
	resp.Messenger.Enabled = w.MessengerConnected()
	if b := w.Messenger(); b != nil {
		resp.Messenger.PageID = b.PageID
		resp.Messenger.PageName = b.PageName
		if !b.TokenExpiresAt.IsZero() {
			exp := b.TokenExpiresAt
			resp.Messenger.TokenExpiresAt = &exp
		}
	}
	return resp
}

// ToWebsiteResponses converts a slice of websites
func ToWebsiteResponses(ws []*website.Website) []WebsiteResponse {
	out := make([]WebsiteResponse, 0, len(ws))
	for _, w := range ws {
		out = append(out, ToWebsiteResponse(w))
	}
	return out
}
