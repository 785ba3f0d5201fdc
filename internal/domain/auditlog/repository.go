package auditlog

import (
	"context"
	"time"
)

// Repository stores audit entries.
type Repository interface {
	Create(ctx context.Context, e *Entry) error
	List(ctx context.Context, filter ListFilter) ([]*EntryView, int64, error)
}

// ListFilter represents filtering and pagination options for audit entries.
type ListFilter struct {
	Page      int
	PageSize  int
	WebsiteID *uint
	// Action matches as a substring.
	Action    string
}

// EntryView is an entry joined with the labels an operator needs to read it.
type EntryView struct {
	ID            uint           `json:"id"`
	WebsiteID     *uint          `json:"website_id"`
	WebsiteDomain string         `json:"website_domain,omitempty"`
	WebsiteTitle  string         `json:"website_title,omitempty"`
	UserID        *uint          `json:"user_id"`
	UserName      string         `json:"user_name,omitempty"`
	UserEmail     string         `json:"user_email,omitempty"`
	Action        string         `json:"action"`
	OldValue      map[string]any `json:"old_value,omitempty"`
	NewValue      map[string]any `json:"new_value,omitempty"`
	Reason        string         `json:"reason,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}
