// Package usagelog exposes the per-request credit consumption records
// reported for each website.
package usagelog

import (
	"context"
	"time"
)

const (
	OperationContent = "content"
	OperationQuery   = "query"
)

// Entry is one credit-consuming operation. Entries are written by the
// credits pipeline; the console only reads them.
type Entry struct {
	ID               uint      `json:"id"`
	WebsiteID        uint      `json:"website_id"`
	WebsiteDomain    string    `json:"website_domain,omitempty"`
	WebsiteTitle     string    `json:"website_title,omitempty"`
	Operation        string    `json:"operation"`
	Cost             int       `json:"cost"`
	CreditsRemaining int       `json:"credits_remaining"`
	Timestamp        time.Time `json:"timestamp"`
}

// DailyCount is the number of operations recorded on one business day.
type DailyCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type Repository interface {
	List(ctx context.Context, filter ListFilter) ([]*Entry, int64, error)
	// CountByDay returns one bucket per day in [since, now], oldest first,
	// including empty days.
	CountByDay(ctx context.Context, since time.Time) ([]DailyCount, error)
}

// ListFilter represents filtering and pagination options for usage logs.
type ListFilter struct {
	Page      int
	PageSize  int
	WebsiteID *uint
	Operation string
}
