package website

import (
	"context"
	"time"
)

// Repository defines persistence operations for websites.
// Lookups return (nil, nil) when no row matches.
type Repository interface {
	Create(ctx context.Context, w *Website) error
	Update(ctx context.Context, w *Website) error
	// Delete removes the website together with its usage and admin logs.
	Delete(ctx context.Context, id uint) error

	GetByID(ctx context.Context, id uint) (*Website, error)
	// GetByIDForUpdate locks the row until the surrounding transaction ends.
	// Read-modify-write callers use it so Update never writes a stale copy.
	GetByIDForUpdate(ctx context.Context, id uint) (*Website, error)
	GetByLicenseKey(ctx context.Context, licenseKey string) (*Website, error)
	// GetByCredentials matches both license key and domain.
	GetByCredentials(ctx context.Context, licenseKey, domain string) (*Website, error)
	GetByPageID(ctx context.Context, pageID string) (*Website, error)
	ExistsByDomain(ctx context.Context, domain string) (bool, error)

	List(ctx context.Context, filter ListFilter) ([]*Website, int64, error)

	// BindMessenger writes the binding for websiteID. It returns
	// ErrPageAlreadyConnected when another website holds the page, checked
	// under a row lock and backed by a unique index.
	BindMessenger(ctx context.Context, websiteID uint, b MessengerBinding) error
	// ClearMessenger nulls every Messenger field of websiteID.
	ClearMessenger(ctx context.Context, websiteID uint) error
	// UpdateLastSync stamps last_sync only.
	UpdateLastSync(ctx context.Context, websiteID uint, at time.Time) error
	// UpdatePageName backfills the cached page name only.
	UpdatePageName(ctx context.Context, websiteID uint, name string) error

	Stats(ctx context.Context) (*Stats, error)
}

// ListFilter represents filtering and pagination options for website list
type ListFilter struct {
	Page     int
	PageSize int
	Status   string
	Plan     string
	// Search matches domain or title.
	Search   string
}

// Stats aggregates the websites table for the dashboard.
type Stats struct {
	Total            int64
	Active           int64
	Inactive         int64
	Suspended        int64
	CreditsTotal     int64
	CreditsUsed      int64
	CreditsRemaining int64
	ByPlan           map[Plan]int64
}
