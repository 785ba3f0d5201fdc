package usecases

import (
	"context"
	"time"

	"github.com/ns-ai-search/console/internal/domain/auditlog"
	"github.com/ns-ai-search/console/internal/domain/website"
	"github.com/ns-ai-search/console/internal/infrastructure/credits"
	"github.com/ns-ai-search/console/internal/infrastructure/email"
	"github.com/ns-ai-search/console/internal/infrastructure/facebook"
)

// WebsiteStore is the part of the website repository the connector uses.
type WebsiteStore interface {
	GetByLicenseKey(ctx context.Context, licenseKey string) (*website.Website, error)
	GetByCredentials(ctx context.Context, licenseKey, domain string) (*website.Website, error)
	GetByPageID(ctx context.Context, pageID string) (*website.Website, error)
	BindMessenger(ctx context.Context, websiteID uint, b website.MessengerBinding) error
	ClearMessenger(ctx context.Context, websiteID uint) error
	UpdatePageName(ctx context.Context, websiteID uint, name string) error
}

// GraphClient is the Facebook Graph API surface used by the connector.
type GraphClient interface {
	AuthURL(state string, scopes []string) string
	ExchangeCode(ctx context.Context, code string) (string, error)
	ListPages(ctx context.Context, userToken string) ([]facebook.Page, error)
	ExchangeLongLivedToken(ctx context.Context, token string) (*facebook.LongLivedToken, error)
	SubscribeApp(ctx context.Context, pageID, pageToken string) error
	UnsubscribeApp(ctx context.Context, pageID, pageToken string) error
	PageName(ctx context.Context, pageID, pageToken string) (string, error)
}

type CreditsBackend interface {
	SetCredits(ctx context.Context, a credits.Allowance) error
	UpdatePageCache(ctx context.Context, pageID, domain string) error
	InvalidatePageCache(ctx context.Context, pageID string) error
	RefreshSite(ctx context.Context, domain string) error
}

// OpsMailer must return when ctx is done.
type OpsMailer interface {
	MessengerConnected(ctx context.Context, ev email.MessengerEvent) error
	MessengerDisconnected(ctx context.Context, ev email.MessengerEvent) error
}

type AuditRecorder interface {
	Create(ctx context.Context, e *auditlog.Entry) error
}

// PageLookupCache remembers page ids whose name lookup recently failed.
type PageLookupCache interface {
	RecentlyFailed(pageID string) bool
	MarkFailed(pageID string)
}

// ConnectMetrics records connector outcomes. *metrics.Metrics satisfies it
// and is nil-safe.
type ConnectMetrics interface {
	ConnectOutcome(step, outcome string)
	SideEffectFailed(effect string)
}

// StateStore makes issued state single use. Nil disables the check.
type StateStore interface {
	Save(ctx context.Context, state string, ttl time.Duration) error
	Consume(ctx context.Context, state string) (bool, error)
}
