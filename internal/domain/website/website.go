package website

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ns-ai-search/console/internal/shared/biztime"
)

const (
	MaxCredits     = 1_000_000
	minTitleLength = 2
	maxTitleLength = 100
)

// Website is a registered customer site: the unit of licensing, billing and
// Messenger binding.
type Website struct {
	id         uint
	domain     string
	title      string
	licenseKey string
	plan       Plan
	status     Status

	creditsTotal     int
	creditsRemaining int
	creditsUsed      int

	subscriptionStart *time.Time
	subscriptionEnd   *time.Time
	nextReset         *time.Time
	lastSync          *time.Time

	messenger        *MessengerBinding
	// messengerEnabled is stored separately so rows written by older
	// versions with a partial binding are still reported as disconnected.
	messengerEnabled bool

	createdAt time.Time
	updatedAt time.Time
}

// NewWebsite registers a site with a fresh license key and a full credit
// allowance. The first monthly reset is the start of next month.
func NewWebsite(domain, title string, plan Plan, creditsTotal int) (*Website, error) {
	domain = NormalizeDomain(domain)
	if domain == "" {
		return nil, ErrInvalidDomain
	}
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if !plan.IsValid() {
		return nil, ErrInvalidPlan
	}
	if err := validateCredits(creditsTotal); err != nil {
		return nil, err
	}

	key, err := GenerateLicenseKey()
	if err != nil {
		return nil, err
	}

	now := biztime.NowUTC()
	nextReset := biztime.StartOfNextMonthUTC(now)
	return &Website{
		domain:           domain,
		title:            strings.TrimSpace(title),
		licenseKey:       key,
		plan:             plan,
		status:           StatusActive,
		creditsTotal:     creditsTotal,
		creditsRemaining: creditsTotal,
		creditsUsed:      0,
		nextReset:        &nextReset,
		createdAt:        now,
		updatedAt:        now,
	}, nil
}

// Snapshot carries every persisted field; used by the persistence layer only.
type Snapshot struct {
	ID                      uint
	Domain                  string
	Title                   string
	LicenseKey              string
	Plan                    Plan
	Status                  Status
	CreditsTotal            int
	CreditsRemaining        int
	CreditsUsed             int
	SubscriptionStart       *time.Time
	SubscriptionEnd         *time.Time
	NextReset               *time.Time
	LastSync                *time.Time
	MessengerEnabled        bool
	FacebookPageID          *string
	FacebookPageName        *string
	FacebookPageAccessToken *string
	TokenExpiresAt          *time.Time
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// ReconstructWebsite rebuilds a Website from storage without validation.
func ReconstructWebsite(s Snapshot) *Website {
	w := &Website{
		id:                s.ID,
		domain:            s.Domain,
		title:             s.Title,
		licenseKey:        s.LicenseKey,
		plan:              s.Plan,
		status:            s.Status,
		creditsTotal:      s.CreditsTotal,
		creditsRemaining:  s.CreditsRemaining,
		creditsUsed:       s.CreditsUsed,
		subscriptionStart: s.SubscriptionStart,
		subscriptionEnd:   s.SubscriptionEnd,
		nextReset:         s.NextReset,
		lastSync:          s.LastSync,
		messengerEnabled:  s.MessengerEnabled,
		createdAt:         s.CreatedAt,
		updatedAt:         s.UpdatedAt,
	}
	if s.FacebookPageID != nil || s.FacebookPageAccessToken != nil {
		b := &MessengerBinding{}
		if s.FacebookPageID != nil {
			b.PageID = *s.FacebookPageID
		}
		if s.FacebookPageName != nil {
			b.PageName = *s.FacebookPageName
		}
		if s.FacebookPageAccessToken != nil {
			b.PageAccessToken = *s.FacebookPageAccessToken
		}
		if s.TokenExpiresAt != nil {
			b.TokenExpiresAt = *s.TokenExpiresAt
		}
		w.messenger = b
	}
	return w
}

// Snapshot exports the persisted fields.
func (w *Website) Snapshot() Snapshot {
	s := Snapshot{
		ID:                w.id,
		Domain:            w.domain,
		Title:             w.title,
		LicenseKey:        w.licenseKey,
		Plan:              w.plan,
		Status:            w.status,
		CreditsTotal:      w.creditsTotal,
		CreditsRemaining:  w.creditsRemaining,
		CreditsUsed:       w.creditsUsed,
		SubscriptionStart: w.subscriptionStart,
		SubscriptionEnd:   w.subscriptionEnd,
		NextReset:         w.nextReset,
		LastSync:          w.lastSync,
		MessengerEnabled:  w.messengerEnabled,
		CreatedAt:         w.createdAt,
		UpdatedAt:         w.updatedAt,
	}
	if b := w.messenger; b != nil {
		s.FacebookPageID = optionalString(b.PageID)
		s.FacebookPageName = optionalString(b.PageName)
		s.FacebookPageAccessToken = optionalString(b.PageAccessToken)
		if !b.TokenExpiresAt.IsZero() {
			t := b.TokenExpiresAt
			s.TokenExpiresAt = &t
		}
	}
	return s
}

func (w *Website) ID() uint                      { return w.id }
func (w *Website) Domain() string                { return w.domain }
func (w *Website) Title() string                 { return w.title }
func (w *Website) LicenseKey() string            { return w.licenseKey }
func (w *Website) Plan() Plan                    { return w.plan }
func (w *Website) Status() Status                { return w.status }
func (w *Website) CreditsTotal() int             { return w.creditsTotal }
func (w *Website) CreditsRemaining() int         { return w.creditsRemaining }
func (w *Website) CreditsUsed() int              { return w.creditsUsed }
func (w *Website) SubscriptionStart() *time.Time { return w.subscriptionStart }
func (w *Website) SubscriptionEnd() *time.Time   { return w.subscriptionEnd }
func (w *Website) NextReset() *time.Time         { return w.nextReset }
func (w *Website) LastSync() *time.Time          { return w.lastSync }
func (w *Website) CreatedAt() time.Time          { return w.createdAt }
func (w *Website) UpdatedAt() time.Time          { return w.updatedAt }

// SetID sets the website ID (only for persistence layer use)
func (w *Website) SetID(id uint) {
	w.id = id
}

// Matches reports whether the pair presented by a plugin identifies this site.
func (w *Website) Matches(licenseKey, domain string) bool {
	return w.licenseKey == licenseKey && w.domain == NormalizeDomain(domain)
}

// Changes lists the fields modified by Update as old/new maps for auditing.
type Changes struct {
	Old map[string]any
	New map[string]any
}

func (c Changes) Empty() bool { return len(c.New) == 0 }

// Update applies the non-nil fields.
func (w *Website) Update(title *string, plan *Plan, status *Status) (Changes, error) {
	changes := Changes{Old: map[string]any{}, New: map[string]any{}}

	if title != nil && strings.TrimSpace(*title) != w.title {
		if err := validateTitle(*title); err != nil {
			return Changes{}, err
		}
		changes.Old["title"], changes.New["title"] = w.title, strings.TrimSpace(*title)
	}
	if plan != nil && *plan != w.plan {
		if !plan.IsValid() {
			return Changes{}, ErrInvalidPlan
		}
		changes.Old["plan"], changes.New["plan"] = w.plan, *plan
	}
	if status != nil && *status != w.status {
		if !status.IsValid() {
			return Changes{}, ErrInvalidStatus
		}
		changes.Old["status"], changes.New["status"] = w.status, *status
	}

	if v, ok := changes.New["title"]; ok {
		w.title = v.(string)
	}
	if v, ok := changes.New["plan"]; ok {
		w.plan = v.(Plan)
	}
	if v, ok := changes.New["status"]; ok {
		w.status = v.(Status)
	}
	if !changes.Empty() {
		w.touch()
	}
	return changes, nil
}

// AddCredits grants extra credits; the allowance grows by the same amount.
func (w *Website) AddCredits(amount int) error {
	if amount <= 0 {
		return ErrInvalidCreditAmount
	}
	if w.creditsTotal+amount > MaxCredits {
		return ErrInvalidCredits
	}
	w.creditsRemaining += amount
	w.creditsTotal += amount
	w.markSynced()
	return nil
}

// DeductCredits removes credits, never going below zero.
func (w *Website) DeductCredits(amount int) error {
	if amount <= 0 {
		return ErrInvalidCreditAmount
	}
	w.creditsRemaining -= amount
	if w.creditsRemaining < 0 {
		w.creditsRemaining = 0
	}
	w.markSynced()
	return nil
}

// ResetCredits restores the full allowance and schedules the next reset.
func (w *Website) ResetCredits() {
	now := biztime.NowUTC()
	next := biztime.StartOfNextMonthUTC(now)
	w.creditsRemaining = w.creditsTotal
	w.creditsUsed = 0
	w.nextReset = &next
	w.markSynced()
}

// MarkSynced records a successful push to the credits backend.
func (w *Website) MarkSynced() {
	w.markSynced()
}

// Renew starts a new subscription period with a fresh allowance and
// reactivates the site.
func (w *Website) Renew(start, end time.Time, plan Plan, creditsTotal int) error {
	if !end.After(start) {
		return ErrInvalidSubscriptionPeriod
	}
	if !plan.IsValid() {
		return ErrInvalidPlan
	}
	if err := validateCredits(creditsTotal); err != nil {
		return err
	}
	start, end = start.UTC(), end.UTC()
	w.subscriptionStart = &start
	w.subscriptionEnd = &end
	w.plan = plan
	w.creditsTotal = creditsTotal
	w.creditsRemaining = creditsTotal
	w.creditsUsed = 0
	w.status = StatusActive
	w.touch()
	return nil
}

// SetSubscriptionPeriod records an optional billing window. Either bound may
// be nil.
func (w *Website) SetSubscriptionPeriod(start, end *time.Time) error {
	if start != nil && end != nil && !end.After(*start) {
		return ErrInvalidSubscriptionPeriod
	}
	w.subscriptionStart = utcPtr(start)
	w.subscriptionEnd = utcPtr(end)
	w.touch()
	return nil
}

// RegenerateLicenseKey replaces the key; the old key stops working at once.
func (w *Website) RegenerateLicenseKey() (string, error) {
	key, err := GenerateLicenseKey()
	if err != nil {
		return "", err
	}
	w.licenseKey = key
	w.touch()
	return key, nil
}

func (w *Website) markSynced() {
	now := biztime.NowUTC()
	w.lastSync = &now
	w.updatedAt = now
}

func (w *Website) touch() {
	w.updatedAt = biztime.NowUTC()
}

// GenerateLicenseKey returns 32 random bytes as 64 hex characters.
func GenerateLicenseKey() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate license key: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// NormalizeDomain lower-cases and trims a hostname.
func NormalizeDomain(domain string) string {
	return strings.ToLower(strings.TrimSpace(domain))
}

func validateTitle(title string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(title))
	if n < minTitleLength || n > maxTitleLength {
		return ErrInvalidTitle
	}
	return nil
}

func validateCredits(credits int) error {
	if credits < 0 || credits > MaxCredits {
		return ErrInvalidCredits
	}
	return nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
