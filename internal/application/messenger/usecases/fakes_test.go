package usecases

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ns-ai-search/console/internal/domain/auditlog"
	"github.com/ns-ai-search/console/internal/domain/website"
	"github.com/ns-ai-search/console/internal/infrastructure/credits"
	"github.com/ns-ai-search/console/internal/infrastructure/email"
	"github.com/ns-ai-search/console/internal/infrastructure/facebook"
	"github.com/ns-ai-search/console/internal/shared/config"
	"github.com/ns-ai-search/console/internal/shared/logger"
)

// =============================================================================
// Website store
// =============================================================================

// memoryWebsites keeps snapshots so callers never share entity pointers.
type memoryWebsites struct {
	mu     sync.Mutex
	rows   map[uint]website.Snapshot
	writes int
	err    error
}

func newMemoryWebsites() *memoryWebsites {
	return &memoryWebsites{rows: map[uint]website.Snapshot{}}
}

func (m *memoryWebsites) add(id uint, domain string, plan website.Plan, status website.Status) *website.Website {
	m.mu.Lock()
	defer m.mu.Unlock()
	key, _ := website.GenerateLicenseKey()
	s := website.Snapshot{
		ID: id, Domain: domain, Title: "Site " + domain, LicenseKey: key,
		Plan: plan, Status: status, CreditsTotal: 1000, CreditsRemaining: 800, CreditsUsed: 200,
	}
	m.rows[id] = s
	return website.ReconstructWebsite(s)
}

func (m *memoryWebsites) put(s website.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[s.ID] = s
}

func (m *memoryWebsites) get(id uint) *website.Website {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[id]
	if !ok {
		return nil
	}
	return website.ReconstructWebsite(s)
}

func (m *memoryWebsites) find(match func(*website.Website) bool) (*website.Website, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, s := range m.rows {
		w := website.ReconstructWebsite(s)
		if match(w) {
			return w, nil
		}
	}
	return nil, nil
}

func (m *memoryWebsites) GetByLicenseKey(_ context.Context, key string) (*website.Website, error) {
	return m.find(func(w *website.Website) bool { return w.LicenseKey() == key })
}

func (m *memoryWebsites) GetByCredentials(_ context.Context, key, domain string) (*website.Website, error) {
	return m.find(func(w *website.Website) bool { return w.Matches(key, domain) })
}

func (m *memoryWebsites) GetByPageID(_ context.Context, pageID string) (*website.Website, error) {
	return m.find(func(w *website.Website) bool { return w.FacebookPageID() == pageID })
}

func (m *memoryWebsites) BindMessenger(_ context.Context, id uint, b website.MessengerBinding) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[id]
	if !ok {
		return website.ErrWebsiteNotFound
	}
	for otherID, other := range m.rows {
		if otherID != id && other.FacebookPageID != nil && *other.FacebookPageID == b.PageID {
			return website.ErrPageAlreadyConnected
		}
	}
	w := website.ReconstructWebsite(s)
	if err := w.ConnectMessenger(b); err != nil {
		return err
	}
	m.rows[id] = w.Snapshot()
	m.writes++
	return nil
}

func (m *memoryWebsites) ClearMessenger(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[id]
	if !ok {
		return website.ErrWebsiteNotFound
	}
	s.MessengerEnabled = false
	s.FacebookPageID, s.FacebookPageName, s.FacebookPageAccessToken, s.TokenExpiresAt = nil, nil, nil, nil
	m.rows[id] = s
	m.writes++
	return nil
}

func (m *memoryWebsites) UpdatePageName(_ context.Context, id uint, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[id]
	if !ok {
		return website.ErrWebsiteNotFound
	}
	s.FacebookPageName = &name
	m.rows[id] = s
	m.writes++
	return nil
}

// =============================================================================
// Graph API
// =============================================================================

type fakeGraph struct {
	authState  string
	authScopes []string

	userToken   string
	exchangeErr error
	pages       []facebook.Page
	pagesErr    error
	longLived   *facebook.LongLivedToken
	longErr     error

	subscribeErr error
	subscribed   []string
	unsubscribed []string

	pageName    string
	pageNameErr error
	nameLookups int
}

func (f *fakeGraph) AuthURL(state string, scopes []string) string {
	f.authState, f.authScopes = state, scopes
	return "https://www.facebook.com/v24.0/dialog/oauth?state=" + state
}

func (f *fakeGraph) ExchangeCode(context.Context, string) (string, error) {
	return f.userToken, f.exchangeErr
}

func (f *fakeGraph) ListPages(context.Context, string) ([]facebook.Page, error) {
	return f.pages, f.pagesErr
}

func (f *fakeGraph) ExchangeLongLivedToken(context.Context, string) (*facebook.LongLivedToken, error) {
	return f.longLived, f.longErr
}

func (f *fakeGraph) SubscribeApp(_ context.Context, pageID, _ string) error {
	f.subscribed = append(f.subscribed, pageID)
	return f.subscribeErr
}

func (f *fakeGraph) UnsubscribeApp(_ context.Context, pageID, _ string) error {
	f.unsubscribed = append(f.unsubscribed, pageID)
	return nil
}

func (f *fakeGraph) PageName(context.Context, string, string) (string, error) {
	f.nameLookups++
	return f.pageName, f.pageNameErr
}

// =============================================================================
// Side effect collaborators
// =============================================================================

type fakeCredits struct {
	pushed      []credits.Allowance
	cached      map[string]string
	invalidated []string
	refreshed   []string
	err         error
}

func newFakeCredits() *fakeCredits { return &fakeCredits{cached: map[string]string{}} }

func (f *fakeCredits) SetCredits(_ context.Context, a credits.Allowance) error {
	f.pushed = append(f.pushed, a)
	return f.err
}

func (f *fakeCredits) UpdatePageCache(_ context.Context, pageID, domain string) error {
	f.cached[pageID] = domain
	return f.err
}

func (f *fakeCredits) InvalidatePageCache(_ context.Context, pageID string) error {
	f.invalidated = append(f.invalidated, pageID)
	return f.err
}

func (f *fakeCredits) RefreshSite(_ context.Context, domain string) error {
	f.refreshed = append(f.refreshed, domain)
	return f.err
}

type fakeMailer struct {
	connected    []email.MessengerEvent
	disconnected []email.MessengerEvent
}

func (f *fakeMailer) MessengerConnected(_ context.Context, ev email.MessengerEvent) error {
	f.connected = append(f.connected, ev)
	return nil
}

func (f *fakeMailer) MessengerDisconnected(_ context.Context, ev email.MessengerEvent) error {
	f.disconnected = append(f.disconnected, ev)
	return nil
}

type fakeAudit struct {
	entries []*auditlog.Entry
}

func (f *fakeAudit) Create(_ context.Context, e *auditlog.Entry) error {
	f.entries = append(f.entries, e)
	return nil
}

func (f *fakeAudit) actions() []string {
	out := make([]string, 0, len(f.entries))
	for _, e := range f.entries {
		out = append(out, e.Action())
	}
	return out
}

type fakeMetrics struct {
	outcomes []string
	failures map[string]int
}

func newFakeMetrics() *fakeMetrics { return &fakeMetrics{failures: map[string]int{}} }

func (f *fakeMetrics) ConnectOutcome(step, outcome string) {
	f.outcomes = append(f.outcomes, step+":"+outcome)
}

func (f *fakeMetrics) SideEffectFailed(effect string) { f.failures[effect]++ }

type fakeLookupCache struct {
	failed map[string]bool
}

func (f *fakeLookupCache) RecentlyFailed(pageID string) bool { return f.failed[pageID] }
func (f *fakeLookupCache) MarkFailed(pageID string)          { f.failed[pageID] = true }

// =============================================================================
// Fixture
// =============================================================================

type fixture struct {
	websites *memoryWebsites
	graph    *fakeGraph
	credits  *fakeCredits
	mailer   *fakeMailer
	audit    *fakeAudit
	metrics  *fakeMetrics
	lookups  *fakeLookupCache
	effects  *SideEffects
	states   StateStore
	fb       config.FacebookConfig
}

func newFixture() *fixture {
	f := &fixture{
		websites: newMemoryWebsites(),
		graph: &fakeGraph{
			userToken: "user-token",
			pages:     []facebook.Page{{ID: "111", Name: "First Page", AccessToken: "page-short"}},
			longLived: &facebook.LongLivedToken{AccessToken: "page-long", ExpiresIn: facebook.DefaultLongLivedTTL},
		},
		credits: newFakeCredits(),
		mailer:  &fakeMailer{},
		audit:   &fakeAudit{},
		metrics: newFakeMetrics(),
		lookups: &fakeLookupCache{failed: map[string]bool{}},
		fb: config.FacebookConfig{
			AppID:     "app-id",
			AppSecret: "app-secret",
			Scopes:    []string{"pages_messaging", "pages_manage_metadata", "business_management", "pages_show_list"},
		},
	}
	f.effects = NewSideEffects(f.graph, f.credits, f.mailer, f.audit, f.metrics, logger.NewNopLogger())
	return f
}

func (f *fixture) initiate(codec StateCodec) *InitiateConnectUseCase {
	return NewInitiateConnectUseCase(f.websites, f.graph, codec, f.states, f.fb, f.metrics, logger.NewNopLogger())
}

func (f *fixture) callback(codec StateCodec) *HandleCallbackUseCase {
	return NewHandleCallbackUseCase(f.websites, f.graph, codec, f.states, f.effects, f.metrics, logger.NewNopLogger())
}

func (f *fixture) status() *GetStatusUseCase {
	return NewGetStatusUseCase(f.websites, f.graph, f.lookups, f.metrics, logger.NewNopLogger()).
		WithAsyncRunner(func(_ logger.Interface, _ string, fn func()) { fn() })
}

func (f *fixture) disconnect() *DisconnectUseCase {
	return NewDisconnectUseCase(f.websites, f.effects, logger.NewNopLogger())
}

// connected stores a website already bound to pageID.
func (f *fixture) connected(id uint, domain, pageID, pageName string) *website.Website {
	w := f.websites.add(id, domain, website.PlanPro, website.StatusActive)
	s := w.Snapshot()
	token := "token-" + domain
	expires := time.Now().Add(30 * 24 * time.Hour).UTC().Truncate(time.Second)
	s.MessengerEnabled = true
	s.FacebookPageID = &pageID
	if pageName != "" {
		s.FacebookPageName = &pageName
	}
	s.FacebookPageAccessToken = &token
	s.TokenExpiresAt = &expires
	f.websites.put(s)
	return website.ReconstructWebsite(s)
}

var errBoom = errors.New("boom")

type fakeStateStore struct {
	mu      sync.Mutex
	issued  map[string]time.Duration
	saveErr error
	useErr  error
}

func newFakeStateStore() *fakeStateStore {
	return &fakeStateStore{issued: map[string]time.Duration{}}
}

func (s *fakeStateStore) Save(_ context.Context, state string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.issued[state] = ttl
	return nil
}

func (s *fakeStateStore) Consume(_ context.Context, state string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.useErr != nil {
		return false, s.useErr
	}
	_, ok := s.issued[state]
	delete(s.issued, state)
	return ok, nil
}
