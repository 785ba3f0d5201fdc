package usecases

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ns-ai-search/console/internal/application/website/dto"
	"github.com/ns-ai-search/console/internal/domain/auditlog"
	"github.com/ns-ai-search/console/internal/domain/usagelog"
	"github.com/ns-ai-search/console/internal/domain/website"
	"github.com/ns-ai-search/console/internal/infrastructure/credits"
	"github.com/ns-ai-search/console/internal/infrastructure/email"
	"github.com/ns-ai-search/console/internal/infrastructure/persistence/models"
	"github.com/ns-ai-search/console/internal/infrastructure/repository"
	"github.com/ns-ai-search/console/internal/shared/db"
	apperrors "github.com/ns-ai-search/console/internal/shared/errors"
	"github.com/ns-ai-search/console/internal/shared/logger"
)

// =============================================================================
// Test helpers
// =============================================================================

type recordingPusher struct {
	mu     sync.Mutex
	pushed []credits.Allowance
	err    error
}

func (p *recordingPusher) SetCredits(_ context.Context, a credits.Allowance) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pushed = append(p.pushed, a)
	return p.err
}

func (p *recordingPusher) last() credits.Allowance {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pushed[len(p.pushed)-1]
}

type recordingNotifier struct {
	events []email.WebsiteEvent
}

func (n *recordingNotifier) WebsiteCreated(_ context.Context, ev email.WebsiteEvent) error {
	n.events = append(n.events, ev)
	return nil
}

type env struct {
	db       *gorm.DB
	websites *repository.WebsiteRepository
	audit    *repository.AdminLogRepository
	usage    *repository.UsageLogRepository
	tx       *db.TransactionManager
	pusher   *recordingPusher
	notifier *recordingNotifier
	actor    Actor
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, gdb.AutoMigrate(
		&models.WebsiteModel{},
		&models.AdminLogModel{},
		&models.UsageLogModel{},
		&models.StaffUserModel{},
	))

	log := logger.NewNopLogger()
	staffID := uint(7)
	return &env{
		db:       gdb,
		websites: repository.NewWebsiteRepository(gdb, log),
		audit:    repository.NewAdminLogRepository(gdb, log),
		usage:    repository.NewUsageLogRepository(gdb, log),
		tx:       db.NewTransactionManager(gdb),
		pusher:   &recordingPusher{},
		notifier: &recordingNotifier{},
		actor:    Actor{ID: &staffID},
	}
}

func (e *env) create(t *testing.T, domain, plan string, creditsTotal int) *dto.WebsiteResponse {
	t.Helper()
	uc := NewCreateWebsiteUseCase(e.websites, e.audit, e.tx, e.pusher, e.notifier, logger.NewNopLogger())
	resp, err := uc.Execute(context.Background(), e.actor, dto.CreateWebsiteRequest{
		Domain:       domain,
		Title:        "Site " + domain,
		Plan:         plan,
		CreditsTotal: &creditsTotal,
	})
	require.NoError(t, err)
	return resp
}

func (e *env) actions(t *testing.T, id uint) []string {
	t.Helper()
	views, _, err := e.audit.List(context.Background(), auditlog.ListFilter{Page: 1, PageSize: 50, WebsiteID: &id})
	require.NoError(t, err)
	out := make([]string, 0, len(views))
	for _, v := range views {
		out = append(out, v.Action)
	}
	return out
}

func requireAppErrorType(t *testing.T, err error, want apperrors.ErrorType) {
	t.Helper()
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr, "expected AppError, got %v", err)
	assert.Equal(t, want, appErr.Type)
}

// =============================================================================
// Create / update / delete
// =============================================================================

func TestCreateWebsite(t *testing.T) {
	e := newEnv(t)

	resp := e.create(t, "Example.com", "PRO", 5000)

	assert.Equal(t, "example.com", resp.Domain)
	assert.Len(t, resp.LicenseKey, 64)
	assert.Equal(t, "ACTIVE", resp.Status)
	assert.Equal(t, 5000, resp.CreditsRemaining)
	assert.Zero(t, resp.CreditsUsed)
	require.NotNil(t, resp.NextReset)
	assert.Equal(t, 1, resp.NextReset.Day())
	assert.False(t, resp.Messenger.Enabled)

	assert.Equal(t, []string{auditlog.ActionWebsiteCreated}, e.actions(t, resp.ID))
	assert.Equal(t, credits.Allowance{Domain: "example.com", CreditsTotal: 5000, CreditsRemaining: 5000, Plan: "PRO"}, e.pusher.last())
	require.Len(t, e.notifier.events, 1)
	assert.Equal(t, 5000, e.notifier.events[0].Credits)
}

func TestCreateWebsite_DefaultCreditsAndPeriod(t *testing.T) {
	e := newEnv(t)
	uc := NewCreateWebsiteUseCase(e.websites, e.audit, e.tx, e.pusher, e.notifier, logger.NewNopLogger())
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)

	resp, err := uc.Execute(context.Background(), e.actor, dto.CreateWebsiteRequest{
		Domain: "basic.com", Title: "Basic", Plan: "BASIC",
		SubscriptionStart: &start, SubscriptionEnd: &end,
	})
	require.NoError(t, err)
	assert.Equal(t, 1000, resp.CreditsTotal)
	require.NotNil(t, resp.SubscriptionEnd)
	assert.True(t, end.Equal(*resp.SubscriptionEnd))

	_, err = uc.Execute(context.Background(), e.actor, dto.CreateWebsiteRequest{
		Domain: "bad.com", Title: "Bad", Plan: "BASIC",
		SubscriptionStart: &end, SubscriptionEnd: &start,
	})
	requireAppErrorType(t, err, apperrors.ErrorTypeValidation)
}

func TestCreateWebsite_DuplicateDomain(t *testing.T) {
	e := newEnv(t)
	e.create(t, "example.com", "FREE", 100)

	uc := NewCreateWebsiteUseCase(e.websites, e.audit, e.tx, e.pusher, e.notifier, logger.NewNopLogger())
	_, err := uc.Execute(context.Background(), e.actor, dto.CreateWebsiteRequest{
		Domain: "EXAMPLE.com", Title: "Again", Plan: "FREE",
	})
	requireAppErrorType(t, err, apperrors.ErrorTypeConflict)
	assert.Len(t, e.pusher.pushed, 1)
}

func TestCreateWebsite_PushFailureIsNotFatal(t *testing.T) {
	e := newEnv(t)
	e.pusher.err = &credits.BackendError{StatusCode: 502, Message: "worker down"}

	resp := e.create(t, "example.com", "BASIC", 1000)
	assert.NotZero(t, resp.ID)
}

func TestUpdateWebsite(t *testing.T) {
	e := newEnv(t)
	created := e.create(t, "example.com", "BASIC", 1000)
	uc := NewUpdateWebsiteUseCase(e.websites, e.audit, e.tx, e.pusher, logger.NewNopLogger())

	title := "Renamed"
	resp, err := uc.Execute(context.Background(), e.actor, created.ID, dto.UpdateWebsiteRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", resp.Title)
	assert.Len(t, e.pusher.pushed, 1, "title change is not pushed")

	plan := "PRO"
	status := "SUSPENDED"
	resp, err = uc.Execute(context.Background(), e.actor, created.ID, dto.UpdateWebsiteRequest{Plan: &plan, Status: &status})
	require.NoError(t, err)
	assert.Equal(t, "PRO", resp.Plan)
	assert.Equal(t, "SUSPENDED", resp.Status)
	assert.Equal(t, "PRO", e.pusher.last().Plan)

	views, _, err := e.audit.List(context.Background(), auditlog.ListFilter{Page: 1, PageSize: 1, WebsiteID: &created.ID})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, auditlog.ActionWebsiteUpdated, views[0].Action)
	assert.Equal(t, "BASIC", views[0].OldValue["plan"])
	assert.Equal(t, "PRO", views[0].NewValue["plan"])
	assert.Equal(t, uint(7), *views[0].UserID)
}

func TestUpdateWebsite_NoChangesWritesNoAudit(t *testing.T) {
	e := newEnv(t)
	created := e.create(t, "example.com", "BASIC", 1000)
	uc := NewUpdateWebsiteUseCase(e.websites, e.audit, e.tx, e.pusher, logger.NewNopLogger())

	same := "BASIC"
	_, err := uc.Execute(context.Background(), e.actor, created.ID, dto.UpdateWebsiteRequest{Plan: &same})
	require.NoError(t, err)
	assert.Equal(t, []string{auditlog.ActionWebsiteCreated}, e.actions(t, created.ID))
}

func TestUpdateWebsite_Errors(t *testing.T) {
	e := newEnv(t)
	created := e.create(t, "example.com", "BASIC", 1000)
	uc := NewUpdateWebsiteUseCase(e.websites, e.audit, e.tx, e.pusher, logger.NewNopLogger())

	title := "Renamed"
	_, err := uc.Execute(context.Background(), e.actor, 999, dto.UpdateWebsiteRequest{Title: &title})
	requireAppErrorType(t, err, apperrors.ErrorTypeNotFound)

	short := "x"
	_, err = uc.Execute(context.Background(), e.actor, created.ID, dto.UpdateWebsiteRequest{Title: &short})
	requireAppErrorType(t, err, apperrors.ErrorTypeValidation)

	gold := "GOLD"
	_, err = uc.Execute(context.Background(), e.actor, created.ID, dto.UpdateWebsiteRequest{Plan: &gold})
	requireAppErrorType(t, err, apperrors.ErrorTypeValidation)
}

func TestDeleteWebsite(t *testing.T) {
	e := newEnv(t)
	created := e.create(t, "example.com", "BASIC", 1000)
	uc := NewDeleteWebsiteUseCase(e.websites, logger.NewNopLogger())

	require.NoError(t, uc.Execute(context.Background(), created.ID))
	assert.Empty(t, e.actions(t, created.ID))

	requireAppErrorType(t, uc.Execute(context.Background(), created.ID), apperrors.ErrorTypeNotFound)
}

// =============================================================================
// Credits
// =============================================================================

func TestAdjustCredits(t *testing.T) {
	e := newEnv(t)
	created := e.create(t, "example.com", "BASIC", 1000)
	uc := NewAdjustCreditsUseCase(e.websites, e.audit, e.tx, e.pusher, logger.NewNopLogger())

	resp, err := uc.Execute(context.Background(), e.actor, created.ID, dto.AdjustCreditsRequest{Amount: 250, Operation: "add"})
	require.NoError(t, err)
	assert.Equal(t, 1250, resp.CreditsRemaining)
	assert.Equal(t, 1250, resp.CreditsTotal)
	assert.NotNil(t, resp.LastSync)

	resp, err = uc.Execute(context.Background(), e.actor, created.ID, dto.AdjustCreditsRequest{Amount: 5000, Operation: "deduct", Reason: "abuse"})
	require.NoError(t, err)
	assert.Zero(t, resp.CreditsRemaining)
	assert.Equal(t, 1250, resp.CreditsTotal)
	assert.Equal(t, 0, e.pusher.last().CreditsRemaining)

	views, _, err := e.audit.List(context.Background(), auditlog.ListFilter{Page: 1, PageSize: 10, WebsiteID: &created.ID, Action: "credits"})
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, auditlog.ActionCreditsDeduct, views[0].Action)
	assert.Equal(t, "abuse", views[0].Reason)
	assert.Equal(t, "Credits added by admin", views[1].Reason)

	_, err = uc.Execute(context.Background(), e.actor, created.ID, dto.AdjustCreditsRequest{Amount: 1, Operation: "steal"})
	requireAppErrorType(t, err, apperrors.ErrorTypeValidation)
}

func TestAdjustCredits_OverLimitRollsBack(t *testing.T) {
	e := newEnv(t)
	created := e.create(t, "example.com", "BASIC", website.MaxCredits)
	uc := NewAdjustCreditsUseCase(e.websites, e.audit, e.tx, e.pusher, logger.NewNopLogger())

	_, err := uc.Execute(context.Background(), e.actor, created.ID, dto.AdjustCreditsRequest{Amount: 1, Operation: "add"})
	requireAppErrorType(t, err, apperrors.ErrorTypeValidation)
	assert.Equal(t, []string{auditlog.ActionWebsiteCreated}, e.actions(t, created.ID))
}

func TestResetCredits(t *testing.T) {
	e := newEnv(t)
	created := e.create(t, "example.com", "BASIC", 1000)
	require.NoError(t, e.db.Model(&models.WebsiteModel{}).Where("id = ?", created.ID).
		Updates(map[string]interface{}{"credits_remaining": 10, "credits_used": 990}).Error)

	uc := NewResetCreditsUseCase(e.websites, e.audit, e.tx, e.pusher, logger.NewNopLogger())
	resp, err := uc.Execute(context.Background(), e.actor, created.ID, dto.ResetCreditsRequest{})
	require.NoError(t, err)

	assert.Equal(t, 1000, resp.CreditsRemaining)
	assert.Zero(t, resp.CreditsUsed)
	assert.Equal(t, 1000, e.pusher.last().CreditsRemaining)

	views, _, err := e.audit.List(context.Background(), auditlog.ListFilter{Page: 1, PageSize: 1, WebsiteID: &created.ID})
	require.NoError(t, err)
	assert.Equal(t, auditlog.ActionCreditsReset, views[0].Action)
	assert.Equal(t, "Manual credit reset", views[0].Reason)
	assert.EqualValues(t, 990, views[0].OldValue["creditsUsed"])
}

func TestSyncWebsite(t *testing.T) {
	e := newEnv(t)
	created := e.create(t, "example.com", "BASIC", 1000)
	uc := NewSyncWebsiteUseCase(e.websites, e.pusher, logger.NewNopLogger())

	resp, err := uc.Execute(context.Background(), created.ID)
	require.NoError(t, err)
	assert.NotNil(t, resp.LastSync)

	e.pusher.err = &credits.BackendError{StatusCode: 500, Message: "boom"}
	_, err = uc.Execute(context.Background(), created.ID)
	requireAppErrorType(t, err, apperrors.ErrorTypeUpstream)

	e.pusher.err = credits.ErrNotConfigured
	_, err = uc.Execute(context.Background(), created.ID)
	requireAppErrorType(t, err, apperrors.ErrorTypeBadRequest)

	_, err = uc.Execute(context.Background(), 999)
	requireAppErrorType(t, err, apperrors.ErrorTypeNotFound)
}

// =============================================================================
// Subscription and license
// =============================================================================

func TestRenewSubscription(t *testing.T) {
	e := newEnv(t)
	created := e.create(t, "example.com", "FREE", 100)
	suspend := NewUpdateWebsiteUseCase(e.websites, e.audit, e.tx, e.pusher, logger.NewNopLogger())
	status := "SUSPENDED"
	_, err := suspend.Execute(context.Background(), e.actor, created.ID, dto.UpdateWebsiteRequest{Status: &status})
	require.NoError(t, err)

	uc := NewRenewSubscriptionUseCase(e.websites, e.audit, e.tx, e.pusher, logger.NewNopLogger())
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	resp, err := uc.Execute(context.Background(), e.actor, created.ID, dto.RenewSubscriptionRequest{
		SubscriptionStart: start,
		SubscriptionEnd:   start.AddDate(0, 1, 0),
		CreditsTotal:      5000,
		Plan:              "PRO",
	})
	require.NoError(t, err)

	assert.Equal(t, "PRO", resp.Plan)
	assert.Equal(t, "ACTIVE", resp.Status)
	assert.Equal(t, 5000, resp.CreditsRemaining)
	assert.Equal(t, credits.Allowance{Domain: "example.com", CreditsTotal: 5000, CreditsRemaining: 5000, Plan: "PRO"}, e.pusher.last())

	views, _, err := e.audit.List(context.Background(), auditlog.ListFilter{Page: 1, PageSize: 1, WebsiteID: &created.ID})
	require.NoError(t, err)
	assert.Equal(t, auditlog.ActionRenewSubscription, views[0].Action)
	assert.Equal(t, "2026-03-01", views[0].NewValue["subscriptionEnd"])

	_, err = uc.Execute(context.Background(), e.actor, created.ID, dto.RenewSubscriptionRequest{
		SubscriptionStart: start, SubscriptionEnd: start, Plan: "PRO",
	})
	requireAppErrorType(t, err, apperrors.ErrorTypeValidation)
}

func TestRegenerateLicenseKey(t *testing.T) {
	e := newEnv(t)
	created := e.create(t, "example.com", "BASIC", 1000)
	uc := NewRegenerateLicenseKeyUseCase(e.websites, e.audit, e.tx, logger.NewNopLogger())

	resp, err := uc.Execute(context.Background(), e.actor, created.ID)
	require.NoError(t, err)
	assert.Len(t, resp.LicenseKey, 64)
	assert.NotEqual(t, created.LicenseKey, resp.LicenseKey)

	old, err := e.websites.GetByCredentials(context.Background(), created.LicenseKey, "example.com")
	require.NoError(t, err)
	assert.Nil(t, old)

	views, _, err := e.audit.List(context.Background(), auditlog.ListFilter{Page: 1, PageSize: 1, WebsiteID: &created.ID})
	require.NoError(t, err)
	assert.Equal(t, auditlog.ActionRegenerateLicenseKey, views[0].Action)
	assert.Equal(t, resp.LicenseKey[:4]+"***", views[0].NewValue["licenseKey"])
}

// =============================================================================
// Reads
// =============================================================================

func TestGetWebsite_IncludesRecentActivity(t *testing.T) {
	e := newEnv(t)
	created := e.create(t, "example.com", "BASIC", 1000)
	rows := make([]models.UsageLogModel, 0, 60)
	for i := 0; i < 60; i++ {
		rows = append(rows, models.UsageLogModel{
			WebsiteID: created.ID, Operation: usagelog.OperationQuery, Cost: 1,
			CreditsRemaining: 1000 - i, Timestamp: time.Now().Add(-time.Duration(i) * time.Minute),
		})
	}
	require.NoError(t, e.db.Create(&rows).Error)

	uc := NewGetWebsiteUseCase(e.websites, e.usage, e.audit, logger.NewNopLogger())
	resp, err := uc.Execute(context.Background(), created.ID)
	require.NoError(t, err)

	assert.Equal(t, "example.com", resp.Domain)
	assert.Len(t, resp.UsageLogs, 50)
	assert.Equal(t, 1000, resp.UsageLogs[0].CreditsRemaining)
	require.Len(t, resp.AdminLogs, 1)
	assert.Equal(t, auditlog.ActionWebsiteCreated, resp.AdminLogs[0].Action)

	_, err = uc.Execute(context.Background(), 999)
	requireAppErrorType(t, err, apperrors.ErrorTypeNotFound)
}

func TestListWebsites(t *testing.T) {
	e := newEnv(t)
	e.create(t, "alpha.com", "FREE", 100)
	e.create(t, "beta.com", "PRO", 5000)
	e.create(t, "gamma.org", "PRO", 5000)

	uc := NewListWebsitesUseCase(e.websites, logger.NewNopLogger())

	resp, err := uc.Execute(context.Background(), dto.ListWebsitesRequest{Plan: "PRO", PageSize: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Total)
	assert.Equal(t, 2, resp.TotalPages)
	require.Len(t, resp.Items, 1)

	resp, err = uc.Execute(context.Background(), dto.ListWebsitesRequest{Search: " .org "})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "gamma.org", resp.Items[0].Domain)
	assert.Equal(t, 1, resp.Page)
}

func TestListPlans(t *testing.T) {
	plans := ListPlans()
	require.Len(t, plans, 4)
	assert.Equal(t, website.PlanEnterprise, plans[3].Plan)
	assert.Equal(t, 20000, plans[3].DefaultCredits)
}

// =============================================================================
// Concurrent writers
// =============================================================================

// countLockedReads counts queries issued with a FOR UPDATE clause.
func countLockedReads(t *testing.T, gdb *gorm.DB) *int {
	t.Helper()
	n := new(int)
	err := gdb.Callback().Query().Before("gorm:query").Register("test:count_locked_reads", func(tx *gorm.DB) {
		if _, ok := tx.Statement.Clauses["FOR"]; ok {
			*n++
		}
	})
	require.NoError(t, err)
	return n
}

func TestMutationsReadUnderRowLock(t *testing.T) {
	e := newEnv(t)
	created := e.create(t, "example.com", "BASIC", 1000)
	locked := countLockedReads(t, e.db)
	ctx := context.Background()

	adjust := NewAdjustCreditsUseCase(e.websites, e.audit, e.tx, e.pusher, logger.NewNopLogger())
	_, err := adjust.Execute(ctx, e.actor, created.ID, dto.AdjustCreditsRequest{Amount: 100, Operation: "add"})
	require.NoError(t, err)
	assert.Equal(t, 1, *locked)

	regen := NewRegenerateLicenseKeyUseCase(e.websites, e.audit, e.tx, logger.NewNopLogger())
	_, err = regen.Execute(ctx, e.actor, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, *locked)

	get := NewGetWebsiteUseCase(e.websites, e.usage, e.audit, logger.NewNopLogger())
	_, err = get.Execute(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, *locked, "reads outside a mutation stay unlocked")
}

// pushHook runs fn while a push is in flight.
type pushHook struct {
	fn func()
}

func (p *pushHook) SetCredits(context.Context, credits.Allowance) error {
	p.fn()
	return nil
}

func TestSyncWebsite_KeepsCreditsAddedDuringPush(t *testing.T) {
	e := newEnv(t)
	created := e.create(t, "example.com", "BASIC", 1000)
	ctx := context.Background()
	adjust := NewAdjustCreditsUseCase(e.websites, e.audit, e.tx, e.pusher, logger.NewNopLogger())

	hook := &pushHook{fn: func() {
		_, err := adjust.Execute(ctx, e.actor, created.ID, dto.AdjustCreditsRequest{Amount: 500, Operation: "add"})
		require.NoError(t, err)
	}}
	syncer := NewSyncWebsiteUseCase(e.websites, hook, logger.NewNopLogger())

	_, err := syncer.Execute(ctx, created.ID)
	require.NoError(t, err)

	stored, err := e.websites.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1500, stored.CreditsRemaining())
	assert.Equal(t, 1500, stored.CreditsTotal())
	assert.NotNil(t, stored.LastSync())
}
