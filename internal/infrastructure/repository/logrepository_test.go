package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ns-ai-search/console/internal/domain/auditlog"
	"github.com/ns-ai-search/console/internal/domain/staff"
	"github.com/ns-ai-search/console/internal/domain/usagelog"
	"github.com/ns-ai-search/console/internal/domain/website"
	"github.com/ns-ai-search/console/internal/infrastructure/persistence/models"
	"github.com/ns-ai-search/console/internal/shared/logger"
)

type testHasher struct{}

func (testHasher) Hash(p string) (string, error) { return "h:" + p, nil }
func (testHasher) Verify(p, h string) bool       { return h == "h:"+p }

func TestAdminLogRepository_ListJoinsLabels(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	sites := NewWebsiteRepository(db, logger.NewNopLogger())
	users := NewStaffUserRepository(db, logger.NewNopLogger())
	repo := NewAdminLogRepository(db, logger.NewNopLogger())

	w := createWebsite(t, sites, "example.com", website.PlanBasic)
	u, err := staff.NewUser("ops@example.com", "Ops", staff.RoleAdmin, "password1", testHasher{})
	require.NoError(t, err)
	require.NoError(t, users.Create(ctx, u))

	wid, uid := w.ID(), u.ID()
	for _, action := range []string{auditlog.ActionWebsiteCreated, auditlog.ActionCreditsAdd, auditlog.ActionCreditsDeduct} {
		e, err := auditlog.NewEntry(&wid, &uid, action,
			map[string]any{"creditsRemaining": 1000},
			map[string]any{"creditsRemaining": 1100},
			"test")
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, e))
		assert.NotZero(t, e.ID())
	}
	system, err := auditlog.NewEntry(nil, nil, auditlog.ActionMessengerConnected, nil, nil, "")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, system))

	views, total, err := repo.List(ctx, auditlog.ListFilter{Page: 1, PageSize: 50, Action: "credits"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, views, 2)
	assert.Equal(t, auditlog.ActionCreditsDeduct, views[0].Action)
	assert.Equal(t, "example.com", views[0].WebsiteDomain)
	assert.Equal(t, "Ops", views[0].UserName)
	assert.Equal(t, "ops@example.com", views[0].UserEmail)
	assert.EqualValues(t, 1100, views[0].NewValue["creditsRemaining"])

	views, total, err = repo.List(ctx, auditlog.ListFilter{Page: 2, PageSize: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	require.Len(t, views, 1)

	views, _, err = repo.List(ctx, auditlog.ListFilter{Page: 1, PageSize: 10, WebsiteID: &wid})
	require.NoError(t, err)
	assert.Len(t, views, 3)
}

func TestUsageLogRepository(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	sites := NewWebsiteRepository(db, logger.NewNopLogger())
	repo := NewUsageLogRepository(db, logger.NewNopLogger())
	w := createWebsite(t, sites, "example.com", website.PlanBasic)

	now := time.Now().UTC()
	rows := []models.UsageLogModel{
		{WebsiteID: w.ID(), Operation: usagelog.OperationQuery, Cost: 1, CreditsRemaining: 99, Timestamp: now},
		{WebsiteID: w.ID(), Operation: usagelog.OperationContent, Cost: 5, CreditsRemaining: 94, Timestamp: now.Add(-time.Minute)},
		{WebsiteID: w.ID(), Operation: usagelog.OperationQuery, Cost: 1, CreditsRemaining: 93, Timestamp: now.AddDate(0, 0, -2)},
		{WebsiteID: w.ID(), Operation: usagelog.OperationQuery, Cost: 1, CreditsRemaining: 92, Timestamp: now.AddDate(0, 0, -30)},
	}
	require.NoError(t, db.Create(&rows).Error)

	t.Run("filters by operation", func(t *testing.T) {
		wid := w.ID()
		entries, total, err := repo.List(ctx, usagelog.ListFilter{Page: 1, PageSize: 50, WebsiteID: &wid, Operation: usagelog.OperationQuery})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, entries, 3)
		assert.Equal(t, 99, entries[0].CreditsRemaining)
		assert.Equal(t, "example.com", entries[0].WebsiteDomain)
	})

	t.Run("counts the last seven days", func(t *testing.T) {
		days, err := repo.CountByDay(ctx, now.AddDate(0, 0, -6))
		require.NoError(t, err)
		require.Len(t, days, 7)

		var sum int64
		for _, d := range days {
			sum += d.Count
		}
		assert.Equal(t, int64(3), sum)
		assert.Equal(t, now.Format("2006-01-02"), days[6].Date)
	})
}

func TestStaffUserRepository(t *testing.T) {
	repo := NewStaffUserRepository(setupTestDB(t), logger.NewNopLogger())
	ctx := context.Background()

	u, err := staff.NewUser("ops@example.com", "Ops", staff.RoleViewer, "password1", testHasher{})
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, u))

	dup, err := staff.NewUser("OPS@example.com", "Other", staff.RoleViewer, "password2", testHasher{})
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Create(ctx, dup), staff.ErrEmailTaken)

	got, err := repo.GetByEmail(ctx, " Ops@Example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, staff.RoleViewer, got.Role())

	require.True(t, got.VerifyPassword("password1", testHasher{}))
	require.NoError(t, repo.Update(ctx, got))
	got, err = repo.GetByID(ctx, u.ID())
	require.NoError(t, err)
	assert.NotNil(t, got.LastLoginAt())

	require.NoError(t, repo.DeleteByEmail(ctx, "ops@example.com"))
	assert.ErrorIs(t, repo.DeleteByEmail(ctx, "ops@example.com"), staff.ErrUserNotFound)
	got, err = repo.GetByEmail(ctx, "ops@example.com")
	require.NoError(t, err)
	assert.Nil(t, got)
}
