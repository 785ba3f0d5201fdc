package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ns-ai-search/console/internal/domain/website"
)

func TestGetStatus_NotConnected(t *testing.T) {
	f := newFixture()
	site := f.websites.add(1, "example.com", website.PlanPro, website.StatusActive)

	res, err := f.status().Execute(context.Background(), GetStatusQuery{LicenseKey: site.LicenseKey(), Domain: "example.com"})
	require.NoError(t, err)

	assert.False(t, res.MessengerEnabled)
	assert.Nil(t, res.TokenExpiresAt)
	assert.Nil(t, res.FacebookPageID)
	assert.Nil(t, res.FacebookPageName)
}

func TestGetStatus_IncompleteBindingReadsAsDisconnected(t *testing.T) {
	f := newFixture()
	site := f.connected(1, "example.com", "111", "First Page")
	s := site.Snapshot()
	s.TokenExpiresAt = nil
	f.websites.put(s)

	res, err := f.status().Execute(context.Background(), GetStatusQuery{LicenseKey: site.LicenseKey(), Domain: "example.com"})
	require.NoError(t, err)
	assert.Equal(t, &StatusResult{}, res)
}

func TestGetStatus_Connected(t *testing.T) {
	f := newFixture()
	site := f.connected(1, "example.com", "111", "First Page")

	res, err := f.status().Execute(context.Background(), GetStatusQuery{LicenseKey: site.LicenseKey(), Domain: "EXAMPLE.com"})
	require.NoError(t, err)

	assert.True(t, res.MessengerEnabled)
	require.NotNil(t, res.FacebookPageID)
	assert.Equal(t, "111", *res.FacebookPageID)
	require.NotNil(t, res.FacebookPageName)
	assert.Equal(t, "First Page", *res.FacebookPageName)
	require.NotNil(t, res.TokenExpiresAt)
	assert.Equal(t, site.Messenger().TokenExpiresAt, *res.TokenExpiresAt)
	assert.Zero(t, f.graph.nameLookups)
}

func TestGetStatus_UnknownWebsite(t *testing.T) {
	f := newFixture()
	f.websites.add(1, "example.com", website.PlanPro, website.StatusActive)

	_, err := f.status().Execute(context.Background(), GetStatusQuery{LicenseKey: "nope", Domain: "example.com"})
	assert.ErrorIs(t, err, website.ErrWebsiteNotFound)
}

func TestGetStatus_StoreError(t *testing.T) {
	f := newFixture()
	f.websites.err = errBoom

	_, err := f.status().Execute(context.Background(), GetStatusQuery{LicenseKey: "k", Domain: "example.com"})
	assert.ErrorIs(t, err, errBoom)
	assert.NotErrorIs(t, err, website.ErrWebsiteNotFound)
}

func TestGetStatus_BackfillsPageName(t *testing.T) {
	f := newFixture()
	f.graph.pageName = "Looked Up"
	site := f.connected(1, "example.com", "111", "")

	res, err := f.status().Execute(context.Background(), GetStatusQuery{LicenseKey: site.LicenseKey(), Domain: "example.com"})
	require.NoError(t, err)

	require.NotNil(t, res.FacebookPageName)
	assert.Equal(t, "Looked Up", *res.FacebookPageName)
	assert.Equal(t, "Looked Up", f.websites.get(1).Messenger().PageName)

	_, err = f.status().Execute(context.Background(), GetStatusQuery{LicenseKey: site.LicenseKey(), Domain: "example.com"})
	require.NoError(t, err)
	assert.Equal(t, 1, f.graph.nameLookups)
}

func TestGetStatus_FailedLookupIsRemembered(t *testing.T) {
	f := newFixture()
	f.graph.pageNameErr = errBoom
	site := f.connected(1, "example.com", "111", "")
	q := GetStatusQuery{LicenseKey: site.LicenseKey(), Domain: "example.com"}

	res, err := f.status().Execute(context.Background(), q)
	require.NoError(t, err)
	assert.True(t, res.MessengerEnabled)
	assert.Nil(t, res.FacebookPageName)
	assert.True(t, f.lookups.failed["111"])

	_, err = f.status().Execute(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, 1, f.graph.nameLookups)
	assert.Equal(t, 1, f.metrics.failures[effectPageNameBackfill])
	assert.Zero(t, f.websites.writes)
}
