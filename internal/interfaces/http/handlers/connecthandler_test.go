package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ns-ai-search/console/internal/application/messenger/usecases"
	"github.com/ns-ai-search/console/internal/domain/website"
	"github.com/ns-ai-search/console/internal/interfaces/http/handlers/testutil"
	"github.com/ns-ai-search/console/internal/shared/constants"
)

// =====================================================================
// Mock service
// =====================================================================

type mockConnectService struct {
	initiateResult   *usecases.InitiateConnectResult
	callbackResult   *usecases.HandleCallbackResult
	statusResult     *usecases.StatusResult
	disconnectResult *usecases.DisconnectResult
	err              error

	initiateCmd   usecases.InitiateConnectCommand
	callbackCmd   usecases.HandleCallbackCommand
	statusQuery   usecases.GetStatusQuery
	disconnectCmd usecases.DisconnectCommand
}

func (m *mockConnectService) InitiateConnect(_ context.Context, cmd usecases.InitiateConnectCommand) (*usecases.InitiateConnectResult, error) {
	m.initiateCmd = cmd
	return m.initiateResult, m.err
}

func (m *mockConnectService) HandleCallback(_ context.Context, cmd usecases.HandleCallbackCommand) (*usecases.HandleCallbackResult, error) {
	m.callbackCmd = cmd
	return m.callbackResult, m.err
}

func (m *mockConnectService) GetStatus(_ context.Context, q usecases.GetStatusQuery) (*usecases.StatusResult, error) {
	m.statusQuery = q
	return m.statusResult, m.err
}

func (m *mockConnectService) Disconnect(_ context.Context, cmd usecases.DisconnectCommand) (*usecases.DisconnectResult, error) {
	m.disconnectCmd = cmd
	return m.disconnectResult, m.err
}

func connectError(code constants.ConnectErrorCode, redirectURI string) *usecases.ConnectError {
	return &usecases.ConnectError{Code: code, Message: code.Message(), RedirectURI: redirectURI}
}

func location(t *testing.T, header http.Header) *url.URL {
	t.Helper()
	u, err := url.Parse(header.Get("Location"))
	require.NoError(t, err)
	return u
}

const pluginURL = "https://example.com/wp-admin/admin.php?page=ns-ai-search-messenger"

// =====================================================================
// Initiate
// =====================================================================

func TestConnectHandler_Initiate_RedirectsToFacebook(t *testing.T) {
	svc := &mockConnectService{initiateResult: &usecases.InitiateConnectResult{AuthURL: "https://www.facebook.com/v24.0/dialog/oauth?state=abc"}}
	h := NewConnectHandler(svc, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodGet, "/connect/initiate", nil)
	testutil.SetQueryParams(c, map[string]string{"domain": " example.com ", "license_key": "abc", "redirect_uri": pluginURL})
	h.Initiate(c)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://www.facebook.com/v24.0/dialog/oauth?state=abc", w.Header().Get("Location"))
	assert.Equal(t, usecases.InitiateConnectCommand{Domain: "example.com", LicenseKey: "abc", RedirectURI: pluginURL}, svc.initiateCmd)
}

func TestConnectHandler_Initiate_RedirectsErrorsBackToPlugin(t *testing.T) {
	svc := &mockConnectService{err: connectError(constants.ConnectErrorPlanNotSupported, pluginURL)}
	h := NewConnectHandler(svc, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodGet, "/connect/initiate", nil)
	testutil.SetQueryParams(c, map[string]string{"domain": "example.com", "license_key": "abc"})
	h.Initiate(c)

	require.Equal(t, http.StatusFound, w.Code)
	q := location(t, w.Header()).Query()
	assert.Equal(t, "plan_not_supported", q.Get("error"))
	assert.Equal(t, "Messenger is only available for paid plans (BASIC, PRO, ENTERPRISE)", q.Get("message"))
	assert.Equal(t, "ns-ai-search-messenger", q.Get("page"))
}

func TestConnectHandler_Initiate_NoRedirectTarget(t *testing.T) {
	svc := &mockConnectService{err: connectError(constants.ConnectErrorMissingParams, "")}
	h := NewConnectHandler(svc, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodGet, "/connect/initiate", nil)
	h.Initiate(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, fmt.Sprintf(`{"success":false,"error":%q}`, constants.ConnectMsgNoRedirectTarget), w.Body.String())
}

func TestConnectHandler_Initiate_UnexpectedErrorBecomesServerError(t *testing.T) {
	svc := &mockConnectService{err: errors.New("boom")}
	h := NewConnectHandler(svc, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodGet, "/connect/initiate", nil)
	testutil.SetQueryParams(c, map[string]string{"domain": "example.com", "license_key": "abc"})
	h.Initiate(c)

	require.Equal(t, http.StatusFound, w.Code)
	u := location(t, w.Header())
	assert.Equal(t, "example.com", u.Host)
	assert.Equal(t, "server_error", u.Query().Get("error"))
}

// =====================================================================
// Callback
// =====================================================================

func TestConnectHandler_Callback_Success(t *testing.T) {
	svc := &mockConnectService{callbackResult: &usecases.HandleCallbackResult{
		RedirectURI: pluginURL,
		PageID:      "111",
		PageName:    "My Page",
		Message:     "Successfully connected to Facebook Page: My Page",
	}}
	h := NewConnectHandler(svc, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodGet, "/connect/callback", nil)
	testutil.SetQueryParams(c, map[string]string{"code": "the-code", "state": "c3RhdGU="})
	h.Callback(c)

	require.Equal(t, http.StatusFound, w.Code)
	q := location(t, w.Header()).Query()
	assert.Equal(t, "true", q.Get("success"))
	assert.Equal(t, "111", q.Get("page_id"))
	assert.Equal(t, "My Page", q.Get("page_name"))
	assert.Equal(t, "the-code", svc.callbackCmd.Code)
	assert.Equal(t, "c3RhdGU=", svc.callbackCmd.State)
}

func TestConnectHandler_Callback_PreContextErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"missing code or state", usecases.ErrMissingCodeOrState, constants.ConnectMsgMissingCodeOrState},
		{"invalid state", fmt.Errorf("%w: bad base64", usecases.ErrInvalidState), constants.ConnectMsgInvalidState},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewConnectHandler(&mockConnectService{err: tt.err}, testutil.NewMockLogger())

			c, w := testutil.NewTestContext(http.MethodGet, "/connect/callback", nil)
			h.Callback(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, fmt.Sprintf(`{"success":false,"error":%q}`, tt.want), w.Body.String())
		})
	}
}

func TestConnectHandler_Callback_RedirectableError(t *testing.T) {
	svc := &mockConnectService{err: connectError(constants.ConnectErrorWebsiteNotFound, "https://example.com/wp-admin/x")}
	h := NewConnectHandler(svc, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodGet, "/connect/callback", nil)
	h.Callback(c)

	require.Equal(t, http.StatusFound, w.Code)
	u := location(t, w.Header())
	assert.Equal(t, "/wp-admin/x", u.Path)
	assert.Equal(t, "website_not_found", u.Query().Get("error"))
}

func TestConnectHandler_Callback_NoRedirectTarget(t *testing.T) {
	svc := &mockConnectService{err: connectError(constants.ConnectErrorOAuthDenied, "")}
	h := NewConnectHandler(svc, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodGet, "/connect/callback", nil)
	testutil.SetQueryParams(c, map[string]string{"error": "access_denied"})
	h.Callback(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"Facebook authorization was denied"}`, w.Body.String())
	assert.Equal(t, "access_denied", svc.callbackCmd.OAuthError)
}

// =====================================================================
// Status
// =====================================================================

func TestConnectHandler_Status(t *testing.T) {
	t.Run("missing params", func(t *testing.T) {
		h := NewConnectHandler(&mockConnectService{}, testutil.NewMockLogger())
		c, w := testutil.NewTestContext(http.MethodGet, "/connect/status", nil)
		testutil.SetQueryParams(c, map[string]string{"domain": "example.com"})
		h.Status(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"success":false,"error":"Missing license_key or domain"}`, w.Body.String())
	})

	t.Run("unknown website", func(t *testing.T) {
		h := NewConnectHandler(&mockConnectService{err: website.ErrWebsiteNotFound}, testutil.NewMockLogger())
		c, w := testutil.NewTestContext(http.MethodGet, "/connect/status", nil)
		testutil.SetQueryParams(c, map[string]string{"domain": "example.com", "license_key": "abc"})
		h.Status(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"success":false,"error":"Website not found"}`, w.Body.String())
	})

	t.Run("store failure", func(t *testing.T) {
		h := NewConnectHandler(&mockConnectService{err: errors.New("db down")}, testutil.NewMockLogger())
		c, w := testutil.NewTestContext(http.MethodGet, "/connect/status", nil)
		testutil.SetQueryParams(c, map[string]string{"domain": "example.com", "license_key": "abc"})
		h.Status(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"success":false,"error":"Internal server error"}`, w.Body.String())
	})

	t.Run("not connected serializes nulls", func(t *testing.T) {
		h := NewConnectHandler(&mockConnectService{statusResult: &usecases.StatusResult{}}, testutil.NewMockLogger())
		c, w := testutil.NewTestContext(http.MethodGet, "/connect/status", nil)
		testutil.SetQueryParams(c, map[string]string{"domain": "example.com", "license_key": "abc"})
		h.Status(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true,"messengerEnabled":false,"tokenExpiresAt":null,"facebookPageId":null,"facebookPageName":null}`, w.Body.String())
	})

	t.Run("connected", func(t *testing.T) {
		expires := time.Date(2026, 12, 1, 10, 0, 0, 0, time.UTC)
		pageID, pageName := "111", "My Page"
		svc := &mockConnectService{statusResult: &usecases.StatusResult{
			MessengerEnabled: true,
			TokenExpiresAt:   &expires,
			FacebookPageID:   &pageID,
			FacebookPageName: &pageName,
		}}
		h := NewConnectHandler(svc, testutil.NewMockLogger())
		c, w := testutil.NewTestContext(http.MethodGet, "/connect/status", nil)
		testutil.SetQueryParams(c, map[string]string{"domain": "example.com", "license_key": "abc"})
		h.Status(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true,"messengerEnabled":true,"tokenExpiresAt":"2026-12-01T10:00:00Z","facebookPageId":"111","facebookPageName":"My Page"}`, w.Body.String())
		assert.Equal(t, usecases.GetStatusQuery{LicenseKey: "abc", Domain: "example.com"}, svc.statusQuery)
	})
}

// =====================================================================
// Disconnect
// =====================================================================

func TestConnectHandler_Disconnect(t *testing.T) {
	t.Run("json body", func(t *testing.T) {
		svc := &mockConnectService{disconnectResult: &usecases.DisconnectResult{}}
		h := NewConnectHandler(svc, testutil.NewMockLogger())
		c, w := testutil.NewTestContext(http.MethodPost, "/connect/disconnect", map[string]string{"license_key": "abc", "domain": "example.com"})
		h.Disconnect(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true,"message":"Messenger disconnected successfully"}`, w.Body.String())
		assert.Equal(t, usecases.DisconnectCommand{LicenseKey: "abc", Domain: "example.com"}, svc.disconnectCmd)
	})

	t.Run("form body", func(t *testing.T) {
		svc := &mockConnectService{disconnectResult: &usecases.DisconnectResult{AlreadyDisconnected: true}}
		h := NewConnectHandler(svc, testutil.NewMockLogger())
		c, w := testutil.NewFormContext(http.MethodPost, "/connect/disconnect", url.Values{"license_key": {"abc"}, "domain": {"example.com"}})
		h.Disconnect(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "already disconnected")
	})

	t.Run("missing fields", func(t *testing.T) {
		h := NewConnectHandler(&mockConnectService{}, testutil.NewMockLogger())
		c, w := testutil.NewTestContext(http.MethodPost, "/connect/disconnect", map[string]string{"domain": "example.com"})
		h.Disconnect(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"success":false,"error":"Missing license key or domain"}`, w.Body.String())
	})

	t.Run("unknown website", func(t *testing.T) {
		h := NewConnectHandler(&mockConnectService{err: website.ErrWebsiteNotFound}, testutil.NewMockLogger())
		c, w := testutil.NewTestContext(http.MethodPost, "/connect/disconnect", map[string]string{"license_key": "abc", "domain": "example.com"})
		h.Disconnect(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
