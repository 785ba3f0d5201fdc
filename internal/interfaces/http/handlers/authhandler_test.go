package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ns-ai-search/console/internal/application/staff/dto"
	"github.com/ns-ai-search/console/internal/interfaces/http/handlers/testutil"
	"github.com/ns-ai-search/console/internal/shared/errors"
)

type mockStaffAuthService struct {
	login *dto.LoginResponse
	user  *dto.UserResponse
	err   error

	loginReq dto.LoginRequest
	userID   uint
}

func (m *mockStaffAuthService) Login(_ context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	m.loginReq = req
	return m.login, m.err
}

func (m *mockStaffAuthService) GetUser(_ context.Context, id uint) (*dto.UserResponse, error) {
	m.userID = id
	return m.user, m.err
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &mockStaffAuthService{login: &dto.LoginResponse{
			AccessToken: "jwt",
			TokenType:   "Bearer",
			ExpiresIn:   1800,
			User:        &dto.UserResponse{ID: 1, Email: "ops@example.com", Role: "admin"},
		}}
		h := NewAuthHandler(svc, testutil.NewMockLogger())

		c, w := testutil.NewTestContext(http.MethodPost, "/api/auth/login", map[string]string{
			"email":    "ops@example.com",
			"password": "password1",
		})
		h.Login(c)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ops@example.com", svc.loginReq.Email)

		var resp testutil.APIResponse
		require.NoError(t, testutil.ParseResponse(w, &resp))
		var data dto.LoginResponse
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.Equal(t, "jwt", data.AccessToken)
		assert.Equal(t, int64(1800), data.ExpiresIn)
	})

	t.Run("malformed email", func(t *testing.T) {
		h := NewAuthHandler(&mockStaffAuthService{}, testutil.NewMockLogger())
		c, w := testutil.NewTestContext(http.MethodPost, "/api/auth/login", map[string]string{
			"email":    "nope",
			"password": "password1",
		})
		h.Login(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid credentials", func(t *testing.T) {
		h := NewAuthHandler(&mockStaffAuthService{err: errors.NewInvalidCredentialsError()}, testutil.NewMockLogger())
		c, w := testutil.NewTestContext(http.MethodPost, "/api/auth/login", map[string]string{
			"email":    "ops@example.com",
			"password": "wrong-password",
		})
		h.Login(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		var resp testutil.APIResponse
		require.NoError(t, testutil.ParseResponse(w, &resp))
		assert.Equal(t, "Invalid email or password", resp.Error.Message)
	})
}

func TestAuthHandler_GetCurrentUser(t *testing.T) {
	t.Run("authenticated", func(t *testing.T) {
		svc := &mockStaffAuthService{user: &dto.UserResponse{ID: 4, Email: "ops@example.com", Role: "viewer"}}
		h := NewAuthHandler(svc, testutil.NewMockLogger())

		c, w := testutil.NewTestContext(http.MethodGet, "/api/auth/me", nil)
		testutil.AsStaff(c, 4, "viewer")
		h.GetCurrentUser(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, uint(4), svc.userID)
	})

	t.Run("anonymous", func(t *testing.T) {
		h := NewAuthHandler(&mockStaffAuthService{}, testutil.NewMockLogger())
		c, w := testutil.NewTestContext(http.MethodGet, "/api/auth/me", nil)
		h.GetCurrentUser(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
