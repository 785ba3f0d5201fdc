package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ns-ai-search/console/internal/infrastructure/auth"
	"github.com/ns-ai-search/console/internal/infrastructure/ratelimit"
	"github.com/ns-ai-search/console/internal/shared/constants"
	"github.com/ns-ai-search/console/internal/shared/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, method, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func ok(c *gin.Context) { c.String(http.StatusOK, "ok") }

// =====================================================================
// Auth and permission
// =====================================================================

type staticEnforcer struct {
	allow bool
	err   error
	calls []string
}

func (e *staticEnforcer) Enforce(role, path, method string) (bool, error) {
	e.calls = append(e.calls, role+" "+method+" "+path)
	return e.allow, e.err
}

func newProtectedRouter(jwt *auth.JWTService, enforcer policyEnforcer) *gin.Engine {
	r := gin.New()
	authMW := NewAuthMiddleware(jwt, logger.NewNopLogger())
	permMW := NewPermissionMiddleware(enforcer, logger.NewNopLogger())
	r.GET("/api/admin/websites", authMW.RequireAuth(), permMW.RequirePermission(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetUint(constants.ContextKeyUserID),
			"role":    c.GetString(constants.ContextKeyUserRole),
		})
	})
	return r
}

func TestRequireAuth(t *testing.T) {
	jwt := auth.NewJWTService("test-secret", 30)
	r := newProtectedRouter(jwt, &staticEnforcer{allow: true})

	t.Run("missing header", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/api/admin/websites", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/api/admin/websites", http.Header{"Authorization": {"Basic abc"}})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("bad signature", func(t *testing.T) {
		other, _, err := auth.NewJWTService("other-secret", 30).Generate(1, "admin")
		require.NoError(t, err)
		w := serve(r, http.MethodGet, "/api/admin/websites", http.Header{"Authorization": {"Bearer " + other}})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		token, _, err := jwt.Generate(9, "viewer")
		require.NoError(t, err)
		w := serve(r, http.MethodGet, "/api/admin/websites", http.Header{"Authorization": {"Bearer " + token}})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"user_id":9,"role":"viewer"}`, w.Body.String())
	})
}

func TestRequirePermission(t *testing.T) {
	jwt := auth.NewJWTService("test-secret", 30)
	token, _, err := jwt.Generate(2, "viewer")
	require.NoError(t, err)
	header := http.Header{"Authorization": {"Bearer " + token}}

	t.Run("denied", func(t *testing.T) {
		enforcer := &staticEnforcer{allow: false}
		w := serve(newProtectedRouter(jwt, enforcer), http.MethodGet, "/api/admin/websites", header)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, []string{"viewer GET /api/admin/websites"}, enforcer.calls)
	})

	t.Run("enforcer failure", func(t *testing.T) {
		w := serve(newProtectedRouter(jwt, &staticEnforcer{err: errors.New("db down")}), http.MethodGet, "/api/admin/websites", header)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

// =====================================================================
// Rate limiting
// =====================================================================

type fakeLimiter struct {
	allowed bool
	err     error
	keys    []string
}

func (f *fakeLimiter) Allow(_ context.Context, key string, _ ratelimit.Limits) (bool, error) {
	f.keys = append(f.keys, key)
	return f.allowed, f.err
}

func (f *fakeLimiter) Count(context.Context, string, time.Duration) (int64, error) { return 0, nil }
func (f *fakeLimiter) Reset(context.Context, string) error                        { return nil }

func TestRateLimiter(t *testing.T) {
	newRouter := func(l ratelimit.RateLimiter) *gin.Engine {
		r := gin.New()
		r.GET("/connect/initiate", NewRateLimiter(l, "connect", 5, logger.NewNopLogger()).Limit(), ok)
		return r
	}

	t.Run("over the limit", func(t *testing.T) {
		l := &fakeLimiter{allowed: false}
		w := serve(newRouter(l), http.MethodGet, "/connect/initiate", nil)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "60", w.Header().Get("Retry-After"))
		require.Len(t, l.keys, 1)
		assert.Contains(t, l.keys[0], "connect:")
	})

	t.Run("store unavailable fails open", func(t *testing.T) {
		w := serve(newRouter(&fakeLimiter{err: errors.New("redis: connection refused")}), http.MethodGet, "/connect/initiate", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("no limiter configured", func(t *testing.T) {
		w := serve(newRouter(nil), http.MethodGet, "/connect/initiate", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

// =====================================================================
// CORS, request id, metrics, recovery
// =====================================================================

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"https://console.example.com"}, "/connect"))
	r.GET("/api/admin/websites", ok)
	public := r.Group("/connect", PublicCORS())
	public.GET("/status", ok)
	public.OPTIONS("/status", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	t.Run("allowed origin", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/api/admin/websites", http.Header{"Origin": {"https://console.example.com"}})
		assert.Equal(t, "https://console.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("unknown origin", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/api/admin/websites", http.Header{"Origin": {"https://evil.example"}})
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("admin preflight", func(t *testing.T) {
		w := serve(r, http.MethodOptions, "/api/admin/websites", http.Header{"Origin": {"https://console.example.com"}})
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("public routes accept any origin", func(t *testing.T) {
		w := serve(r, http.MethodOptions, "/connect/status", http.Header{"Origin": {"https://blog.example.org"}})
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "GET, POST, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "Content-Type, Authorization", w.Header().Get("Access-Control-Allow-Headers"))
		assert.Equal(t, "86400", w.Header().Get("Access-Control-Max-Age"))
	})
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(constants.ContextKeyRequestID))
	})

	w := serve(r, http.MethodGet, "/health", http.Header{constants.HeaderXRequestID: {"abc-123"}})
	assert.Equal(t, "abc-123", w.Body.String())
	assert.Equal(t, "abc-123", w.Header().Get(constants.HeaderXRequestID))

	w = serve(r, http.MethodGet, "/health", nil)
	assert.Len(t, w.Body.String(), 36)
	assert.Equal(t, w.Body.String(), w.Header().Get(constants.HeaderXRequestID))
}

type recordedObservation struct {
	method, route string
	status        int
}

type fakeObserver struct {
	seen []recordedObservation
}

func (f *fakeObserver) ObserveHTTP(method, route string, status int, _ time.Duration) {
	f.seen = append(f.seen, recordedObservation{method, route, status})
}

func TestMetrics_UsesRouteTemplate(t *testing.T) {
	obs := &fakeObserver{}
	r := gin.New()
	r.Use(Metrics(obs))
	r.GET("/api/admin/websites/:id", ok)

	serve(r, http.MethodGet, "/api/admin/websites/42", nil)
	serve(r, http.MethodGet, "/nope", nil)

	require.Len(t, obs.seen, 2)
	assert.Equal(t, recordedObservation{http.MethodGet, "/api/admin/websites/:id", http.StatusOK}, obs.seen[0])
	assert.Equal(t, "unmatched", obs.seen[1].route)
	assert.Equal(t, http.StatusNotFound, obs.seen[1].status)
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(logger.NewNopLogger()))
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := serve(r, http.MethodGet, "/boom", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal server error occurred")
}

type levelRecorder struct {
	logger.Interface
	lines []string
}

func (l *levelRecorder) Debugw(msg string, _ ...any) { l.lines = append(l.lines, "debug:"+msg) }
func (l *levelRecorder) Infow(msg string, _ ...any)  { l.lines = append(l.lines, "info:"+msg) }
func (l *levelRecorder) Warnw(msg string, _ ...any)  { l.lines = append(l.lines, "warn:"+msg) }
func (l *levelRecorder) Errorw(msg string, _ ...any) { l.lines = append(l.lines, "error:"+msg) }

func TestRequestLogger_LevelByOutcome(t *testing.T) {
	rec := &levelRecorder{Interface: logger.NewNopLogger()}
	r := gin.New()
	r.Use(RequestLogger(rec, "/connect"))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/connect/status", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/bad", func(c *gin.Context) { c.Status(http.StatusBadRequest) })
	r.GET("/fail", func(c *gin.Context) { c.Status(http.StatusBadGateway) })

	for _, p := range []string{"/health", "/connect/status", "/bad", "/fail"} {
		serve(r, http.MethodGet, p, nil)
	}

	assert.Equal(t, []string{"debug:request", "info:request", "warn:request rejected", "error:request failed"}, rec.lines)
}
