package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ns-ai-search/console/internal/interfaces/http/handlers/testutil"
)

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

func TestHealthHandler(t *testing.T) {
	c, w := testutil.NewTestContext(http.MethodGet, "/health", nil)
	NewHealthHandler(fakePinger{}).HealthCheck(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"healthy"`)

	c, w = testutil.NewTestContext(http.MethodGet, "/health", nil)
	NewHealthHandler(fakePinger{err: errors.New("down")}).HealthCheck(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
