package handlers

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ns-ai-search/console/internal/interfaces/http/handlers/testutil"
	"github.com/ns-ai-search/console/internal/shared/services/markdown"
)

type countingRenderer struct {
	inner markdownRenderer
	calls int
	err   error
}

func (r *countingRenderer) Render(source []byte) (string, error) {
	r.calls++
	if r.err != nil {
		return "", r.err
	}
	return r.inner.Render(source)
}

func TestLegalHandler_Page(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "privacy-policy.md"), []byte("# Privacy\n\nWe keep page tokens."), 0o600))

	renderer := &countingRenderer{inner: markdown.NewRenderer()}
	h := NewLegalHandler(dir, renderer, testutil.NewMockLogger())
	page := DefaultLegalPages[0]

	for i := 0; i < 2; i++ {
		c, w := testutil.NewTestContext(http.MethodGet, "/privacy-policy", nil)
		h.Page(page)(c)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Body.String(), "<title>Privacy Policy</title>")
		assert.Contains(t, w.Body.String(), "We keep page tokens.")
	}
	assert.Equal(t, 1, renderer.calls)
}

func TestLegalHandler_MissingPage(t *testing.T) {
	h := NewLegalHandler(t.TempDir(), markdown.NewRenderer(), testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodGet, "/terms-and-conditions", nil)
	h.Page(DefaultLegalPages[1])(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLegalHandler_RenderFailure(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "terms-and-conditions.md"), []byte("terms"), 0o600))
	h := NewLegalHandler(dir, &countingRenderer{err: errors.New("boom")}, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodGet, "/terms-and-conditions", nil)
	h.Page(DefaultLegalPages[1])(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
