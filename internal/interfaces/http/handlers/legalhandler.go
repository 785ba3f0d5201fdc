package handlers

import (
	"bytes"
	"errors"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"

	"github.com/ns-ai-search/console/internal/shared/logger"
)

const legalPageTTL = 5 * time.Minute

// LegalPage is a markdown document served as a standalone HTML page.
type LegalPage struct {
	Slug  string
	Title string
}

var DefaultLegalPages = []LegalPage{
	{Slug: "privacy-policy", Title: "Privacy Policy"},
	{Slug: "terms-and-conditions", Title: "Terms and Conditions"},
}

type markdownRenderer interface {
	Render(source []byte) (string, error)
}

var legalLayout = template.Must(template.New("legal").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
</head>
<body>
<main>
{{.Body}}
</main>
</body>
</html>
`))

// LegalHandler renders the privacy policy and terms pages linked from the
// Facebook app review.
type LegalHandler struct {
	pagesDir string
	renderer markdownRenderer
	cache    *gocache.Cache
	logger   logger.Interface
}

func NewLegalHandler(pagesDir string, renderer markdownRenderer, logger logger.Interface) *LegalHandler {
	return &LegalHandler{
		pagesDir: pagesDir,
		renderer: renderer,
		cache:    gocache.New(legalPageTTL, 2*legalPageTTL),
		logger:   logger,
	}
}

// Page returns a handler serving the given page.
func (h *LegalHandler) Page(page LegalPage) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cached, ok := h.cache.Get(page.Slug); ok {
			c.Data(http.StatusOK, "text/html; charset=utf-8", cached.([]byte))
			return
		}

		body, err := h.render(page)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				c.String(http.StatusNotFound, "Page not found")
				return
			}
			h.logger.Errorw("failed to render legal page", "slug", page.Slug, "error", err)
			c.String(http.StatusInternalServerError, "Internal server error")
			return
		}

		h.cache.SetDefault(page.Slug, body)
		c.Data(http.StatusOK, "text/html; charset=utf-8", body)
	}
}

func (h *LegalHandler) render(page LegalPage) ([]byte, error) {
	source, err := os.ReadFile(filepath.Join(h.pagesDir, page.Slug+".md"))
	if err != nil {
		return nil, err
	}

	html, err := h.renderer.Render(source)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	err = legalLayout.Execute(&buf, struct {
		Title string
		Body  template.HTML
	}{
		Title: page.Title,
		// already sanitized by the renderer
		Body: template.HTML(html), //nolint:gosec
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
