// Package credits is the HTTP client for the credits backend admin API.
// The backend enforces per-site credit limits and stores usage logs; the
// console pushes allowances to it and reads logs back.
package credits

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ns-ai-search/console/internal/infrastructure/metrics"
	"github.com/ns-ai-search/console/internal/shared/config"
	"github.com/ns-ai-search/console/internal/shared/logger"
)

const (
	adminTokenHeader = "X-Admin-Token"
	updateReason     = "admin_panel_update"
	maxBodyBytes     = 1 << 20
)

// ErrMalformedResponse is returned when a usage log answer carries no logs.
var ErrMalformedResponse = errors.New("credits backend: usage logs missing from response")

// ErrNotConfigured is returned when base URL or admin token is missing.
var ErrNotConfigured = errors.New("credits backend is not configured")

// BackendError is a non-2xx answer from the backend.
type BackendError struct {
	StatusCode int
	Message    string
}

func (e *BackendError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("credits backend: status %d", e.StatusCode)
	}
	return fmt.Sprintf("credits backend: status %d: %s", e.StatusCode, e.Message)
}

// Allowance is the credit state pushed for one site.
type Allowance struct {
	Domain           string
	CreditsTotal     int
	CreditsRemaining int
	Plan             string
}

// UsageLog is one remote usage record.
type UsageLog struct {
	Timestamp        time.Time `json:"timestamp"`
	Operation        string    `json:"operation"`
	Cost             int       `json:"cost"`
	CreditsRemaining int       `json:"credits_remaining"`
}

// UsageLogPage is one page of remote usage logs.
type UsageLogPage struct {
	Logs    []UsageLog `json:"logs"`
	Total   int64      `json:"total"`
	Page    int        `json:"page"`
	PerPage int        `json:"per_page"`
}

type Client struct {
	baseURL    string
	adminToken string
	httpClient *http.Client
	metrics    *metrics.Metrics
	logger     logger.Interface
}

func NewClient(cfg config.CreditsConfig, m *metrics.Metrics, log logger.Interface) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		adminToken: cfg.AdminToken,
		httpClient: &http.Client{Timeout: cfg.Timeout()},
		metrics:    m,
		logger:     log,
	}
}

func (c *Client) IsConfigured() bool {
	return c.baseURL != "" && c.adminToken != ""
}

// SetCredits pushes the site's allowance.
func (c *Client) SetCredits(ctx context.Context, a Allowance) error {
	if !c.IsConfigured() {
		return ErrNotConfigured
	}
	body := map[string]interface{}{
		"site":              a.Domain,
		"credits_total":     a.CreditsTotal,
		"credits_remaining": a.CreditsRemaining,
		"plan":              a.Plan,
		"reason":            updateReason,
	}
	err := c.do(ctx, http.MethodPost, "/admin/set-credits", nil, body, nil)
	c.metrics.CreditsRequest("set_credits", err)
	return err
}

// UsageLogs fetches one page of the site's remote usage logs.
func (c *Client) UsageLogs(ctx context.Context, domain string, page, perPage int) (*UsageLogPage, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}
	q := url.Values{
		"site":     {domain},
		"page":     {strconv.Itoa(page)},
		"per_page": {strconv.Itoa(perPage)},
	}
	// The backend has answered with the page both at the top level and
	// wrapped in "data"; accept either.
	var resp struct {
		usageLogBody
		Data *usageLogBody `json:"data"`
	}
	err := c.do(ctx, http.MethodGet, "/admin/usage-logs", q, nil, &resp)
	c.metrics.CreditsRequest("usage_logs", err)
	if err != nil {
		return nil, err
	}

	body := &resp.usageLogBody
	if body.Logs == nil && resp.Data != nil {
		body = resp.Data
	}
	if body.Logs == nil {
		return nil, ErrMalformedResponse
	}

	out := &UsageLogPage{Page: page, PerPage: perPage, Total: body.Total, Logs: make([]UsageLog, 0, len(body.Logs))}
	if body.Page > 0 {
		out.Page = body.Page
	}
	if body.PerPage > 0 {
		out.PerPage = body.PerPage
	}
	for _, l := range body.Logs {
		out.Logs = append(out.Logs, UsageLog{
			Timestamp:        fromEpoch(l.Timestamp),
			Operation:        l.Operation,
			Cost:             l.Cost,
			CreditsRemaining: l.CreditsRemaining,
		})
	}
	return out, nil
}

type usageLogBody struct {
	Logs []struct {
		Timestamp        int64  `json:"timestamp"`
		Operation        string `json:"operation"`
		Cost             int    `json:"cost"`
		CreditsRemaining int    `json:"credits_remaining"`
	} `json:"logs"`
	Total   int64 `json:"total"`
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
}

// UpdatePageCache maps a Facebook page id to its site for webhook routing.
func (c *Client) UpdatePageCache(ctx context.Context, pageID, domain string) error {
	return c.cacheCall(ctx, "update_page_cache", "/admin/update-page-cache",
		map[string]string{"pageId": pageID, "domain": domain})
}

// InvalidatePageCache drops the page id mapping.
func (c *Client) InvalidatePageCache(ctx context.Context, pageID string) error {
	return c.cacheCall(ctx, "invalidate_page_cache", "/admin/invalidate-page-cache",
		map[string]string{"pageId": pageID})
}

// RefreshSite makes the backend reload the site's record, including its
// Messenger credentials.
func (c *Client) RefreshSite(ctx context.Context, domain string) error {
	return c.cacheCall(ctx, "refresh_site", "/admin/sync-credits",
		map[string]string{"domain": domain})
}

// cacheCall skips silently when unconfigured; these calls only keep the
// backend's caches warm.
func (c *Client) cacheCall(ctx context.Context, op, path string, body interface{}) error {
	if !c.IsConfigured() {
		c.logger.Warnw("credits backend not configured, skipping call", "operation", op)
		return nil
	}
	err := c.do(ctx, http.MethodPost, path, nil, body, nil)
	c.metrics.CreditsRequest(op, err)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(adminTokenHeader, c.adminToken)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("credits backend %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var envelope struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		_ = json.Unmarshal(data, &envelope)
		msg := envelope.Message
		if msg == "" {
			msg = envelope.Error
		}
		return &BackendError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// fromEpoch accepts seconds or milliseconds.
func fromEpoch(v int64) time.Time {
	if v > 1e12 {
		return time.UnixMilli(v).UTC()
	}
	return time.Unix(v, 0).UTC()
}
