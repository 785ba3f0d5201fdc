// Package facebook talks to the Facebook OAuth dialog and Graph API on
// behalf of the Messenger connector.
package facebook

import (
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

	"golang.org/x/oauth2"

	"github.com/ns-ai-search/console/internal/infrastructure/metrics"
	"github.com/ns-ai-search/console/internal/shared/config"
	"github.com/ns-ai-search/console/internal/shared/logger"
)

const (
	httpClientTimeout = 30 * time.Second
	maxBodyBytes      = 1 << 20

	// DefaultLongLivedTTL applies when the exchange omits expires_in.
	DefaultLongLivedTTL = 60 * 24 * time.Hour
	// ShortLivedTTL is assumed for page tokens that could not be extended.
	ShortLivedTTL       = time.Hour
)

// WebhookFields are the Messenger events every connected Page is subscribed to.
var WebhookFields = []string{
	"messages",
	"messaging_postbacks",
	"messaging_handovers",
	"messaging_optins",
	"standby",
}

// Page is one entry of /me/accounts.
type Page struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	AccessToken string `json:"access_token"`
}

// LongLivedToken is the result of an fb_exchange_token grant.
type LongLivedToken struct {
	AccessToken string
	ExpiresIn   time.Duration
}

// Client wraps the OAuth dialog, token endpoints and the Graph calls the
// connector needs. The Graph API version is pinned by configuration.
type Client struct {
	oauth      *oauth2.Config
	appID      string
	appSecret  string
	graphURL   string
	httpClient *http.Client
	metrics    *metrics.Metrics
	logger     logger.Interface
}

// NewClient builds a client; callbackURL is the redirect URI registered with
// the Facebook app.
func NewClient(cfg config.FacebookConfig, callbackURL string, m *metrics.Metrics, log logger.Interface) *Client {
	version := strings.Trim(cfg.GraphVersion, "/")
	graphURL := strings.TrimRight(cfg.GraphBaseURL, "/") + "/" + version
	dialogURL := strings.TrimRight(cfg.DialogBaseURL, "/") + "/" + version

	return &Client{
		oauth: &oauth2.Config{
			ClientID:     cfg.AppID,
			ClientSecret: cfg.AppSecret,
			RedirectURL:  callbackURL,
			Endpoint: oauth2.Endpoint{
				AuthURL:   dialogURL + "/dialog/oauth",
				TokenURL:  graphURL + "/oauth/access_token",
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		appID:      cfg.AppID,
		appSecret:  cfg.AppSecret,
		graphURL:   graphURL,
		httpClient: &http.Client{Timeout: httpClientTimeout},
		metrics:    m,
		logger:     log,
	}
}

// WithHTTPClient replaces the transport, mainly for tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// AuthURL returns the dialog URL. Facebook expects comma separated scopes,
// so they are passed as a raw parameter instead of oauth2.Config.Scopes.
func (c *Client) AuthURL(state string, scopes []string) string {
	return c.oauth.AuthCodeURL(state,
		oauth2.SetAuthURLParam("scope", strings.Join(scopes, ",")),
	)
}

// ExchangeCode trades the authorization code for a short-lived user token.
func (c *Client) ExchangeCode(ctx context.Context, code string) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	token, err := c.oauth.Exchange(ctx, code)
	c.metrics.GraphRequest("exchange_code", err)
	if err != nil {
		if strings.Contains(err.Error(), "missing access_token") {
			return "", ErrNoAccessToken
		}
		var re *oauth2.RetrieveError
		if errors.As(err, &re) && re.Response != nil {
			return "", decodeGraphError(re.Response.StatusCode, re.Body)
		}
		return "", fmt.Errorf("failed to exchange code: %w", err)
	}
	if token.AccessToken == "" {
		return "", ErrNoAccessToken
	}
	return token.AccessToken, nil
}

// ListPages returns the Pages the user can manage, with page tokens.
func (c *Client) ListPages(ctx context.Context, userToken string) ([]Page, error) {
	var resp struct {
		Data []Page `json:"data"`
	}
	q := url.Values{
		"fields":       {"id,name,access_token"},
		"access_token": {userToken},
	}
	err := c.do(ctx, http.MethodGet, "/me/accounts", q, nil, &resp)
	c.metrics.GraphRequest("list_pages", err)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// ExchangeLongLivedToken extends a token to roughly sixty days.
func (c *Client) ExchangeLongLivedToken(ctx context.Context, token string) (*LongLivedToken, error) {
	var resp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	q := url.Values{
		"grant_type":        {"fb_exchange_token"},
		"client_id":         {c.appID},
		"client_secret":     {c.appSecret},
		"fb_exchange_token": {token},
	}
	err := c.do(ctx, http.MethodGet, "/oauth/access_token", q, nil, &resp)
	c.metrics.GraphRequest("exchange_long_lived", err)
	if err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, ErrNoAccessToken
	}

	ttl := DefaultLongLivedTTL
	if resp.ExpiresIn > 0 {
		ttl = time.Duration(resp.ExpiresIn) * time.Second
	}
	return &LongLivedToken{AccessToken: resp.AccessToken, ExpiresIn: ttl}, nil
}

// SubscribeApp subscribes the app to the Page's Messenger webhooks.
func (c *Client) SubscribeApp(ctx context.Context, pageID, pageToken string) error {
	form := url.Values{"subscribed_fields": {strings.Join(WebhookFields, ",")}}
	q := url.Values{"access_token": {pageToken}}
	var resp struct {
		Success bool `json:"success"`
	}
	err := c.do(ctx, http.MethodPost, "/"+url.PathEscape(pageID)+"/subscribed_apps", q, form, &resp)
	if err == nil && !resp.Success {
		err = errors.New("graph api: subscribe returned success=false")
	}
	c.metrics.GraphRequest("subscribe_app", err)
	return err
}

// UnsubscribeApp removes the app's webhook subscription from the Page.
func (c *Client) UnsubscribeApp(ctx context.Context, pageID, pageToken string) error {
	q := url.Values{"access_token": {pageToken}}
	err := c.do(ctx, http.MethodDelete, "/"+url.PathEscape(pageID)+"/subscribed_apps", q, nil, nil)
	c.metrics.GraphRequest("unsubscribe_app", err)
	return err
}

// PageName looks up the display name of a Page.
func (c *Client) PageName(ctx context.Context, pageID, pageToken string) (string, error) {
	var resp struct {
		Name string `json:"name"`
	}
	q := url.Values{
		"fields":       {"name"},
		"access_token": {pageToken},
	}
	err := c.do(ctx, http.MethodGet, "/"+url.PathEscape(pageID), q, nil, &resp)
	c.metrics.GraphRequest("page_name", err)
	if err != nil {
		return "", err
	}
	return resp.Name, nil
}

func (c *Client) do(ctx context.Context, method, path string, query, form url.Values, out interface{}) error {
	endpoint := c.graphURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// the URL carries tokens; keep it out of logs and errors
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		c.logger.Warnw("graph api request failed", "method", method, "path", path, "error", err)
		return fmt.Errorf("graph api %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		gerr := decodeGraphError(resp.StatusCode, data)
		c.logger.Warnw("graph api returned error",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
			"fbtrace_id", gerr.FBTraceID,
			"message", gerr.Message,
		)
		return gerr
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode graph response: %w", err)
	}
	return nil
}

func decodeGraphError(status int, body []byte) *GraphError {
	var envelope struct {
		Error *GraphError `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != nil {
		envelope.Error.StatusCode = status
		return envelope.Error
	}
	return &GraphError{StatusCode: status, Message: strings.TrimSpace(truncate(string(body), 200))}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..." + strconv.Itoa(len(s)-n) + " more bytes"
}
