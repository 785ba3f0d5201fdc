package usecases

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/ns-ai-search/console/internal/domain/website"
	"github.com/ns-ai-search/console/internal/infrastructure/facebook"
	"github.com/ns-ai-search/console/internal/shared/biztime"
	"github.com/ns-ai-search/console/internal/shared/constants"
	"github.com/ns-ai-search/console/internal/shared/logger"
	"github.com/ns-ai-search/console/internal/shared/utils"
)

const oauthAccessDenied = "access_denied"

// HandleCallbackCommand carries the query of Facebook's redirect. Domain
// and RedirectURI are fallbacks some plugin versions append themselves.
type HandleCallbackCommand struct {
	Code        string
	State       string
	OAuthError  string
	Domain      string
	RedirectURI string
}

type HandleCallbackResult struct {
	RedirectURI string
	PageID      string
	PageName    string
	Message     string
}

// RedirectURL is the success redirect back to the plugin.
func (r *HandleCallbackResult) RedirectURL() string {
	return AppendQuery(r.RedirectURI, url.Values{
		"success":   {"true"},
		"message":   {r.Message},
		"page_id":   {r.PageID},
		"page_name": {r.PageName},
	})
}

type HandleCallbackUseCase struct {
	websites    WebsiteStore
	graph       GraphClient
	codec       StateCodec
	states      StateStore
	sideEffects *SideEffects
	metrics     ConnectMetrics
	logger      logger.Interface
}

func NewHandleCallbackUseCase(
	websites WebsiteStore,
	graph GraphClient,
	codec StateCodec,
	states StateStore,
	sideEffects *SideEffects,
	metrics ConnectMetrics,
	logger logger.Interface,
) *HandleCallbackUseCase {
	return &HandleCallbackUseCase{
		websites:    websites,
		graph:       graph,
		codec:       codec,
		states:      states,
		sideEffects: sideEffects,
		metrics:     metrics,
		logger:      logger,
	}
}

// Execute completes the connection. It returns ErrMissingCodeOrState or
// ErrInvalidState before a redirect target is trusted, and *ConnectError
// after that.
func (uc *HandleCallbackUseCase) Execute(ctx context.Context, cmd HandleCallbackCommand) (*HandleCallbackResult, error) {
	result, err := uc.execute(ctx, cmd)
	switch {
	case err == nil:
		uc.metrics.ConnectOutcome("callback", "success")
	case errors.Is(err, ErrMissingCodeOrState), errors.Is(err, ErrInvalidState):
		uc.metrics.ConnectOutcome("callback", "bad_request")
	default:
		if ce, ok := AsConnectError(err); ok {
			uc.metrics.ConnectOutcome("callback", string(ce.Code))
		}
	}
	return result, err
}

func (uc *HandleCallbackUseCase) execute(ctx context.Context, cmd HandleCallbackCommand) (*HandleCallbackResult, error) {
	if cmd.OAuthError != "" {
		return nil, uc.denied(cmd)
	}

	if cmd.Code == "" || cmd.State == "" {
		return nil, ErrMissingCodeOrState
	}

	state, err := uc.codec.Decode(cmd.State)
	if err != nil {
		uc.logger.Warnw("connect callback with undecodable state", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	if uc.states != nil {
		fresh, err := uc.states.Consume(ctx, cmd.State)
		switch {
		case err != nil:
			uc.logger.Warnw("failed to check connect state, replay check skipped", "error", err)
		case !fresh:
			uc.logger.Warnw("connect callback with reused or unknown state", "domain", state.Domain)
			return nil, fmt.Errorf("%w: state already used or expired", ErrInvalidState)
		}
	}

	redirectURI := FirstRedirect(state.RedirectURI, cmd.RedirectURI,
		DefaultRedirectURI(state.Domain), DefaultRedirectURI(cmd.Domain))
	log := uc.logger.With("domain", state.Domain)

	userToken, err := uc.graph.ExchangeCode(ctx, cmd.Code)
	if errors.Is(err, facebook.ErrNoAccessToken) || (err == nil && userToken == "") {
		return nil, newConnectError(constants.ConnectErrorNoAccessToken, redirectURI, err)
	}
	if err != nil {
		log.Warnw("authorization code exchange failed", "error", err)
		return nil, newConnectError(constants.ConnectErrorTokenExchangeFailed, redirectURI, err)
	}

	pages, err := uc.graph.ListPages(ctx, userToken)
	if err != nil {
		log.Warnw("failed to list facebook pages", "error", err)
		return nil, newConnectError(constants.ConnectErrorPagesFetchFailed, redirectURI, err)
	}
	if len(pages) == 0 {
		return nil, newConnectError(constants.ConnectErrorNoPages, redirectURI, nil)
	}
	// No page picker: the first managed page is bound.
	page := pages[0]

	site, err := uc.websites.GetByCredentials(ctx, state.LicenseKey, state.Domain)
	if err != nil {
		log.Errorw("failed to look up website", "error", err)
		return nil, newConnectError(constants.ConnectErrorServer, redirectURI, err)
	}
	if site == nil {
		log.Warnw("connect callback for unknown website", "license_key", utils.MaskSecret(state.LicenseKey))
		return nil, newConnectError(constants.ConnectErrorWebsiteNotFound, redirectURI, nil)
	}

	holder, err := uc.websites.GetByPageID(ctx, page.ID)
	if err != nil {
		log.Errorw("failed to look up page binding", "error", err, "page_id", page.ID)
		return nil, newConnectError(constants.ConnectErrorServer, redirectURI, err)
	}
	if holder != nil && holder.ID() != site.ID() {
		log.Warnw("facebook page already bound to another website", "page_id", page.ID, "holder_id", holder.ID())
		return nil, newConnectError(constants.ConnectErrorPageAlreadyConnected, redirectURI, website.ErrPageAlreadyConnected)
	}

	binding := website.MessengerBinding{
		PageID:   page.ID,
		PageName: page.Name,
	}
	binding.PageAccessToken, binding.TokenExpiresAt = uc.extendPageToken(ctx, log, page)

	// The repository re-checks ownership under a row lock; the read above
	// only avoids a pointless write.
	if err := uc.websites.BindMessenger(ctx, site.ID(), binding); err != nil {
		switch {
		case errors.Is(err, website.ErrPageAlreadyConnected):
			return nil, newConnectError(constants.ConnectErrorPageAlreadyConnected, redirectURI, err)
		case errors.Is(err, website.ErrWebsiteNotFound):
			return nil, newConnectError(constants.ConnectErrorWebsiteNotFound, redirectURI, err)
		default:
			log.Errorw("failed to persist messenger binding", "error", err, "website_id", site.ID())
			return nil, newConnectError(constants.ConnectErrorServer, redirectURI, err)
		}
	}
	if err := site.ConnectMessenger(binding); err != nil {
		log.Warnw("binding persisted but not applied in memory", "error", err)
	}

	log.Infow("messenger connected",
		"website_id", site.ID(),
		"page_id", page.ID,
		"token_expires_at", binding.TokenExpiresAt)

	uc.sideEffects.Connected(ctx, site, binding)

	return &HandleCallbackResult{
		RedirectURI: redirectURI,
		PageID:      page.ID,
		PageName:    page.Name,
		Message:     fmt.Sprintf("Successfully connected to Facebook Page: %s", page.Name),
	}, nil
}

// extendPageToken trades the page token for a long-lived one. Any failure
// keeps the original token with a one hour expiry.
func (uc *HandleCallbackUseCase) extendPageToken(ctx context.Context, log logger.Interface, page facebook.Page) (string, time.Time) {
	now := biztime.NowUTC()

	long, err := uc.graph.ExchangeLongLivedToken(ctx, page.AccessToken)
	if err != nil || long == nil || long.AccessToken == "" {
		log.Warnw("long-lived token exchange failed, keeping short-lived page token",
			"page_id", page.ID, "error", err)
		return page.AccessToken, now.Add(facebook.ShortLivedTTL)
	}

	ttl := long.ExpiresIn
	if ttl <= 0 {
		ttl = facebook.DefaultLongLivedTTL
	}
	return long.AccessToken, now.Add(ttl)
}

// denied handles an error redirect from the OAuth dialog. The state is
// decoded best-effort only to recover the redirect target.
func (uc *HandleCallbackUseCase) denied(cmd HandleCallbackCommand) *ConnectError {
	var state State
	if cmd.State != "" {
		if s, err := uc.codec.Decode(cmd.State); err == nil {
			state = s
		}
	}

	redirectURI := FirstRedirect(state.RedirectURI, cmd.RedirectURI,
		DefaultRedirectURI(state.Domain), DefaultRedirectURI(cmd.Domain))

	ce := newConnectError(constants.ConnectErrorOAuthDenied, redirectURI, nil)
	if cmd.OAuthError != oauthAccessDenied {
		ce.Message = cmd.OAuthError
	}
	uc.logger.Infow("facebook authorization not granted", "error", cmd.OAuthError, "domain", state.Domain)
	return ce
}
