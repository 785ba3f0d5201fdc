package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ns-ai-search/console/internal/domain/website"
	"github.com/ns-ai-search/console/internal/shared/config"
	"github.com/ns-ai-search/console/internal/shared/constants"
	"github.com/ns-ai-search/console/internal/shared/logger"
	"github.com/ns-ai-search/console/internal/shared/utils"
)

// defaultScopes are requested when configuration does not override them.
var defaultScopes = []string{
	"pages_messaging",
	"pages_manage_metadata",
	"business_management",
	"pages_show_list",
}

type InitiateConnectCommand struct {
	Domain      string
	LicenseKey  string
	RedirectURI string
}

type InitiateConnectResult struct {
	AuthURL string
	State   string
}

type InitiateConnectUseCase struct {
	websites WebsiteStore
	graph    GraphClient
	codec    StateCodec
	states   StateStore
	fbConfig config.FacebookConfig
	metrics  ConnectMetrics
	logger   logger.Interface
}

func NewInitiateConnectUseCase(
	websites WebsiteStore,
	graph GraphClient,
	codec StateCodec,
	states StateStore,
	fbConfig config.FacebookConfig,
	metrics ConnectMetrics,
	logger logger.Interface,
) *InitiateConnectUseCase {
	return &InitiateConnectUseCase{
		websites: websites,
		graph:    graph,
		codec:    codec,
		states:   states,
		fbConfig: fbConfig,
		metrics:  metrics,
		logger:   logger,
	}
}

// Execute validates the plugin's license and returns the Facebook
// authorization URL. Failures are *ConnectError values; the handler answers
// 400 JSON when their RedirectURI is empty.
func (uc *InitiateConnectUseCase) Execute(ctx context.Context, cmd InitiateConnectCommand) (*InitiateConnectResult, error) {
	redirectURI := FirstRedirect(cmd.RedirectURI, DefaultRedirectURI(cmd.Domain))

	result, err := uc.execute(ctx, cmd, redirectURI)
	if err != nil {
		if ce, ok := AsConnectError(err); ok {
			uc.metrics.ConnectOutcome("initiate", string(ce.Code))
		}
		return nil, err
	}
	uc.metrics.ConnectOutcome("initiate", "success")
	return result, nil
}

func (uc *InitiateConnectUseCase) execute(ctx context.Context, cmd InitiateConnectCommand, redirectURI string) (*InitiateConnectResult, error) {
	if strings.TrimSpace(cmd.Domain) == "" || strings.TrimSpace(cmd.LicenseKey) == "" {
		return nil, newConnectError(constants.ConnectErrorMissingParams, redirectURI, nil)
	}

	site, err := uc.websites.GetByLicenseKey(ctx, cmd.LicenseKey)
	if err != nil {
		uc.logger.Errorw("failed to look up website by license key", "error", err, "domain", cmd.Domain)
		return nil, newConnectError(constants.ConnectErrorServer, redirectURI, err)
	}
	if site == nil || !site.Matches(cmd.LicenseKey, cmd.Domain) {
		uc.logger.Warnw("connect initiate rejected: invalid license",
			"domain", cmd.Domain,
			"license_key", utils.MaskSecret(cmd.LicenseKey))
		return nil, newConnectError(constants.ConnectErrorInvalidLicense, redirectURI, nil)
	}

	switch err := site.CheckMessengerEligibility(); {
	case errors.Is(err, website.ErrPlanNotSupported):
		return nil, newConnectError(constants.ConnectErrorPlanNotSupported, redirectURI, err)
	case errors.Is(err, website.ErrAccountInactive):
		ce := newConnectError(constants.ConnectErrorAccountInactive, redirectURI, err)
		ce.Message = fmt.Sprintf("Account is %s", strings.ToLower(site.Status().String()))
		return nil, ce
	}

	if uc.fbConfig.AppID == "" {
		uc.logger.Errorw("facebook app id is not configured")
		return nil, newConnectError(constants.ConnectErrorConfig, redirectURI, nil)
	}

	state, err := uc.codec.Encode(State{
		Domain:      cmd.Domain,
		LicenseKey:  cmd.LicenseKey,
		RedirectURI: redirectURI,
	})
	if err != nil {
		uc.logger.Errorw("failed to encode connect state", "error", err)
		return nil, newConnectError(constants.ConnectErrorServer, redirectURI, err)
	}
	if uc.states != nil {
		if err := uc.states.Save(ctx, state, uc.stateTTL()); err != nil {
			uc.logger.Warnw("failed to record connect state, replay check skipped", "error", err)
		}
	}

	scopes := uc.fbConfig.Scopes
	if len(scopes) == 0 {
		scopes = defaultScopes
	}

	uc.logger.Infow("connect initiated", "website_id", site.ID(), "domain", site.Domain())

	return &InitiateConnectResult{
		AuthURL: uc.graph.AuthURL(state, scopes),
		State:   state,
	}, nil
}

func (uc *InitiateConnectUseCase) stateTTL() time.Duration {
	if uc.fbConfig.StateTTLMinutes <= 0 {
		return 15 * time.Minute
	}
	return time.Duration(uc.fbConfig.StateTTLMinutes) * time.Minute
}
