package messenger

import (
	"context"
	"time"

	"github.com/ns-ai-search/console/internal/application/messenger/usecases"
	"github.com/ns-ai-search/console/internal/shared/config"
	"github.com/ns-ai-search/console/internal/shared/logger"
)

// Dependencies groups the collaborators of the Messenger connector.
type Dependencies struct {
	Websites usecases.WebsiteStore
	Graph    usecases.GraphClient
	Credits  usecases.CreditsBackend
	Mailer   usecases.OpsMailer
	Audit    usecases.AuditRecorder
	Lookups  usecases.PageLookupCache
	Metrics  usecases.ConnectMetrics
	// States is only consulted when state signing is enabled.
	States usecases.StateStore
}

type ServiceDDD struct {
	logger logger.Interface

	initiate   *usecases.InitiateConnectUseCase
	callback   *usecases.HandleCallbackUseCase
	status     *usecases.GetStatusUseCase
	disconnect *usecases.DisconnectUseCase
}

func NewServiceDDD(deps Dependencies, fbConfig config.FacebookConfig, logger logger.Interface) *ServiceDDD {
	codec := NewStateCodec(fbConfig)
	var states usecases.StateStore
	if fbConfig.StateSigningSecret != "" {
		states = deps.States
	}
	sideEffects := usecases.NewSideEffects(deps.Graph, deps.Credits, deps.Mailer, deps.Audit, deps.Metrics, logger)

	return &ServiceDDD{
		logger: logger,

		initiate:   usecases.NewInitiateConnectUseCase(deps.Websites, deps.Graph, codec, states, fbConfig, deps.Metrics, logger),
		callback:   usecases.NewHandleCallbackUseCase(deps.Websites, deps.Graph, codec, states, sideEffects, deps.Metrics, logger),
		status:     usecases.NewGetStatusUseCase(deps.Websites, deps.Graph, deps.Lookups, deps.Metrics, logger),
		disconnect: usecases.NewDisconnectUseCase(deps.Websites, sideEffects, logger),
	}
}

// NewStateCodec signs the state when a secret is configured and falls back
// to the plain base64 JSON format older plugins decode themselves.
func NewStateCodec(fbConfig config.FacebookConfig) usecases.StateCodec {
	if fbConfig.StateSigningSecret == "" {
		return usecases.Base64JSONCodec{}
	}
	return usecases.NewSignedStateCodec(fbConfig.StateSigningSecret, time.Duration(fbConfig.StateTTLMinutes)*time.Minute)
}

func (s *ServiceDDD) InitiateConnect(ctx context.Context, cmd usecases.InitiateConnectCommand) (*usecases.InitiateConnectResult, error) {
	return s.initiate.Execute(ctx, cmd)
}

func (s *ServiceDDD) HandleCallback(ctx context.Context, cmd usecases.HandleCallbackCommand) (*usecases.HandleCallbackResult, error) {
	return s.callback.Execute(ctx, cmd)
}

func (s *ServiceDDD) GetStatus(ctx context.Context, q usecases.GetStatusQuery) (*usecases.StatusResult, error) {
	return s.status.Execute(ctx, q)
}

func (s *ServiceDDD) Disconnect(ctx context.Context, cmd usecases.DisconnectCommand) (*usecases.DisconnectResult, error) {
	return s.disconnect.Execute(ctx, cmd)
}
