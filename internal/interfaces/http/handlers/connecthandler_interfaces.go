package handlers

import (
	"context"

	"github.com/ns-ai-search/console/internal/application/messenger/usecases"
)

// connectService is the Messenger connector as seen by ConnectHandler.
type connectService interface {
	InitiateConnect(ctx context.Context, cmd usecases.InitiateConnectCommand) (*usecases.InitiateConnectResult, error)
	HandleCallback(ctx context.Context, cmd usecases.HandleCallbackCommand) (*usecases.HandleCallbackResult, error)
	GetStatus(ctx context.Context, q usecases.GetStatusQuery) (*usecases.StatusResult, error)
	Disconnect(ctx context.Context, cmd usecases.DisconnectCommand) (*usecases.DisconnectResult, error)
}
