package usecases

import (
	"context"
	"fmt"

	"github.com/ns-ai-search/console/internal/domain/website"
	"github.com/ns-ai-search/console/internal/shared/logger"
)

type DisconnectCommand struct {
	LicenseKey string
	Domain     string
}

type DisconnectResult struct {
	AlreadyDisconnected bool
}

// Message is the plugin-facing confirmation text.
func (r *DisconnectResult) Message() string {
	if r.AlreadyDisconnected {
		return "Messenger is already disconnected"
	}
	return "Messenger disconnected successfully"
}

type DisconnectUseCase struct {
	websites    WebsiteStore
	sideEffects *SideEffects
	logger      logger.Interface
}

func NewDisconnectUseCase(websites WebsiteStore, sideEffects *SideEffects, logger logger.Interface) *DisconnectUseCase {
	return &DisconnectUseCase{
		websites:    websites,
		sideEffects: sideEffects,
		logger:      logger,
	}
}

// Execute clears the binding. Calling it on a disconnected website succeeds
// without writing anything.
func (uc *DisconnectUseCase) Execute(ctx context.Context, cmd DisconnectCommand) (*DisconnectResult, error) {
	site, err := uc.websites.GetByCredentials(ctx, cmd.LicenseKey, cmd.Domain)
	if err != nil {
		uc.logger.Errorw("failed to look up website for disconnect", "error", err, "domain", cmd.Domain)
		return nil, fmt.Errorf("failed to get website: %w", err)
	}
	if site == nil {
		return nil, website.ErrWebsiteNotFound
	}

	if !site.HasMessengerState() {
		return &DisconnectResult{AlreadyDisconnected: true}, nil
	}

	b := site.Messenger()
	pageID := site.FacebookPageID()
	if b != nil && b.PageID != "" && b.PageAccessToken != "" {
		uc.sideEffects.Run(ctx, effectUnsubscribeWebhooks, func(ctx context.Context) error {
			return uc.sideEffects.graph.UnsubscribeApp(ctx, b.PageID, b.PageAccessToken)
		})
	}

	if err := uc.websites.ClearMessenger(ctx, site.ID()); err != nil {
		uc.logger.Errorw("failed to clear messenger binding", "error", err, "website_id", site.ID())
		return nil, fmt.Errorf("failed to clear messenger binding: %w", err)
	}
	site.DisconnectMessenger()

	uc.logger.Infow("messenger disconnected", "website_id", site.ID(), "page_id", pageID)

	uc.sideEffects.Disconnected(ctx, site, pageID)

	return &DisconnectResult{}, nil
}
