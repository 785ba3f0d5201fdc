package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/ns-ai-search/console/internal/application/website/dto"
	"github.com/ns-ai-search/console/internal/domain/website"
	"github.com/ns-ai-search/console/internal/infrastructure/credits"
	apperrors "github.com/ns-ai-search/console/internal/shared/errors"
	"github.com/ns-ai-search/console/internal/shared/logger"
)

// SyncWebsiteUseCase pushes the stored allowance on demand. Unlike the
// pushes that follow other changes, a failure here is returned.
type SyncWebsiteUseCase struct {
	repo    website.Repository
	credits CreditsPusher
	logger  logger.Interface
}

func NewSyncWebsiteUseCase(repo website.Repository, credits CreditsPusher, logger logger.Interface) *SyncWebsiteUseCase {
	return &SyncWebsiteUseCase{
		repo:    repo,
		credits: credits,
		logger:  logger,
	}
}

func (uc *SyncWebsiteUseCase) Execute(ctx context.Context, id uint) (*dto.WebsiteResponse, error) {
	w, err := loadWebsite(ctx, uc.repo, uc.logger, id)
	if err != nil {
		return nil, err
	}

	if err := uc.credits.SetCredits(ctx, allowanceOf(w)); err != nil {
		uc.logger.Warnw("manual credits sync failed", "error", err, "website_id", id, "domain", w.Domain())
		var backendErr *credits.BackendError
		switch {
		case errors.Is(err, credits.ErrNotConfigured):
			return nil, apperrors.NewBadRequestError("Credits backend is not configured")
		case errors.As(err, &backendErr):
			return nil, apperrors.NewUpstreamError("Failed to sync with credits backend", backendErr.Message)
		default:
			return nil, apperrors.NewUpstreamError("Failed to sync with credits backend")
		}
	}

	// only last_sync is written; the rest of w may be stale by now
	w.MarkSynced()
	if err := uc.repo.UpdateLastSync(ctx, id, *w.LastSync()); err != nil {
		uc.logger.Errorw("failed to store sync time", "error", err, "website_id", id)
		return nil, fmt.Errorf("failed to update website: %w", err)
	}

	uc.logger.Infow("website synced", "website_id", id, "domain", w.Domain())

	resp := dto.ToWebsiteResponse(w)
	return &resp, nil
}
