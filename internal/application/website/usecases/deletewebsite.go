package usecases

import (
	"context"
	"errors"

	"github.com/ns-ai-search/console/internal/domain/website"
	"github.com/ns-ai-search/console/internal/shared/logger"
)

type DeleteWebsiteUseCase struct {
	repo   website.Repository
	logger logger.Interface
}

func NewDeleteWebsiteUseCase(repo website.Repository, logger logger.Interface) *DeleteWebsiteUseCase {
	return &DeleteWebsiteUseCase{
		repo:   repo,
		logger: logger,
	}
}

// Execute removes the website and, through the repository, its logs.
func (uc *DeleteWebsiteUseCase) Execute(ctx context.Context, id uint) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, website.ErrWebsiteNotFound) {
			return toAppError(err)
		}
		return wrapWriteError(uc.logger, "delete website", id, err)
	}
	uc.logger.Infow("website deleted", "website_id", id)
	return nil
}
