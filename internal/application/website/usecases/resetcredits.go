package usecases

import (
	"context"

	"github.com/ns-ai-search/console/internal/application/website/dto"
	"github.com/ns-ai-search/console/internal/domain/auditlog"
	"github.com/ns-ai-search/console/internal/domain/website"
	"github.com/ns-ai-search/console/internal/shared/logger"
)

type ResetCreditsUseCase struct {
	repo    website.Repository
	audit   auditlog.Repository
	tx      Transactor
	credits CreditsPusher
	logger  logger.Interface
}

func NewResetCreditsUseCase(
	repo website.Repository,
	audit auditlog.Repository,
	tx Transactor,
	credits CreditsPusher,
	logger logger.Interface,
) *ResetCreditsUseCase {
	return &ResetCreditsUseCase{
		repo:    repo,
		audit:   audit,
		tx:      tx,
		credits: credits,
		logger:  logger,
	}
}

// Execute restores the full allowance and moves the next reset to the
// start of next month.
func (uc *ResetCreditsUseCase) Execute(ctx context.Context, actor Actor, id uint, req dto.ResetCreditsRequest) (*dto.WebsiteResponse, error) {
	reason := req.Reason
	if reason == "" {
		reason = "Manual credit reset"
	}

	var w *website.Website
	err := uc.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		if w, err = lockWebsite(ctx, uc.repo, uc.logger, id); err != nil {
			return err
		}
		old := map[string]any{
			"creditsRemaining": w.CreditsRemaining(),
			"creditsUsed":      w.CreditsUsed(),
		}
		w.ResetCredits()
		if err := uc.repo.Update(ctx, w); err != nil {
			return err
		}
		entry, err := auditlog.NewEntry(&id, actor.ID, auditlog.ActionCreditsReset, old, map[string]any{
			"creditsRemaining": w.CreditsRemaining(),
			"creditsUsed":      w.CreditsUsed(),
		}, reason)
		if err != nil {
			return err
		}
		return uc.audit.Create(ctx, entry)
	})
	if err != nil {
		return nil, wrapWriteError(uc.logger, "reset credits", id, err)
	}

	uc.logger.Infow("credits reset", "website_id", id, "credits_total", w.CreditsTotal())

	pushAllowance(ctx, uc.credits, uc.logger, w)

	resp := dto.ToWebsiteResponse(w)
	return &resp, nil
}
