package usecases

import (
	"context"
	"fmt"

	"github.com/ns-ai-search/console/internal/application/website/dto"
	"github.com/ns-ai-search/console/internal/domain/auditlog"
	"github.com/ns-ai-search/console/internal/domain/website"
	apperrors "github.com/ns-ai-search/console/internal/shared/errors"
	"github.com/ns-ai-search/console/internal/shared/logger"
)

// AdjustCreditsUseCase adds or deducts credits by hand.
type AdjustCreditsUseCase struct {
	repo    website.Repository
	audit   auditlog.Repository
	tx      Transactor
	credits CreditsPusher
	logger  logger.Interface
}

func NewAdjustCreditsUseCase(
	repo website.Repository,
	audit auditlog.Repository,
	tx Transactor,
	credits CreditsPusher,
	logger logger.Interface,
) *AdjustCreditsUseCase {
	return &AdjustCreditsUseCase{
		repo:    repo,
		audit:   audit,
		tx:      tx,
		credits: credits,
		logger:  logger,
	}
}

func (uc *AdjustCreditsUseCase) Execute(ctx context.Context, actor Actor, id uint, req dto.AdjustCreditsRequest) (*dto.WebsiteResponse, error) {
	action := auditlog.ActionCreditsAdd
	apply := (*website.Website).AddCredits
	switch req.Operation {
	case dto.CreditOperationAdd:
	case dto.CreditOperationDeduct:
		action = auditlog.ActionCreditsDeduct
		apply = (*website.Website).DeductCredits
	default:
		return nil, apperrors.NewValidationError("operation must be add or deduct")
	}

	reason := req.Reason
	if reason == "" {
		reason = fmt.Sprintf("Credits %sed by admin", req.Operation)
	}

	var w *website.Website
	err := uc.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		if w, err = lockWebsite(ctx, uc.repo, uc.logger, id); err != nil {
			return err
		}
		old := map[string]any{
			"creditsRemaining": w.CreditsRemaining(),
			"creditsTotal":     w.CreditsTotal(),
		}
		if err := apply(w, req.Amount); err != nil {
			return err
		}
		if err := uc.repo.Update(ctx, w); err != nil {
			return err
		}
		entry, err := auditlog.NewEntry(&id, actor.ID, action, old, map[string]any{
			"creditsRemaining": w.CreditsRemaining(),
			"creditsTotal":     w.CreditsTotal(),
		}, reason)
		if err != nil {
			return err
		}
		return uc.audit.Create(ctx, entry)
	})
	if err != nil {
		return nil, wrapWriteError(uc.logger, "adjust credits", id, err)
	}

	uc.logger.Infow("credits adjusted",
		"website_id", id,
		"operation", req.Operation,
		"amount", req.Amount,
		"credits_remaining", w.CreditsRemaining(),
	)

	pushAllowance(ctx, uc.credits, uc.logger, w)

	resp := dto.ToWebsiteResponse(w)
	return &resp, nil
}
