package usecases

import (
	"context"

	"github.com/ns-ai-search/console/internal/application/website/dto"
	"github.com/ns-ai-search/console/internal/domain/auditlog"
	"github.com/ns-ai-search/console/internal/domain/website"
	"github.com/ns-ai-search/console/internal/shared/logger"
)

type UpdateWebsiteUseCase struct {
	repo    website.Repository
	audit   auditlog.Repository
	tx      Transactor
	credits CreditsPusher
	logger  logger.Interface
}

func NewUpdateWebsiteUseCase(
	repo website.Repository,
	audit auditlog.Repository,
	tx Transactor,
	credits CreditsPusher,
	logger logger.Interface,
) *UpdateWebsiteUseCase {
	return &UpdateWebsiteUseCase{
		repo:    repo,
		audit:   audit,
		tx:      tx,
		credits: credits,
		logger:  logger,
	}
}

// Execute applies title/plan/status changes. The credits backend is told
// about plan changes only.
func (uc *UpdateWebsiteUseCase) Execute(ctx context.Context, actor Actor, id uint, req dto.UpdateWebsiteRequest) (*dto.WebsiteResponse, error) {
	var plan *website.Plan
	if req.Plan != nil {
		p, err := website.ParsePlan(*req.Plan)
		if err != nil {
			return nil, toAppError(err)
		}
		plan = &p
	}
	var status *website.Status
	if req.Status != nil {
		s, err := website.ParseStatus(*req.Status)
		if err != nil {
			return nil, toAppError(err)
		}
		status = &s
	}

	var (
		w       *website.Website
		changes website.Changes
	)
	err := uc.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		if w, err = lockWebsite(ctx, uc.repo, uc.logger, id); err != nil {
			return err
		}
		if changes, err = w.Update(req.Title, plan, status); err != nil {
			return toAppError(err)
		}
		if changes.Empty() {
			return nil
		}
		if err := uc.repo.Update(ctx, w); err != nil {
			return err
		}
		entry, err := auditlog.NewEntry(&id, actor.ID, auditlog.ActionWebsiteUpdated, changes.Old, changes.New, "Manual update")
		if err != nil {
			return err
		}
		return uc.audit.Create(ctx, entry)
	})
	if err != nil {
		return nil, wrapWriteError(uc.logger, "update website", id, err)
	}

	if _, planChanged := changes.New["plan"]; planChanged {
		pushAllowance(ctx, uc.credits, uc.logger, w)
	}

	uc.logger.Infow("website updated", "website_id", id, "changes", changes.New)

	resp := dto.ToWebsiteResponse(w)
	return &resp, nil
}
