package usecases

import (
	"context"

	"github.com/ns-ai-search/console/internal/application/website/dto"
	"github.com/ns-ai-search/console/internal/domain/auditlog"
	"github.com/ns-ai-search/console/internal/domain/website"
	"github.com/ns-ai-search/console/internal/shared/biztime"
	"github.com/ns-ai-search/console/internal/shared/logger"
)

type RenewSubscriptionUseCase struct {
	repo    website.Repository
	audit   auditlog.Repository
	tx      Transactor
	credits CreditsPusher
	logger  logger.Interface
}

func NewRenewSubscriptionUseCase(
	repo website.Repository,
	audit auditlog.Repository,
	tx Transactor,
	credits CreditsPusher,
	logger logger.Interface,
) *RenewSubscriptionUseCase {
	return &RenewSubscriptionUseCase{
		repo:    repo,
		audit:   audit,
		tx:      tx,
		credits: credits,
		logger:  logger,
	}
}

// Execute starts a new period: fresh allowance, new plan, status ACTIVE.
func (uc *RenewSubscriptionUseCase) Execute(ctx context.Context, actor Actor, id uint, req dto.RenewSubscriptionRequest) (*dto.WebsiteResponse, error) {
	plan, err := website.ParsePlan(req.Plan)
	if err != nil {
		return nil, toAppError(err)
	}

	var w *website.Website
	err = uc.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		if w, err = lockWebsite(ctx, uc.repo, uc.logger, id); err != nil {
			return err
		}
		if err := w.Renew(req.SubscriptionStart, req.SubscriptionEnd, plan, req.CreditsTotal); err != nil {
			return err
		}
		if err := uc.repo.Update(ctx, w); err != nil {
			return err
		}
		entry, err := auditlog.NewEntry(&id, actor.ID, auditlog.ActionRenewSubscription, nil, map[string]any{
			"subscriptionStart": biztime.FormatDate(req.SubscriptionStart),
			"subscriptionEnd":   biztime.FormatDate(req.SubscriptionEnd),
			"creditsTotal":      req.CreditsTotal,
			"plan":              plan,
		}, "Manual subscription renewal")
		if err != nil {
			return err
		}
		return uc.audit.Create(ctx, entry)
	})
	if err != nil {
		return nil, wrapWriteError(uc.logger, "renew subscription", id, err)
	}

	uc.logger.Infow("subscription renewed",
		"website_id", id,
		"plan", plan,
		"subscription_end", req.SubscriptionEnd,
	)

	pushAllowance(ctx, uc.credits, uc.logger, w)

	resp := dto.ToWebsiteResponse(w)
	return &resp, nil
}
