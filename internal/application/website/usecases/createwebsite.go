package usecases

import (
	"context"
	"fmt"

	"github.com/ns-ai-search/console/internal/application/website/dto"
	"github.com/ns-ai-search/console/internal/domain/auditlog"
	"github.com/ns-ai-search/console/internal/domain/website"
	"github.com/ns-ai-search/console/internal/infrastructure/email"
	"github.com/ns-ai-search/console/internal/shared/logger"
)

// CreateWebsiteUseCase registers a website, records the audit entry and
// mirrors the allowance to the credits backend.
type CreateWebsiteUseCase struct {
	repo     website.Repository
	audit    auditlog.Repository
	tx       Transactor
	credits  CreditsPusher
	notifier WebsiteNotifier
	logger   logger.Interface
}

func NewCreateWebsiteUseCase(
	repo website.Repository,
	audit auditlog.Repository,
	tx Transactor,
	credits CreditsPusher,
	notifier WebsiteNotifier,
	logger logger.Interface,
) *CreateWebsiteUseCase {
	return &CreateWebsiteUseCase{
		repo:     repo,
		audit:    audit,
		tx:       tx,
		credits:  credits,
		notifier: notifier,
		logger:   logger,
	}
}

func (uc *CreateWebsiteUseCase) Execute(ctx context.Context, actor Actor, req dto.CreateWebsiteRequest) (*dto.WebsiteResponse, error) {
	plan, err := website.ParsePlan(req.Plan)
	if err != nil {
		return nil, toAppError(err)
	}
	creditsTotal := website.DefaultCredits(plan)
	if req.CreditsTotal != nil {
		creditsTotal = *req.CreditsTotal
	}

	exists, err := uc.repo.ExistsByDomain(ctx, req.Domain)
	if err != nil {
		uc.logger.Errorw("failed to check domain existence", "error", err, "domain", req.Domain)
		return nil, fmt.Errorf("failed to check domain existence: %w", err)
	}
	if exists {
		return nil, toAppError(website.ErrDomainTaken)
	}

	w, err := website.NewWebsite(req.Domain, req.Title, plan, creditsTotal)
	if err != nil {
		return nil, toAppError(err)
	}
	if req.SubscriptionStart != nil || req.SubscriptionEnd != nil {
		if err := w.SetSubscriptionPeriod(req.SubscriptionStart, req.SubscriptionEnd); err != nil {
			return nil, toAppError(err)
		}
	}

	err = uc.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := uc.repo.Create(ctx, w); err != nil {
			return err
		}
		id := w.ID()
		entry, err := auditlog.NewEntry(&id, actor.ID, auditlog.ActionWebsiteCreated, nil, map[string]any{
			"domain":       w.Domain(),
			"title":        w.Title(),
			"plan":         w.Plan(),
			"creditsTotal": w.CreditsTotal(),
		}, "Initial setup")
		if err != nil {
			return err
		}
		return uc.audit.Create(ctx, entry)
	})
	if err != nil {
		return nil, wrapWriteError(uc.logger, "create website", w.ID(), err)
	}

	uc.logger.Infow("website created",
		"website_id", w.ID(),
		"domain", w.Domain(),
		"plan", w.Plan(),
		"credits_total", w.CreditsTotal(),
	)

	pushAllowance(ctx, uc.credits, uc.logger, w)
	if err := uc.notifier.WebsiteCreated(ctx, email.WebsiteEvent{
		Domain:  w.Domain(),
		Title:   w.Title(),
		Plan:    w.Plan().String(),
		Credits: w.CreditsTotal(),
	}); err != nil {
		uc.logger.Warnw("failed to send website created notice", "error", err, "domain", w.Domain())
	}

	resp := dto.ToWebsiteResponse(w)
	return &resp, nil
}
