package website

import (
	"context"

	"github.com/ns-ai-search/console/internal/application/website/dto"
	"github.com/ns-ai-search/console/internal/application/website/usecases"
	"github.com/ns-ai-search/console/internal/domain/auditlog"
	"github.com/ns-ai-search/console/internal/domain/usagelog"
	"github.com/ns-ai-search/console/internal/domain/website"
	"github.com/ns-ai-search/console/internal/shared/logger"
)

type ServiceDDD struct {
	logger logger.Interface

	createWebsite *usecases.CreateWebsiteUseCase
	updateWebsite *usecases.UpdateWebsiteUseCase
	deleteWebsite *usecases.DeleteWebsiteUseCase
	getWebsite    *usecases.GetWebsiteUseCase
	listWebsites  *usecases.ListWebsitesUseCase

	adjustCredits *usecases.AdjustCreditsUseCase
	resetCredits  *usecases.ResetCreditsUseCase
	syncWebsite   *usecases.SyncWebsiteUseCase

	renewSubscription    *usecases.RenewSubscriptionUseCase
	regenerateLicenseKey *usecases.RegenerateLicenseKeyUseCase
}

func NewServiceDDD(
	websiteRepo website.Repository,
	auditRepo auditlog.Repository,
	usageRepo usagelog.Repository,
	tx usecases.Transactor,
	credits usecases.CreditsPusher,
	notifier usecases.WebsiteNotifier,
	logger logger.Interface,
) *ServiceDDD {
	return &ServiceDDD{
		logger: logger,

		createWebsite: usecases.NewCreateWebsiteUseCase(websiteRepo, auditRepo, tx, credits, notifier, logger),
		updateWebsite: usecases.NewUpdateWebsiteUseCase(websiteRepo, auditRepo, tx, credits, logger),
		deleteWebsite: usecases.NewDeleteWebsiteUseCase(websiteRepo, logger),
		getWebsite:    usecases.NewGetWebsiteUseCase(websiteRepo, usageRepo, auditRepo, logger),
		listWebsites:  usecases.NewListWebsitesUseCase(websiteRepo, logger),

		adjustCredits: usecases.NewAdjustCreditsUseCase(websiteRepo, auditRepo, tx, credits, logger),
		resetCredits:  usecases.NewResetCreditsUseCase(websiteRepo, auditRepo, tx, credits, logger),
		syncWebsite:   usecases.NewSyncWebsiteUseCase(websiteRepo, credits, logger),

		renewSubscription:    usecases.NewRenewSubscriptionUseCase(websiteRepo, auditRepo, tx, credits, logger),
		regenerateLicenseKey: usecases.NewRegenerateLicenseKeyUseCase(websiteRepo, auditRepo, tx, logger),
	}
}

func (s *ServiceDDD) CreateWebsite(ctx context.Context, actor usecases.Actor, req dto.CreateWebsiteRequest) (*dto.WebsiteResponse, error) {
	return s.createWebsite.Execute(ctx, actor, req)
}

func (s *ServiceDDD) UpdateWebsite(ctx context.Context, actor usecases.Actor, id uint, req dto.UpdateWebsiteRequest) (*dto.WebsiteResponse, error) {
	return s.updateWebsite.Execute(ctx, actor, id, req)
}

func (s *ServiceDDD) DeleteWebsite(ctx context.Context, id uint) error {
	return s.deleteWebsite.Execute(ctx, id)
}

func (s *ServiceDDD) GetWebsite(ctx context.Context, id uint) (*dto.WebsiteDetailResponse, error) {
	return s.getWebsite.Execute(ctx, id)
}

func (s *ServiceDDD) ListWebsites(ctx context.Context, req dto.ListWebsitesRequest) (*dto.ListWebsitesResponse, error) {
	return s.listWebsites.Execute(ctx, req)
}

func (s *ServiceDDD) AdjustCredits(ctx context.Context, actor usecases.Actor, id uint, req dto.AdjustCreditsRequest) (*dto.WebsiteResponse, error) {
	return s.adjustCredits.Execute(ctx, actor, id, req)
}

func (s *ServiceDDD) ResetCredits(ctx context.Context, actor usecases.Actor, id uint, req dto.ResetCreditsRequest) (*dto.WebsiteResponse, error) {
	return s.resetCredits.Execute(ctx, actor, id, req)
}

func (s *ServiceDDD) SyncWebsite(ctx context.Context, id uint) (*dto.WebsiteResponse, error) {
	return s.syncWebsite.Execute(ctx, id)
}

func (s *ServiceDDD) RenewSubscription(ctx context.Context, actor usecases.Actor, id uint, req dto.RenewSubscriptionRequest) (*dto.WebsiteResponse, error) {
	return s.renewSubscription.Execute(ctx, actor, id, req)
}

func (s *ServiceDDD) RegenerateLicenseKey(ctx context.Context, actor usecases.Actor, id uint) (*dto.RegenerateLicenseKeyResponse, error) {
	return s.regenerateLicenseKey.Execute(ctx, actor, id)
}

func (s *ServiceDDD) ListPlans() []website.PlanInfo {
	return usecases.ListPlans()
}
