package handlers

import (
	"context"

	"github.com/ns-ai-search/console/internal/application/website/dto"
	"github.com/ns-ai-search/console/internal/application/website/usecases"
	"github.com/ns-ai-search/console/internal/domain/website"
)

type websiteService interface {
	CreateWebsite(ctx context.Context, actor usecases.Actor, req dto.CreateWebsiteRequest) (*dto.WebsiteResponse, error)
	UpdateWebsite(ctx context.Context, actor usecases.Actor, id uint, req dto.UpdateWebsiteRequest) (*dto.WebsiteResponse, error)
	DeleteWebsite(ctx context.Context, id uint) error
	GetWebsite(ctx context.Context, id uint) (*dto.WebsiteDetailResponse, error)
	ListWebsites(ctx context.Context, req dto.ListWebsitesRequest) (*dto.ListWebsitesResponse, error)
	AdjustCredits(ctx context.Context, actor usecases.Actor, id uint, req dto.AdjustCreditsRequest) (*dto.WebsiteResponse, error)
	ResetCredits(ctx context.Context, actor usecases.Actor, id uint, req dto.ResetCreditsRequest) (*dto.WebsiteResponse, error)
	SyncWebsite(ctx context.Context, id uint) (*dto.WebsiteResponse, error)
	RenewSubscription(ctx context.Context, actor usecases.Actor, id uint, req dto.RenewSubscriptionRequest) (*dto.WebsiteResponse, error)
	RegenerateLicenseKey(ctx context.Context, actor usecases.Actor, id uint) (*dto.RegenerateLicenseKeyResponse, error)
	ListPlans() []website.PlanInfo
}
