package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/ns-ai-search/console/internal/application/website/dto"
	"github.com/ns-ai-search/console/internal/domain/website"
	"github.com/ns-ai-search/console/internal/shared/logger"
	"github.com/ns-ai-search/console/internal/shared/utils"
)

type ListWebsitesUseCase struct {
	repo   website.Repository
	logger logger.Interface
}

func NewListWebsitesUseCase(repo website.Repository, logger logger.Interface) *ListWebsitesUseCase {
	return &ListWebsitesUseCase{
		repo:   repo,
		logger: logger,
	}
}

// Execute lists websites newest first.
func (uc *ListWebsitesUseCase) Execute(ctx context.Context, req dto.ListWebsitesRequest) (*dto.ListWebsitesResponse, error) {
	p := utils.ValidatePagination(req.Page, req.PageSize)

	sites, total, err := uc.repo.List(ctx, website.ListFilter{
		Page:     p.Page,
		PageSize: p.PageSize,
		Status:   req.Status,
		Plan:     req.Plan,
		Search:   strings.TrimSpace(req.Search),
	})
	if err != nil {
		uc.logger.Errorw("failed to list websites", "error", err)
		return nil, fmt.Errorf("failed to list websites: %w", err)
	}

	return &dto.ListWebsitesResponse{
		Items:      dto.ToWebsiteResponses(sites),
		Total:      total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: utils.TotalPages(total, p.PageSize),
	}, nil
}

// ListPlans returns the plan catalog with default credits.
func ListPlans() []website.PlanInfo {
	return website.Catalog()
}
