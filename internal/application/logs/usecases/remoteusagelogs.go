package usecases

import (
	"context"
	"errors"

	"github.com/ns-ai-search/console/internal/application/logs/dto"
	"github.com/ns-ai-search/console/internal/domain/website"
	"github.com/ns-ai-search/console/internal/infrastructure/credits"
	apperrors "github.com/ns-ai-search/console/internal/shared/errors"
	"github.com/ns-ai-search/console/internal/shared/logger"
	"github.com/ns-ai-search/console/internal/shared/utils"
)

// UsageLogSource reads usage logs kept by the credits backend.
type UsageLogSource interface {
	UsageLogs(ctx context.Context, domain string, page, perPage int) (*credits.UsageLogPage, error)
}

type WebsiteFinder interface {
	GetByID(ctx context.Context, id uint) (*website.Website, error)
}

type GetRemoteUsageLogsUseCase struct {
	websites WebsiteFinder
	source   UsageLogSource
	logger   logger.Interface
}

func NewGetRemoteUsageLogsUseCase(websites WebsiteFinder, source UsageLogSource, logger logger.Interface) *GetRemoteUsageLogsUseCase {
	return &GetRemoteUsageLogsUseCase{
		websites: websites,
		source:   source,
		logger:   logger,
	}
}

func (uc *GetRemoteUsageLogsUseCase) Execute(ctx context.Context, websiteID uint, page, pageSize int) (*dto.RemoteUsageLogsResponse, error) {
	p := utils.ValidatePagination(page, defaultPageSize(pageSize))

	w, err := uc.websites.GetByID(ctx, websiteID)
	if err != nil {
		uc.logger.Errorw("failed to get website", "error", err, "website_id", websiteID)
		return nil, err
	}
	if w == nil {
		return nil, apperrors.NewNotFoundError("Website not found")
	}

	result, err := uc.source.UsageLogs(ctx, w.Domain(), p.Page, p.PageSize)
	if err != nil {
		uc.logger.Warnw("failed to fetch remote usage logs", "error", err, "domain", w.Domain())
		if errors.Is(err, credits.ErrNotConfigured) {
			return nil, apperrors.NewBadRequestError("Credits backend is not configured")
		}
		return nil, apperrors.NewUpstreamError("Failed to fetch usage logs from credits backend")
	}

	if result.Page > 0 {
		p.Page = result.Page
	}
	if result.PerPage > 0 {
		p.PageSize = result.PerPage
	}
	items := result.Logs
	if items == nil {
		items = []credits.UsageLog{}
	}

	return &dto.RemoteUsageLogsResponse{
		WebsiteID:  w.ID(),
		Domain:     w.Domain(),
		Items:      items,
		Total:      result.Total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: utils.TotalPages(result.Total, p.PageSize),
	}, nil
}
