package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/ns-ai-search/console/internal/application/logs/dto"
	"github.com/ns-ai-search/console/internal/domain/auditlog"
	"github.com/ns-ai-search/console/internal/domain/usagelog"
	"github.com/ns-ai-search/console/internal/shared/constants"
	"github.com/ns-ai-search/console/internal/shared/logger"
	"github.com/ns-ai-search/console/internal/shared/utils"
)

// ListAdminLogsUseCase pages through the audit trail, newest first.
type ListAdminLogsUseCase struct {
	repo   auditlog.Repository
	logger logger.Interface
}

func NewListAdminLogsUseCase(repo auditlog.Repository, logger logger.Interface) *ListAdminLogsUseCase {
	return &ListAdminLogsUseCase{
		repo:   repo,
		logger: logger,
	}
}

func (uc *ListAdminLogsUseCase) Execute(ctx context.Context, req dto.ListAdminLogsRequest) (*dto.AdminLogsResponse, error) {
	p := utils.ValidatePagination(req.Page, defaultPageSize(req.PageSize))

	entries, total, err := uc.repo.List(ctx, auditlog.ListFilter{
		Page:      p.Page,
		PageSize:  p.PageSize,
		WebsiteID: req.WebsiteID,
		Action:    strings.TrimSpace(req.Action),
	})
	if err != nil {
		uc.logger.Errorw("failed to list admin logs", "error", err)
		return nil, fmt.Errorf("failed to list admin logs: %w", err)
	}
	if entries == nil {
		entries = []*auditlog.EntryView{}
	}

	return &dto.AdminLogsResponse{
		Items:      entries,
		Total:      total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: utils.TotalPages(total, p.PageSize),
	}, nil
}

// ListUsageLogsUseCase pages through the usage logs stored in the console
// database.
type ListUsageLogsUseCase struct {
	repo   usagelog.Repository
	logger logger.Interface
}

func NewListUsageLogsUseCase(repo usagelog.Repository, logger logger.Interface) *ListUsageLogsUseCase {
	return &ListUsageLogsUseCase{
		repo:   repo,
		logger: logger,
	}
}

func (uc *ListUsageLogsUseCase) Execute(ctx context.Context, req dto.ListUsageLogsRequest) (*dto.UsageLogsResponse, error) {
	p := utils.ValidatePagination(req.Page, defaultPageSize(req.PageSize))

	entries, total, err := uc.repo.List(ctx, usagelog.ListFilter{
		Page:      p.Page,
		PageSize:  p.PageSize,
		WebsiteID: req.WebsiteID,
		Operation: req.Operation,
	})
	if err != nil {
		uc.logger.Errorw("failed to list usage logs", "error", err)
		return nil, fmt.Errorf("failed to list usage logs: %w", err)
	}
	if entries == nil {
		entries = []*usagelog.Entry{}
	}

	return &dto.UsageLogsResponse{
		Items:      entries,
		Total:      total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: utils.TotalPages(total, p.PageSize),
	}, nil
}

func defaultPageSize(n int) int {
	if n <= 0 {
		return constants.LogsPageSize
	}
	return n
}
