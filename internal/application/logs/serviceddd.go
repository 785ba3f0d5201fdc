package logs

import (
	"context"

	"github.com/ns-ai-search/console/internal/application/logs/dto"
	"github.com/ns-ai-search/console/internal/application/logs/usecases"
	"github.com/ns-ai-search/console/internal/domain/auditlog"
	"github.com/ns-ai-search/console/internal/domain/usagelog"
	"github.com/ns-ai-search/console/internal/shared/logger"
)

type ServiceDDD struct {
	listAdminLogs   *usecases.ListAdminLogsUseCase
	listUsageLogs   *usecases.ListUsageLogsUseCase
	remoteUsageLogs *usecases.GetRemoteUsageLogsUseCase
}

func NewServiceDDD(
	auditRepo auditlog.Repository,
	usageRepo usagelog.Repository,
	websites usecases.WebsiteFinder,
	source usecases.UsageLogSource,
	logger logger.Interface,
) *ServiceDDD {
	return &ServiceDDD{
		listAdminLogs:   usecases.NewListAdminLogsUseCase(auditRepo, logger),
		listUsageLogs:   usecases.NewListUsageLogsUseCase(usageRepo, logger),
		remoteUsageLogs: usecases.NewGetRemoteUsageLogsUseCase(websites, source, logger),
	}
}

func (s *ServiceDDD) ListAdminLogs(ctx context.Context, req dto.ListAdminLogsRequest) (*dto.AdminLogsResponse, error) {
	return s.listAdminLogs.Execute(ctx, req)
}

func (s *ServiceDDD) ListUsageLogs(ctx context.Context, req dto.ListUsageLogsRequest) (*dto.UsageLogsResponse, error) {
	return s.listUsageLogs.Execute(ctx, req)
}

func (s *ServiceDDD) RemoteUsageLogs(ctx context.Context, websiteID uint, page, pageSize int) (*dto.RemoteUsageLogsResponse, error) {
	return s.remoteUsageLogs.Execute(ctx, websiteID, page, pageSize)
}
