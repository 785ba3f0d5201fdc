package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ns-ai-search/console/internal/application/logs/dto"
	"github.com/ns-ai-search/console/internal/shared/constants"
	"github.com/ns-ai-search/console/internal/shared/logger"
	"github.com/ns-ai-search/console/internal/shared/utils"
)

type logService interface {
	ListAdminLogs(ctx context.Context, req dto.ListAdminLogsRequest) (*dto.AdminLogsResponse, error)
	ListUsageLogs(ctx context.Context, req dto.ListUsageLogsRequest) (*dto.UsageLogsResponse, error)
	RemoteUsageLogs(ctx context.Context, websiteID uint, page, pageSize int) (*dto.RemoteUsageLogsResponse, error)
}

// LogHandler serves the audit trail and usage logs.
type LogHandler struct {
	service logService
	logger  logger.Interface
}

func NewLogHandler(service logService, logger logger.Interface) *LogHandler {
	return &LogHandler{
		service: service,
		logger:  logger,
	}
}

// ListAdminLogs handles GET /api/admin/logs
// @Summary List admin logs
// @Tags Logs
// @Produce json
// @Param website_id query int false "Website ID"
// @Param action query string false "Action substring"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size (default 50)"
// @Success 200 {object} utils.APIResponse{data=utils.ListResponse}
// @Security Bearer
// @Router /api/admin/logs [get]
func (h *LogHandler) ListAdminLogs(c *gin.Context) {
	var req dto.ListAdminLogsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.BindErrorResponse(c, err)
		return
	}

	result, err := h.service.ListAdminLogs(c.Request.Context(), req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.ListSuccessResponse(c, result.Items, result.Total, result.Page, result.PageSize)
}

// ListUsageLogs handles GET /api/admin/usage-logs
// @Summary List usage logs stored by the console
// @Tags Logs
// @Produce json
// @Param website_id query int false "Website ID"
// @Param operation query string false "content or query"
// @Success 200 {object} utils.APIResponse{data=utils.ListResponse}
// @Security Bearer
// @Router /api/admin/usage-logs [get]
func (h *LogHandler) ListUsageLogs(c *gin.Context) {
	var req dto.ListUsageLogsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.BindErrorResponse(c, err)
		return
	}

	result, err := h.service.ListUsageLogs(c.Request.Context(), req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.ListSuccessResponse(c, result.Items, result.Total, result.Page, result.PageSize)
}

// RemoteUsageLogs handles GET /api/admin/websites/:id/usage-logs
// @Summary Usage logs held by the credits backend
// @Tags Logs
// @Produce json
// @Param id path int true "Website ID"
// @Param page query int false "Page number"
// @Param per_page query int false "Page size (default 50)"
// @Success 200 {object} utils.APIResponse{data=dto.RemoteUsageLogsResponse}
// @Failure 502 {object} utils.APIResponse
// @Security Bearer
// @Router /api/admin/websites/{id}/usage-logs [get]
func (h *LogHandler) RemoteUsageLogs(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id", "website")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	p := utils.ParsePagination(c, constants.LogsPageSize)

	result, err := h.service.RemoteUsageLogs(c.Request.Context(), id, p.Page, p.PageSize)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", result)
}
