package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ns-ai-search/console/internal/application/dashboard"
	"github.com/ns-ai-search/console/internal/shared/logger"
	"github.com/ns-ai-search/console/internal/shared/utils"
)

type getDashboardUseCase interface {
	Execute(ctx context.Context) (*dashboard.Response, error)
}

// DashboardHandler handles the console overview
type DashboardHandler struct {
	getDashboardUseCase getDashboardUseCase
	logger              logger.Interface
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(getDashboardUseCase getDashboardUseCase, logger logger.Interface) *DashboardHandler {
	return &DashboardHandler{
		getDashboardUseCase: getDashboardUseCase,
		logger:              logger,
	}
}

// GetDashboard handles GET /api/admin/dashboard
// @Summary Console overview
// @Tags Dashboard
// @Produce json
// @Success 200 {object} utils.APIResponse{data=dashboard.Response}
// @Security Bearer
// @Router /api/admin/dashboard [get]
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	result, err := h.getDashboardUseCase.Execute(c.Request.Context())
	if err != nil {
		h.logger.Errorw("failed to get dashboard", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
