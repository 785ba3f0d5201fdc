package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ns-ai-search/console/internal/application/website/dto"
	"github.com/ns-ai-search/console/internal/application/website/usecases"
	"github.com/ns-ai-search/console/internal/shared/logger"
	"github.com/ns-ai-search/console/internal/shared/utils"
)

// WebsiteHandler serves the staff API for managing customer websites.
type WebsiteHandler struct {
	service websiteService
	logger  logger.Interface
}

func NewWebsiteHandler(service websiteService, logger logger.Interface) *WebsiteHandler {
	return &WebsiteHandler{
		service: service,
		logger:  logger,
	}
}

func (h *WebsiteHandler) actor(c *gin.Context) (usecases.Actor, error) {
	userID, err := getUserIDFromContext(c, h.logger)
	if err != nil {
		return usecases.Actor{}, err
	}
	return usecases.Actor{ID: &userID}, nil
}

// ListWebsites handles GET /api/admin/websites
// @Summary List websites
// @Tags Websites
// @Produce json
// @Param status query string false "ACTIVE, INACTIVE or SUSPENDED"
// @Param plan query string false "FREE, BASIC, PRO or ENTERPRISE"
// @Param search query string false "Domain or title substring"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} utils.APIResponse{data=dto.ListWebsitesResponse}
// @Security Bearer
// @Router /api/admin/websites [get]
func (h *WebsiteHandler) ListWebsites(c *gin.Context) {
	var req dto.ListWebsitesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.BindErrorResponse(c, err)
		return
	}
	if req.PageSize == 0 {
		req.PageSize = utils.ParsePagination(c, 0).PageSize
	}

	result, err := h.service.ListWebsites(c.Request.Context(), req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.ListSuccessResponse(c, result.Items, result.Total, result.Page, result.PageSize)
}

// GetWebsite handles GET /api/admin/websites/:id
// @Summary Website details with recent usage and admin logs
// @Tags Websites
// @Produce json
// @Param id path int true "Website ID"
// @Success 200 {object} utils.APIResponse{data=dto.WebsiteDetailResponse}
// @Failure 404 {object} utils.APIResponse
// @Security Bearer
// @Router /api/admin/websites/{id} [get]
func (h *WebsiteHandler) GetWebsite(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id", "website")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.service.GetWebsite(c.Request.Context(), id)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// CreateWebsite handles POST /api/admin/websites
// @Summary Create website
// @Tags Websites
// @Accept json
// @Produce json
// @Param request body dto.CreateWebsiteRequest true "Website"
// @Success 201 {object} utils.APIResponse{data=dto.WebsiteResponse}
// @Failure 400 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Security Bearer
// @Router /api/admin/websites [post]
func (h *WebsiteHandler) CreateWebsite(c *gin.Context) {
	actor, err := h.actor(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req dto.CreateWebsiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create website", "error", err)
		utils.BindErrorResponse(c, err)
		return
	}

	result, err := h.service.CreateWebsite(c.Request.Context(), actor, req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.CreatedResponse(c, result, "Website created successfully")
}

// UpdateWebsite handles PATCH /api/admin/websites/:id
// @Summary Update title, plan or status
// @Tags Websites
// @Accept json
// @Produce json
// @Param id path int true "Website ID"
// @Param request body dto.UpdateWebsiteRequest true "Fields to change"
// @Success 200 {object} utils.APIResponse{data=dto.WebsiteResponse}
// @Security Bearer
// @Router /api/admin/websites/{id} [patch]
func (h *WebsiteHandler) UpdateWebsite(c *gin.Context) {
	id, actor, ok := h.target(c)
	if !ok {
		return
	}

	var req dto.UpdateWebsiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BindErrorResponse(c, err)
		return
	}

	result, err := h.service.UpdateWebsite(c.Request.Context(), actor, id, req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Website updated successfully", result)
}

// DeleteWebsite handles DELETE /api/admin/websites/:id
// @Summary Delete website and its logs
// @Tags Websites
// @Param id path int true "Website ID"
// @Success 204
// @Security Bearer
// @Router /api/admin/websites/{id} [delete]
func (h *WebsiteHandler) DeleteWebsite(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id", "website")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.service.DeleteWebsite(c.Request.Context(), id); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.NoContentResponse(c)
}

// AdjustCredits handles POST /api/admin/websites/:id/credits
// @Summary Add or deduct credits
// @Tags Websites
// @Accept json
// @Produce json
// @Param id path int true "Website ID"
// @Param request body dto.AdjustCreditsRequest true "Adjustment"
// @Success 200 {object} utils.APIResponse{data=dto.WebsiteResponse}
// @Security Bearer
// @Router /api/admin/websites/{id}/credits [post]
func (h *WebsiteHandler) AdjustCredits(c *gin.Context) {
	id, actor, ok := h.target(c)
	if !ok {
		return
	}

	var req dto.AdjustCreditsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BindErrorResponse(c, err)
		return
	}

	result, err := h.service.AdjustCredits(c.Request.Context(), actor, id, req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Credits updated successfully", result)
}

// ResetCredits handles POST /api/admin/websites/:id/credits/reset
// @Summary Reset remaining credits to the total
// @Tags Websites
// @Param id path int true "Website ID"
// @Param request body dto.ResetCreditsRequest false "Reason"
// @Success 200 {object} utils.APIResponse{data=dto.WebsiteResponse}
// @Security Bearer
// @Router /api/admin/websites/{id}/credits/reset [post]
func (h *WebsiteHandler) ResetCredits(c *gin.Context) {
	id, actor, ok := h.target(c)
	if !ok {
		return
	}

	var req dto.ResetCreditsRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BindErrorResponse(c, err)
			return
		}
	}

	result, err := h.service.ResetCredits(c.Request.Context(), actor, id, req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Credits reset successfully", result)
}

// SyncWebsite handles POST /api/admin/websites/:id/sync
// @Summary Push the credit allowance to the credits backend
// @Tags Websites
// @Param id path int true "Website ID"
// @Success 200 {object} utils.APIResponse{data=dto.WebsiteResponse}
// @Failure 502 {object} utils.APIResponse
// @Security Bearer
// @Router /api/admin/websites/{id}/sync [post]
func (h *WebsiteHandler) SyncWebsite(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id", "website")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.service.SyncWebsite(c.Request.Context(), id)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Website synced successfully", result)
}

// RenewSubscription handles POST /api/admin/websites/:id/renew
// @Summary Renew the subscription period
// @Tags Websites
// @Accept json
// @Param id path int true "Website ID"
// @Param request body dto.RenewSubscriptionRequest true "New period"
// @Success 200 {object} utils.APIResponse{data=dto.WebsiteResponse}
// @Security Bearer
// @Router /api/admin/websites/{id}/renew [post]
func (h *WebsiteHandler) RenewSubscription(c *gin.Context) {
	id, actor, ok := h.target(c)
	if !ok {
		return
	}

	var req dto.RenewSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BindErrorResponse(c, err)
		return
	}

	result, err := h.service.RenewSubscription(c.Request.Context(), actor, id, req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Subscription renewed successfully", result)
}

// RegenerateLicenseKey handles POST /api/admin/websites/:id/license-key
// @Summary Issue a new license key
// @Tags Websites
// @Param id path int true "Website ID"
// @Success 200 {object} utils.APIResponse{data=dto.RegenerateLicenseKeyResponse}
// @Security Bearer
// @Router /api/admin/websites/{id}/license-key [post]
func (h *WebsiteHandler) RegenerateLicenseKey(c *gin.Context) {
	id, actor, ok := h.target(c)
	if !ok {
		return
	}

	result, err := h.service.RegenerateLicenseKey(c.Request.Context(), actor, id)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "License key regenerated successfully", result)
}

// ListPlans handles GET /api/admin/plans
// @Summary Plan catalog with default credits
// @Tags Websites
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security Bearer
// @Router /api/admin/plans [get]
func (h *WebsiteHandler) ListPlans(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "", h.service.ListPlans())
}

// target parses the website id and the acting staff user, writing the error
// response itself when either is missing.
func (h *WebsiteHandler) target(c *gin.Context) (uint, usecases.Actor, bool) {
	id, err := utils.ParseIDParam(c, "id", "website")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return 0, usecases.Actor{}, false
	}
	actor, err := h.actor(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return 0, usecases.Actor{}, false
	}
	return id, actor, true
}
