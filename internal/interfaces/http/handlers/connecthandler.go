package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ns-ai-search/console/internal/application/messenger/usecases"
	"github.com/ns-ai-search/console/internal/domain/website"
	"github.com/ns-ai-search/console/internal/shared/constants"
	"github.com/ns-ai-search/console/internal/shared/logger"
	"github.com/ns-ai-search/console/internal/shared/utils"
)

const (
	msgMissingStatusParams     = "Missing license_key or domain"
	msgMissingDisconnectParams = "Missing license key or domain"
	msgWebsiteNotFound         = "Website not found"
	msgInternalServerError     = "Internal server error"
)

// ConnectHandler serves the public endpoints the WordPress plugin calls to
// connect a Facebook Page. Browser-facing steps answer with redirects; the
// plugin's server-side calls get plain JSON bodies, not the admin envelope.
type ConnectHandler struct {
	service connectService
	logger  logger.Interface
}

func NewConnectHandler(service connectService, logger logger.Interface) *ConnectHandler {
	return &ConnectHandler{
		service: service,
		logger:  logger,
	}
}

type connectErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// ConnectStatusResponse is the plugin-facing connection state. Absent values
// are serialized as null.
type ConnectStatusResponse struct {
	Success          bool       `json:"success"`
	MessengerEnabled bool       `json:"messengerEnabled"`
	TokenExpiresAt   *time.Time `json:"tokenExpiresAt"`
	FacebookPageID   *string    `json:"facebookPageId"`
	FacebookPageName *string    `json:"facebookPageName"`
}

type DisconnectRequest struct {
	LicenseKey string `json:"license_key" form:"license_key"`
	Domain     string `json:"domain" form:"domain"`
}

type DisconnectResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func jsonError(c *gin.Context, status int, message string) {
	c.JSON(status, connectErrorResponse{Success: false, Error: message})
}

// Initiate handles GET /connect/initiate
// @Summary Start the Facebook Messenger connection
// @Description Validates the license and redirects the browser to the Facebook OAuth dialog
// @Tags Connect
// @Param domain query string true "Website domain"
// @Param license_key query string true "License key"
// @Param redirect_uri query string false "Plugin page to return to"
// @Success 302
// @Failure 400 {object} connectErrorResponse
// @Router /connect/initiate [get]
func (h *ConnectHandler) Initiate(c *gin.Context) {
	cmd := usecases.InitiateConnectCommand{
		Domain:      strings.TrimSpace(c.Query("domain")),
		LicenseKey:  strings.TrimSpace(c.Query("license_key")),
		RedirectURI: c.Query("redirect_uri"),
	}

	result, err := h.service.InitiateConnect(c.Request.Context(), cmd)
	if err != nil {
		ce, ok := usecases.AsConnectError(err)
		if !ok {
			h.logger.Errorw("connect initiate failed", "error", err, "domain", cmd.Domain)
			ce = h.serverError(usecases.FirstRedirect(cmd.RedirectURI, usecases.DefaultRedirectURI(cmd.Domain)), err)
		}
		if ce.RedirectURI == "" {
			jsonError(c, http.StatusBadRequest, constants.ConnectMsgNoRedirectTarget)
			return
		}
		c.Redirect(http.StatusFound, ce.RedirectURL())
		return
	}

	c.Redirect(http.StatusFound, result.AuthURL)
}

// Callback handles GET /connect/callback
// @Summary Facebook OAuth callback
// @Description Exchanges the authorization code, binds the first managed Page and redirects back to the plugin
// @Tags Connect
// @Param code query string false "Authorization code"
// @Param state query string false "State issued by initiate"
// @Param error query string false "OAuth error"
// @Success 302
// @Failure 400 {object} connectErrorResponse
// @Failure 500 {object} connectErrorResponse
// @Router /connect/callback [get]
func (h *ConnectHandler) Callback(c *gin.Context) {
	cmd := usecases.HandleCallbackCommand{
		Code:        c.Query("code"),
		State:       c.Query("state"),
		OAuthError:  c.Query("error"),
		Domain:      strings.TrimSpace(c.Query("domain")),
		RedirectURI: c.Query("redirect_uri"),
	}

	result, err := h.service.HandleCallback(c.Request.Context(), cmd)
	switch {
	case err == nil:
		c.Redirect(http.StatusFound, result.RedirectURL())
		return
	case errors.Is(err, usecases.ErrMissingCodeOrState):
		jsonError(c, http.StatusBadRequest, constants.ConnectMsgMissingCodeOrState)
		return
	case errors.Is(err, usecases.ErrInvalidState):
		jsonError(c, http.StatusBadRequest, constants.ConnectMsgInvalidState)
		return
	}

	ce, ok := usecases.AsConnectError(err)
	if !ok {
		h.logger.Errorw("connect callback failed", "error", err)
		ce = h.serverError(usecases.FirstRedirect(cmd.RedirectURI, usecases.DefaultRedirectURI(cmd.Domain)), err)
	}
	if ce.RedirectURI == "" {
		h.logger.Warnw("connect callback failed without redirect target", "code", ce.Code)
		jsonError(c, http.StatusInternalServerError, ce.Message)
		return
	}
	c.Redirect(http.StatusFound, ce.RedirectURL())
}

// Status handles GET /connect/status
// @Summary Messenger connection status
// @Tags Connect
// @Produce json
// @Param license_key query string true "License key"
// @Param domain query string true "Website domain"
// @Success 200 {object} ConnectStatusResponse
// @Failure 400 {object} connectErrorResponse
// @Failure 404 {object} connectErrorResponse
// @Router /connect/status [get]
func (h *ConnectHandler) Status(c *gin.Context) {
	q := usecases.GetStatusQuery{
		LicenseKey: strings.TrimSpace(c.Query("license_key")),
		Domain:     strings.TrimSpace(c.Query("domain")),
	}
	if q.LicenseKey == "" || q.Domain == "" {
		jsonError(c, http.StatusBadRequest, msgMissingStatusParams)
		return
	}

	result, err := h.service.GetStatus(c.Request.Context(), q)
	if err != nil {
		if errors.Is(err, website.ErrWebsiteNotFound) {
			jsonError(c, http.StatusNotFound, msgWebsiteNotFound)
			return
		}
		h.logger.Errorw("failed to get messenger status", "error", err, "domain", q.Domain)
		jsonError(c, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	c.JSON(http.StatusOK, ConnectStatusResponse{
		Success:          true,
		MessengerEnabled: result.MessengerEnabled,
		TokenExpiresAt:   result.TokenExpiresAt,
		FacebookPageID:   result.FacebookPageID,
		FacebookPageName: result.FacebookPageName,
	})
}

// Disconnect handles POST /connect/disconnect
// @Summary Disconnect Messenger
// @Tags Connect
// @Accept json
// @Produce json
// @Param request body DisconnectRequest true "Website credentials"
// @Success 200 {object} DisconnectResponse
// @Failure 400 {object} connectErrorResponse
// @Failure 404 {object} connectErrorResponse
// @Router /connect/disconnect [post]
func (h *ConnectHandler) Disconnect(c *gin.Context) {
	var req DisconnectRequest
	if err := c.ShouldBind(&req); err != nil {
		h.logger.Warnw("invalid disconnect request body", "error", err)
		jsonError(c, http.StatusBadRequest, msgMissingDisconnectParams)
		return
	}
	req.LicenseKey = strings.TrimSpace(req.LicenseKey)
	req.Domain = strings.TrimSpace(req.Domain)
	if req.LicenseKey == "" || req.Domain == "" {
		jsonError(c, http.StatusBadRequest, msgMissingDisconnectParams)
		return
	}

	result, err := h.service.Disconnect(c.Request.Context(), usecases.DisconnectCommand{
		LicenseKey: req.LicenseKey,
		Domain:     req.Domain,
	})
	if err != nil {
		if errors.Is(err, website.ErrWebsiteNotFound) {
			jsonError(c, http.StatusNotFound, msgWebsiteNotFound)
			return
		}
		h.logger.Errorw("failed to disconnect messenger", "error", err,
			"domain", req.Domain, "license_key", utils.MaskSecret(req.LicenseKey))
		jsonError(c, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	c.JSON(http.StatusOK, DisconnectResponse{
		Success: true,
		Message: result.Message(),
	})
}

// Preflight answers CORS preflight requests for the plugin-facing endpoints.
func (h *ConnectHandler) Preflight(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func (h *ConnectHandler) serverError(redirectURI string, err error) *usecases.ConnectError {
	return &usecases.ConnectError{
		Code:        constants.ConnectErrorServer,
		Message:     constants.ConnectErrorServer.Message(),
		RedirectURI: redirectURI,
		Err:         err,
	}
}
