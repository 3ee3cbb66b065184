package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/zawajapp/zawaj-backend/internal/common"
	"github.com/zawajapp/zawaj-backend/internal/domain"
	"github.com/zawajapp/zawaj-backend/internal/middleware"
	"github.com/zawajapp/zawaj-backend/internal/service"
)

// AdminHandler handles the admin adjudication workflow and moderation
// settings. All routes behind it require the admin role.
type AdminHandler struct {
	adjudication *service.AdjudicationService
	settings     *service.SettingsService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(adjudication *service.AdjudicationService, settings *service.SettingsService) *AdminHandler {
	return &AdminHandler{adjudication: adjudication, settings: settings}
}

type resolveReportRequest struct {
	Resolution    string `json:"resolution" binding:"required"`
	SuspendTarget bool   `json:"suspend_target"`
}

type reviewFlaggedRequest struct {
	Approve    bool   `json:"approve"`
	Resolution string `json:"resolution"`
}

type updateSettingRequest struct {
	Value string `json:"value" binding:"required"`
}

// ListReports handles GET /api/v1/admin/reports
// @Summary List reports ordered by priority
// @Tags admin
// @Produce json
// @Param status query string false "Status filter (pending, investigating, resolved, dismissed)"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} common.APIResponse
// @Security BearerAuth
// @Router /admin/reports [get]
func (h *AdminHandler) ListReports(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	reports, total, err := h.adjudication.ListReports(domain.CaseStatus(c.Query("status")), page, limit)
	if err != nil {
		common.EngineErrorResponse(c, "Failed to list reports", err)
		return
	}
	common.SuccessResponse(c, reports, &common.Meta{Page: page, Limit: limit, Total: total})
}

// AssignReport handles POST /api/v1/admin/reports/:id/assign
// @Summary Assign a report to the calling admin
// @Tags admin
// @Produce json
// @Param id path string true "Report ID"
// @Success 200 {object} common.APIResponse
// @Failure 409 {object} common.APIResponse
// @Security BearerAuth
// @Router /admin/reports/{id}/assign [post]
func (h *AdminHandler) AssignReport(c *gin.Context) {
	report, err := h.adjudication.AssignReport(c.Param("id"), middleware.GetProfileID(c))
	if err != nil {
		common.EngineErrorResponse(c, "Failed to assign report", err)
		return
	}
	common.SuccessResponse(c, report, nil)
}

// ResolveReport handles POST /api/v1/admin/reports/:id/resolve
// @Summary Resolve a report, optionally suspending the target profile
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Report ID"
// @Param body body resolveReportRequest true "Resolution"
// @Success 200 {object} common.APIResponse
// @Failure 409 {object} common.APIResponse
// @Security BearerAuth
// @Router /admin/reports/{id}/resolve [post]
func (h *AdminHandler) ResolveReport(c *gin.Context) {
	var req resolveReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	report, err := h.adjudication.ResolveReport(c.Param("id"), middleware.GetProfileID(c), req.Resolution, req.SuspendTarget)
	if err != nil {
		common.EngineErrorResponse(c, "Failed to resolve report", err)
		return
	}
	common.SuccessResponse(c, report, nil)
}

// DismissReport handles POST /api/v1/admin/reports/:id/dismiss
// @Summary Dismiss a report without action
// @Tags admin
// @Produce json
// @Param id path string true "Report ID"
// @Success 200 {object} common.APIResponse
// @Security BearerAuth
// @Router /admin/reports/{id}/dismiss [post]
func (h *AdminHandler) DismissReport(c *gin.Context) {
	report, err := h.adjudication.DismissReport(c.Param("id"), middleware.GetProfileID(c))
	if err != nil {
		common.EngineErrorResponse(c, "Failed to dismiss report", err)
		return
	}
	common.SuccessResponse(c, report, nil)
}

// ListFlagged handles GET /api/v1/admin/flagged
// @Summary List flagged messages ordered by severity
// @Tags admin
// @Produce json
// @Param status query string false "Status filter"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} common.APIResponse
// @Security BearerAuth
// @Router /admin/flagged [get]
func (h *AdminHandler) ListFlagged(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	flagged, total, err := h.adjudication.ListFlagged(domain.CaseStatus(c.Query("status")), page, limit)
	if err != nil {
		common.EngineErrorResponse(c, "Failed to list flagged messages", err)
		return
	}
	common.SuccessResponse(c, flagged, &common.Meta{Page: page, Limit: limit, Total: total})
}

// AssignFlagged handles POST /api/v1/admin/flagged/:id/assign
// @Summary Assign a flagged message to the calling admin
// @Tags admin
// @Produce json
// @Param id path string true "Flag ID"
// @Success 200 {object} common.APIResponse
// @Security BearerAuth
// @Router /admin/flagged/{id}/assign [post]
func (h *AdminHandler) AssignFlagged(c *gin.Context) {
	flagged, err := h.adjudication.AssignFlagged(c.Param("id"), middleware.GetProfileID(c))
	if err != nil {
		common.EngineErrorResponse(c, "Failed to assign flagged message", err)
		return
	}
	common.SuccessResponse(c, flagged, nil)
}

// ReviewFlagged handles POST /api/v1/admin/flagged/:id/review
// @Summary Approve or reject a flagged message
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Flag ID"
// @Param body body reviewFlaggedRequest true "Reviewer decision"
// @Success 200 {object} common.APIResponse
// @Failure 409 {object} common.APIResponse
// @Security BearerAuth
// @Router /admin/flagged/{id}/review [post]
func (h *AdminHandler) ReviewFlagged(c *gin.Context) {
	var req reviewFlaggedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	flagged, err := h.adjudication.ReviewFlagged(c.Param("id"), middleware.GetProfileID(c), req.Approve, req.Resolution)
	if err != nil {
		common.EngineErrorResponse(c, "Failed to review flagged message", err)
		return
	}
	common.SuccessResponse(c, flagged, nil)
}

// DismissFlagged handles POST /api/v1/admin/flagged/:id/dismiss
// @Summary Dismiss a flag without changing the message status
// @Tags admin
// @Produce json
// @Param id path string true "Flag ID"
// @Success 200 {object} common.APIResponse
// @Security BearerAuth
// @Router /admin/flagged/{id}/dismiss [post]
func (h *AdminHandler) DismissFlagged(c *gin.Context) {
	flagged, err := h.adjudication.DismissFlagged(c.Param("id"), middleware.GetProfileID(c))
	if err != nil {
		common.EngineErrorResponse(c, "Failed to dismiss flagged message", err)
		return
	}
	common.SuccessResponse(c, flagged, nil)
}

// ListSettings handles GET /api/v1/admin/settings
// @Summary List moderation settings with their audit fields
// @Tags admin
// @Produce json
// @Success 200 {object} common.APIResponse
// @Security BearerAuth
// @Router /admin/settings [get]
func (h *AdminHandler) ListSettings(c *gin.Context) {
	settings, err := h.settings.All()
	if err != nil {
		common.EngineErrorResponse(c, "Failed to list settings", err)
		return
	}
	common.SuccessResponse(c, settings, nil)
}

// UpdateSetting handles PUT /api/v1/admin/settings/:key
// @Summary Update a moderation setting (takes effect on next evaluation)
// @Tags admin
// @Accept json
// @Produce json
// @Param key path string true "Setting key"
// @Param body body updateSettingRequest true "New value"
// @Success 200 {object} common.APIResponse
// @Failure 400 {object} common.APIResponse
// @Security BearerAuth
// @Router /admin/settings/{key} [put]
func (h *AdminHandler) UpdateSetting(c *gin.Context) {
	var req updateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	key := c.Param("key")
	if err := h.settings.Update(key, req.Value, middleware.GetProfileID(c)); err != nil {
		common.EngineErrorResponse(c, "Failed to update setting", err)
		return
	}
	common.SuccessResponse(c, gin.H{"key": key, "value": req.Value}, nil)
}
