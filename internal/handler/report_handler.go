package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zawajapp/zawaj-backend/internal/common"
	"github.com/zawajapp/zawaj-backend/internal/domain"
	"github.com/zawajapp/zawaj-backend/internal/middleware"
	"github.com/zawajapp/zawaj-backend/internal/service"
)

// ReportHandler handles report filing by regular users. Adjudication of
// filed reports lives in AdminHandler.
type ReportHandler struct {
	adjudication *service.AdjudicationService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(adjudication *service.AdjudicationService) *ReportHandler {
	return &ReportHandler{adjudication: adjudication}
}

type fileReportRequest struct {
	TargetType  string `json:"target_type" binding:"required"`
	TargetID    string `json:"target_id" binding:"required"`
	Category    string `json:"category" binding:"required"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

// File handles POST /api/v1/reports
// @Summary File a report against a profile or message
// @Tags reports
// @Accept json
// @Produce json
// @Param body body fileReportRequest true "Report data"
// @Success 201 {object} common.APIResponse
// @Failure 400 {object} common.APIResponse
// @Security BearerAuth
// @Router /reports [post]
func (h *ReportHandler) File(c *gin.Context) {
	var req fileReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	report, err := h.adjudication.FileReport(middleware.GetProfileID(c), service.FileReportInput{
		TargetType:  domain.TargetType(req.TargetType),
		TargetID:    req.TargetID,
		Category:    req.Category,
		Description: req.Description,
		Priority:    domain.ReportPriority(req.Priority),
	})
	if err != nil {
		common.EngineErrorResponse(c, "Failed to file report", err)
		return
	}
	common.CreatedResponse(c, report)
}
