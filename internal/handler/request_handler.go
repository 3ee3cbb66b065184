package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/zawajapp/zawaj-backend/internal/common"
	"github.com/zawajapp/zawaj-backend/internal/middleware"
	"github.com/zawajapp/zawaj-backend/internal/service"
)

// RequestHandler handles marriage request lifecycle endpoints
type RequestHandler struct {
	requests *service.RequestService
}

// NewRequestHandler creates a new RequestHandler
func NewRequestHandler(requests *service.RequestService) *RequestHandler {
	return &RequestHandler{requests: requests}
}

type submitRequestRequest struct {
	ReceiverID string `json:"receiver_id" binding:"required"`
	Message    string `json:"message"`
}

type respondRequestRequest struct {
	Accept bool `json:"accept"`
}

// Submit handles POST /api/v1/requests
// @Summary Submit a marriage request to another profile
// @Tags requests
// @Accept json
// @Produce json
// @Param body body submitRequestRequest true "Request data"
// @Success 201 {object} common.APIResponse
// @Failure 403 {object} common.APIResponse
// @Failure 409 {object} common.APIResponse
// @Security BearerAuth
// @Router /requests [post]
func (h *RequestHandler) Submit(c *gin.Context) {
	var req submitRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	r, err := h.requests.Submit(middleware.GetProfileID(c), req.ReceiverID, req.Message)
	if err != nil {
		common.EngineErrorResponse(c, "Failed to submit request", err)
		return
	}
	common.CreatedResponse(c, r)
}

// Respond handles POST /api/v1/requests/:id/respond
// @Summary Accept or reject a pending request (receiver only)
// @Tags requests
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param body body respondRequestRequest true "Decision"
// @Success 200 {object} common.APIResponse
// @Failure 403 {object} common.APIResponse
// @Failure 409 {object} common.APIResponse
// @Security BearerAuth
// @Router /requests/{id}/respond [post]
func (h *RequestHandler) Respond(c *gin.Context) {
	var req respondRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	r, channel, err := h.requests.Respond(c.Param("id"), middleware.GetProfileID(c), req.Accept)
	if err != nil {
		common.EngineErrorResponse(c, "Failed to respond to request", err)
		return
	}
	common.SuccessResponse(c, gin.H{"request": r, "channel": channel}, nil)
}

// List handles GET /api/v1/requests
// @Summary List the caller's requests
// @Tags requests
// @Produce json
// @Param box query string false "Filter (sent, received, all)"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} common.APIResponse
// @Security BearerAuth
// @Router /requests [get]
func (h *RequestHandler) List(c *gin.Context) {
	box := c.DefaultQuery("box", "all")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	items, total, err := h.requests.ListForProfile(middleware.GetProfileID(c), box, page, limit)
	if err != nil {
		common.EngineErrorResponse(c, "Failed to list requests", err)
		return
	}
	common.SuccessResponse(c, items, &common.Meta{Page: page, Limit: limit, Total: total})
}
