package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/zawajapp/zawaj-backend/internal/common"
	"github.com/zawajapp/zawaj-backend/internal/middleware"
	"github.com/zawajapp/zawaj-backend/internal/service"
)

// ChatHandler handles chat channel and message endpoints
type ChatHandler struct {
	channels   *service.ChannelService
	moderation *service.ModerationService
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(channels *service.ChannelService, moderation *service.ModerationService) *ChatHandler {
	return &ChatHandler{channels: channels, moderation: moderation}
}

type sendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

type extendChannelRequest struct {
	Days int `json:"days" binding:"required"`
}

// List handles GET /api/v1/channels
// @Summary List the caller's chat channels
// @Tags channels
// @Produce json
// @Success 200 {object} common.APIResponse
// @Security BearerAuth
// @Router /channels [get]
func (h *ChatHandler) List(c *gin.Context) {
	channels, err := h.channels.ListForProfile(middleware.GetProfileID(c))
	if err != nil {
		common.EngineErrorResponse(c, "Failed to list channels", err)
		return
	}
	common.SuccessResponse(c, channels, nil)
}

// Get handles GET /api/v1/channels/:id
// @Summary Get a chat channel (participants and admins only)
// @Tags channels
// @Produce json
// @Param id path string true "Channel ID"
// @Success 200 {object} common.APIResponse
// @Security BearerAuth
// @Router /channels/{id} [get]
func (h *ChatHandler) Get(c *gin.Context) {
	channel, err := h.channels.Get(c.Param("id"), middleware.GetProfileID(c), middleware.IsAdmin(c))
	if err != nil {
		common.EngineErrorResponse(c, "Failed to load channel", err)
		return
	}
	common.SuccessResponse(c, channel, nil)
}

// SendMessage handles POST /api/v1/channels/:id/messages
// @Summary Send a message through the moderation pipeline
// @Tags channels
// @Accept json
// @Produce json
// @Param id path string true "Channel ID"
// @Param body body sendMessageRequest true "Message content"
// @Success 201 {object} common.APIResponse
// @Failure 409 {object} common.APIResponse
// @Failure 429 {object} common.APIResponse
// @Security BearerAuth
// @Router /channels/{id}/messages [post]
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	msg, err := h.moderation.SendMessage(c.Request.Context(), c.Param("id"), middleware.GetProfileID(c), req.Content)
	if err != nil {
		common.EngineErrorResponse(c, "Failed to send message", err)
		return
	}
	common.CreatedResponse(c, msg)
}

// History handles GET /api/v1/channels/:id/messages
// @Summary List a channel's message history
// @Tags channels
// @Produce json
// @Param id path string true "Channel ID"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} common.APIResponse
// @Security BearerAuth
// @Router /channels/{id}/messages [get]
func (h *ChatHandler) History(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	msgs, total, err := h.moderation.History(c.Param("id"), middleware.GetProfileID(c), middleware.IsAdmin(c), page, limit)
	if err != nil {
		common.EngineErrorResponse(c, "Failed to load message history", err)
		return
	}
	common.SuccessResponse(c, msgs, &common.Meta{Page: page, Limit: limit, Total: total})
}

// Extend handles POST /api/v1/channels/:id/extend
// @Summary Extend an active channel's expiry window
// @Tags channels
// @Accept json
// @Produce json
// @Param id path string true "Channel ID"
// @Param body body extendChannelRequest true "Days to extend by"
// @Success 200 {object} common.APIResponse
// @Failure 409 {object} common.APIResponse
// @Security BearerAuth
// @Router /channels/{id}/extend [post]
func (h *ChatHandler) Extend(c *gin.Context) {
	var req extendChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	channel, err := h.channels.Extend(c.Param("id"), middleware.GetProfileID(c), middleware.IsAdmin(c), req.Days)
	if err != nil {
		common.EngineErrorResponse(c, "Failed to extend channel", err)
		return
	}
	common.SuccessResponse(c, channel, nil)
}

// Close handles POST /api/v1/channels/:id/close
// @Summary Close an active channel
// @Tags channels
// @Produce json
// @Param id path string true "Channel ID"
// @Success 200 {object} common.APIResponse
// @Failure 409 {object} common.APIResponse
// @Security BearerAuth
// @Router /channels/{id}/close [post]
func (h *ChatHandler) Close(c *gin.Context) {
	channel, err := h.channels.Close(c.Param("id"), middleware.GetProfileID(c), middleware.IsAdmin(c))
	if err != nil {
		common.EngineErrorResponse(c, "Failed to close channel", err)
		return
	}
	common.SuccessResponse(c, channel, nil)
}
