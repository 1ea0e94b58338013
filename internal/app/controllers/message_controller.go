package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/campuslink/campuslink/internal/app/models/dto"
	"github.com/campuslink/campuslink/internal/app/services"
	"github.com/campuslink/campuslink/internal/pkg/apperrors"
	"github.com/campuslink/campuslink/internal/pkg/helpers"
)

// MessageController handles direct-messaging endpoints
type MessageController struct {
	messageService services.MessageService
	logger         zerolog.Logger
}

// NewMessageController creates a new MessageController
func NewMessageController(messageService services.MessageService, logger zerolog.Logger) *MessageController {
	return &MessageController{messageService: messageService, logger: logger}
}

// Send godoc
// @Summary Send a direct message
// @Description Denied unless the messaging-eligibility policy holds for the pair
// @Tags messages
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.SendMessageRequest true "Message"
// @Success 201 {object} dto.APIResponse{data=dto.MessageResponse}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /messages [post]
func (mc *MessageController) Send(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.NewValidationError(err.Error()))
		return
	}
	message, err := mc.messageService.Send(c.Request.Context(), identity, req.ReceiverID, req.Content)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(toMessageResponse(message)))
}

// ListConversation godoc
// @Summary Get the message history with one peer
// @Tags messages
// @Security BearerAuth
// @Produce json
// @Param peerId path string true "Peer profile ID"
// @Param page query int false "Page"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.MessageListResponse}
// @Router /messages/{peerId} [get]
func (mc *MessageController) ListConversation(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	page, size := helpers.ParsePaginationParams(c)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	messages, total, err := mc.messageService.ListConversation(c.Request.Context(), identity, c.Param("peerId"), offset, limit)
	if err != nil {
		_ = c.Error(err)
		return
	}

	results := make([]dto.MessageResponse, 0, len(messages))
	for _, m := range messages {
		results = append(results, toMessageResponse(m))
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.MessageListResponse{
		Messages:       results,
		PaginationInfo: helpers.NewPaginationInfo(total, page, size),
	}))
}

// Conversations godoc
// @Summary List the caller's conversations
// @Tags messages
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.APIResponse
// @Router /messages [get]
func (mc *MessageController) Conversations(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	conversations, err := mc.messageService.Conversations(c.Request.Context(), identity)
	if err != nil {
		_ = c.Error(err)
		return
	}

	results := make([]dto.ConversationResponse, 0, len(conversations))
	for _, conv := range conversations {
		results = append(results, toConversationResponse(conv))
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(results))
}
