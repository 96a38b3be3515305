package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/notoria-edu/classroom-api/internal/models"
	"github.com/notoria-edu/classroom-api/internal/service"
	appErrors "github.com/notoria-edu/classroom-api/pkg/errors"
	"github.com/notoria-edu/classroom-api/pkg/response"
)

// ChatHandler exposes messaging endpoints for both roles.
type ChatHandler struct {
	chat *service.ChatService
}

// NewChatHandler constructs ChatHandler.
func NewChatHandler(chat *service.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// SendMessage godoc
// @Summary Send a message
// @Tags Chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.SendMessageRequest true "Message payload"
// @Success 201 {object} response.Envelope
// @Router /chat [post]
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	claims := claimsFromContext(c)
	message, err := h.chat.SendMessage(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, message)
}

// ListConversations godoc
// @Summary List own conversations
// @Tags Chat
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /chat/conversations [get]
func (h *ChatHandler) ListConversations(c *gin.Context) {
	claims := claimsFromContext(c)
	conversations, err := h.chat.ListConversations(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, conversations)
}

// ListMessages godoc
// @Summary List a conversation's messages
// @Tags Chat
// @Produce json
// @Security BearerAuth
// @Param id path string true "Conversation ID"
// @Success 200 {object} response.Envelope
// @Router /chat/conversations/{id}/messages [get]
func (h *ChatHandler) ListMessages(c *gin.Context) {
	claims := claimsFromContext(c)
	messages, err := h.chat.ListMessages(c.Request.Context(), claims, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, messages)
}
