package handler

import (
	"net/http"
	"strconv"

	"github.com/edumorph/edumorph/internal/service"
	"github.com/gin-gonic/gin"
)

// ChatHandler handles tutor chat endpoints.
type ChatHandler struct {
	chat *service.ChatService
}

// NewChatHandler creates a new chat handler.
// Parameters:
//   - chat: tutor chat service.
// Returns:
//   - *ChatHandler: initialized handler.
func NewChatHandler(chat *service.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// chatRequest carries one user message to the tutor.
type chatRequest struct {
	Message  string `json:"message" binding:"required"`
	Context  string `json:"context"`
	AgeGroup string `json:"age_group"`
	UserID   string `json:"user_id" binding:"required"`
}

// Chat handles POST /api/v1/chat.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *ChatHandler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request: "+err.Error())
		return
	}

	message, err := h.chat.Respond(c.Request.Context(), req.UserID, req.Message, req.Context, req.AgeGroup)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"response": message.AIResponse,
		"data":     message,
	})
}

// History handles GET /api/v1/chat/history.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *ChatHandler) History(c *gin.Context) {
	userID := c.Query("user_id")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	messages, err := h.chat.History(c.Request.Context(), userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"data":  messages,
		"total": len(messages),
	})
}
