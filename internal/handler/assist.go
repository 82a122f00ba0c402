package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"livestock/internal/assist"
)

// AssistHandler handles chat assist requests.
type AssistHandler struct {
	assistant *assist.Assistant
}

// NewAssistHandler creates a new AssistHandler.
func NewAssistHandler(assistant *assist.Assistant) *AssistHandler {
	return &AssistHandler{assistant: assistant}
}

// ChatRequest is the HTTP request body for a chat message.
type ChatRequest struct {
	Category string `json:"category"`
	Message  string `json:"message" binding:"required"`
}

// ChatResponse is the assistant's reply.
type ChatResponse struct {
	Category string `json:"category"`
	Reply    string `json:"reply"`
}

// Chat handles POST /v1/assist/chat
//
// @Summary  Get a supportive reply
// @Tags     assist
// @Accept   json
// @Produce  json
// @Security Bearer
// @Param    request body ChatRequest true "Message"
// @Success  200 {object} ChatResponse
// @Failure  400 {object} ErrorResponse
// @Router   /assist/chat [post]
func (h *AssistHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	category := assist.ParseCategory(req.Category)
	reply := h.assistant.Reply(c.Request.Context(), category, req.Message)

	respondJSON(c, http.StatusOK, ChatResponse{
		Category: string(category),
		Reply:    reply,
	})
}
