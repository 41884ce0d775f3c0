package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"woodash/internal/app"
)

// ChatHandler relays dashboard questions to the AI analyst.
type ChatHandler struct {
	services *app.Services
}

// NewChatHandler creates a new chat handler
func NewChatHandler(services *app.Services) *ChatHandler {
	return &ChatHandler{services: services}
}

// ChatRequest is the question payload. Context carries whatever
// dashboard data the frontend currently displays. Message is accepted
// as a legacy alias for question.
type ChatRequest struct {
	Question string `json:"question"`
	Message  string `json:"message"`
	Context  any    `json:"context,omitempty"`
}

func (r ChatRequest) text() string {
	if r.Question != "" {
		return r.Question
	}
	return r.Message
}

type chatResponse struct {
	Success  bool   `json:"success"`
	Response string `json:"response"`
}

// Ask answers one marketing question over the supplied dashboard data.
// Stateless; the model sees only what this request carries.
func (h *ChatHandler) Ask(c echo.Context) error {
	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "cuerpo de solicitud inválido"})
	}
	if req.text() == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "question es requerido"})
	}

	if h.services.Chat == nil {
		return c.JSON(http.StatusServiceUnavailable, errorResponse{
			Error: "El asistente no está configurado",
		})
	}

	answer, err := h.services.Chat.Ask(contextOf(c), req.text(), req.Context)
	if err != nil {
		return upstreamError(c, err)
	}
	return c.JSON(http.StatusOK, chatResponse{Success: true, Response: answer})
}
