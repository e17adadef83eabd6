package http

import (
	"log/slog"
	"net/http"

	"github.com/Aasim47/vendorconex/internal/service"
	"github.com/Aasim47/vendorconex/pkg/httputil"
	"github.com/Aasim47/vendorconex/pkg/validator"
)

// ChatHandler handles HTTP requests for the chatbot relay endpoint.
type ChatHandler struct {
	service *service.ChatService
	logger  *slog.Logger
}

// NewChatHandler creates a new chat HTTP handler.
func NewChatHandler(svc *service.ChatService, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		service: svc,
		logger:  logger,
	}
}

// Complete handles POST /api/chat
func (h *ChatHandler) Complete(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	var input service.ChatInput
	if err := validator.DecodeAndValidate(r, &input); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	result, err := h.service.Complete(r.Context(), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}
