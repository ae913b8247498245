package handler

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/api/v1/dto"
	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/middleware"
	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// ChatHandler relays the site assistant's replies as server-sent events
type ChatHandler struct {
	chatService service.ChatService
	validate    *validator.Validate
	logger      zerolog.Logger
}

func NewChatHandler(chatService service.ChatService, validate *validator.Validate, logger zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		validate:    validate,
		logger:      logger.With().Str("handler", "ChatHandler").Logger(),
	}
}

func (h *ChatHandler) RegisterRoutes(r *mux.Router, limiter *middleware.RateLimiter) {
	r.Handle("/chat", limiter.Limit("chat")(http.HandlerFunc(h.streamChat))).Methods(http.MethodPost)
}

// streamChat godoc
// @Summary Chat with the site assistant
// @Description Streams the reply as SSE parts: text-start, text-delta..., text-end, finish, then [DONE].
// @Tags chat
// @Accept json
// @Produce text/event-stream
// @Param request body dto.ChatRequestDTO true "Conversation so far"
// @Success 200 {string} string "SSE stream"
// @Failure 400 {object} dto.ValidationErrorResponseDTO
// @Failure 503 {object} dto.ErrorResponseDTO "Chat not configured"
// @Router /chat [post]
func (h *ChatHandler) streamChat(w http.ResponseWriter, r *http.Request) {
	var req dto.ChatRequestDTO
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload: "+err.Error(), h.logger)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeValidationFailed(w, err, h.logger)
		return
	}

	messages := make([]service.ChatMessage, len(req.Messages))
	for i, m := range req.Messages {
		messages[i] = service.ChatMessage{Role: m.Role, Content: m.Content}
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "Streaming not supported", h.logger)
		return
	}

	// The request context cancels the upstream call when the client goes away.
	stream, err := h.chatService.StreamReply(r.Context(), messages, req.Model)
	if err != nil {
		writeServiceError(w, err, "chat", h.logger)
		return
	}
	defer func() {
		if err := stream.Close(); err != nil {
			h.logger.Error().Err(err).Msg("Failed to close stream")
		}
	}()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.Header().Set("x-vercel-ai-ui-message-stream", "v1")
	w.WriteHeader(http.StatusOK)

	partID := "part_" + uuid.NewString()
	send := func(part any) bool {
		if err := writeEvent(w, part); err != nil {
			h.logger.Error().Err(err).Msg("Failed to write stream part")
			return false
		}
		flusher.Flush()
		return true
	}

	if !send(map[string]any{"type": "text-start", "id": partID}) {
		return
	}

	reader := bufio.NewReader(stream)
	for {
		chunk, err := service.ParseSSEChunk(reader)
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, service.ErrStreamDone) {
				h.logger.Error().Err(err).Msg("Error reading upstream chat stream")
			}
			break
		}
		delta := service.DeltaContent(chunk)
		if delta == "" {
			continue
		}
		if !send(map[string]any{"type": "text-delta", "id": partID, "delta": delta}) {
			return
		}
	}

	if !send(map[string]any{"type": "text-end", "id": partID}) {
		return
	}
	if !send(map[string]any{"type": "finish"}) {
		return
	}
	if _, err := fmt.Fprint(w, "data: [DONE]\n\n"); err != nil {
		h.logger.Error().Err(err).Msg("Failed to write [DONE] marker")
		return
	}
	flusher.Flush()
}

func writeEvent(w io.Writer, part any) error {
	payload, err := json.Marshal(part)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", payload)
	return err
}
