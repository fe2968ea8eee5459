package handler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/cloudwego/hertz/pkg/protocol/sse"

	"github.com/fina-agent/fina-console/internal/domain"
	"github.com/fina-agent/fina-console/internal/handler/dto"
)

// ChatHandler serves the agent stream and the thread audit view
type ChatHandler struct {
	backend domain.AgentBackend
	logger  *slog.Logger
}

// NewChatHandler creates a chat handler
func NewChatHandler(backend domain.AgentBackend, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		backend: backend,
		logger:  logger,
	}
}

// Stream runs one agent turn and relays its events as SSE `data:` frames
//
//	@Summary	Stream an agent turn
//	@Tags		Chat
//	@Accept		json
//	@Produce	text/event-stream
//	@Security	BearerAuth
//	@Param		request	body	dto.ChatStreamRequest	true	"chat turn"
//	@Router		/chat/stream [post]
func (h *ChatHandler) Stream(ctx context.Context, c *app.RequestContext) {
	var req dto.ChatStreamRequest
	if err := c.BindJSON(&req); err != nil {
		h.logger.Error("failed to bind request", "error", err)
		BadRequestResponse(c, "invalid request body")
		return
	}

	userID, ok := currentUser(c)
	if !ok {
		ErrorResponse(c, domain.ErrUnauthorized)
		return
	}

	// stops the agent goroutine if the client goes away
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events, err := h.backend.Stream(ctx, &domain.ChatRequest{
		UserID:   userID,
		ThreadID: req.ThreadID,
		Message:  req.Message,
	})
	if err != nil {
		h.logger.Warn("chat stream refused", "user_id", userID, "error", err)
		ErrorResponse(c, err)
		return
	}

	// status must be set before the SSE writer takes over the response
	c.SetStatusCode(consts.StatusOK)
	writer := sse.NewWriter(c)
	defer writer.Close()

	for ev := range events {
		if err := h.writeSSEJSON(writer, dto.ToStreamEvent(ev)); err != nil {
			h.logger.Error("failed to write sse event", "user_id", userID, "error", err)
			return
		}
	}

	if err := writer.WriteEvent("", "", []byte("[DONE]")); err != nil {
		h.logger.Error("failed to write done event", "error", err)
	}
}

// writeSSEJSON writes one frame; WriteEvent flushes
func (h *ChatHandler) writeSSEJSON(writer *sse.Writer, data any) error {
	jsonData, err := sonic.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal json: %w", err)
	}
	return writer.WriteEvent("", "", jsonData)
}

// ThreadStatus returns the audit view of a thread
//
//	@Summary	Thread audit status
//	@Tags		Chat
//	@Produce	json
//	@Security	BearerAuth
//	@Param		thread_id	path	string	true	"thread id"
//	@Router		/chat/{thread_id} [get]
func (h *ChatHandler) ThreadStatus(ctx context.Context, c *app.RequestContext) {
	threadID := c.Param("thread_id")

	status, err := h.backend.ThreadStatus(ctx, threadID)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	c.JSON(consts.StatusOK, dto.ToThreadStatusResponse(status))
}
