package handler

import (
	"context"
	"log/slog"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/fina-agent/fina-console/internal/domain"
	"github.com/fina-agent/fina-console/internal/handler/dto"
)

// KnowledgeHandler serves document ingestion and the per-user cleanup on logout
type KnowledgeHandler struct {
	backend domain.AgentBackend
	logger  *slog.Logger
}

// NewKnowledgeHandler creates a knowledge handler
func NewKnowledgeHandler(backend domain.AgentBackend, logger *slog.Logger) *KnowledgeHandler {
	return &KnowledgeHandler{
		backend: backend,
		logger:  logger,
	}
}

// Ingest stores an uploaded PDF in the caller's retrieval scope
//
//	@Summary	Upload a PDF
//	@Tags		Knowledge
//	@Accept		multipart/form-data
//	@Produce	json
//	@Security	BearerAuth
//	@Param		file	formData	file	true	"PDF document"
//	@Success	200		{object}	dto.IngestResponse
//	@Router		/ingest [post]
func (h *KnowledgeHandler) Ingest(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUser(c)
	if !ok {
		ErrorResponse(c, domain.ErrUnauthorized)
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		BadRequestResponse(c, "file is required")
		return
	}
	f, err := fh.Open()
	if err != nil {
		h.logger.Error("failed to open upload", "filename", fh.Filename, "error", err)
		ErrorResponse(c, domain.NewInternalError(err))
		return
	}
	defer f.Close()

	result, err := h.backend.Ingest(ctx, userID, fh.Filename, f)
	if err != nil {
		h.logger.Warn("ingestion failed", "user_id", userID, "filename", fh.Filename, "error", err)
		ErrorResponse(c, err)
		return
	}

	c.JSON(consts.StatusOK, dto.ToIngestResponse(result))
}

// Logout drops the caller's ephemeral documents and threads
//
//	@Summary	Log out and clean up user data
//	@Tags		Auth
//	@Produce	json
//	@Security	BearerAuth
//	@Router		/auth/logout [post]
func (h *KnowledgeHandler) Logout(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUser(c)
	if !ok {
		ErrorResponse(c, domain.ErrUnauthorized)
		return
	}

	if err := h.backend.Cleanup(ctx, userID); err != nil {
		h.logger.Error("cleanup failed", "user_id", userID, "error", err)
		ErrorResponse(c, err)
		return
	}

	c.JSON(consts.StatusOK, dto.StatusResponse{
		Status:  "success",
		Message: "Logged out and user data cleaned up.",
	})
}
