package handler

import (
	"context"
	"log/slog"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/fina-agent/fina-console/internal/domain"
	"github.com/fina-agent/fina-console/internal/handler/dto"
)

// ApprovalHandler serves supervisor decisions
type ApprovalHandler struct {
	backend domain.AgentBackend
	logger  *slog.Logger
}

// NewApprovalHandler creates an approval handler
func NewApprovalHandler(backend domain.AgentBackend, logger *slog.Logger) *ApprovalHandler {
	return &ApprovalHandler{
		backend: backend,
		logger:  logger,
	}
}

// Approve applies a supervisor decision to a pending thread
//
//	@Summary	Approve or reject a pending draft
//	@Tags		Governance
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		request	body		dto.ApproveRequest	true	"decision"
//	@Success	200		{object}	dto.ApprovalResponse
//	@Failure	403		{object}	ErrorBody
//	@Failure	404		{object}	ErrorBody
//	@Router		/approve [post]
func (h *ApprovalHandler) Approve(ctx context.Context, c *app.RequestContext) {
	var req dto.ApproveRequest
	if err := c.BindJSON(&req); err != nil {
		h.logger.Error("failed to bind request", "error", err)
		BadRequestResponse(c, "invalid request body")
		return
	}
	if req.ThreadID == "" || req.SupervisorID == "" {
		BadRequestResponse(c, "thread_id and supervisor_id are required")
		return
	}

	userID, _ := currentUser(c)
	decision, err := h.backend.Approve(ctx, req.ToEntity(userID))
	if err != nil {
		h.logger.Warn("approval refused",
			"thread_id", req.ThreadID,
			"supervisor_id", req.SupervisorID,
			"error", err,
		)
		ErrorResponse(c, err)
		return
	}

	c.JSON(consts.StatusOK, dto.ToApprovalResponse(decision))
}
