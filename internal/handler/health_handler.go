package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/fina-agent/fina-console/internal/domain"
	"github.com/fina-agent/fina-console/internal/handler/dto"
)

// HealthHandler health check handler
type HealthHandler struct {
	backend domain.AgentBackend
}

// NewHealthHandler creates a health check handler
func NewHealthHandler(backend domain.AgentBackend) *HealthHandler {
	return &HealthHandler{
		backend: backend,
	}
}

// Health reports the agent status; no authentication required
//
//	@Summary	Health check
//	@Tags		health
//	@Produce	json
//	@Router		/health [get]
func (h *HealthHandler) Health(ctx context.Context, c *app.RequestContext) {
	c.JSON(consts.StatusOK, dto.ToHealthResponse(h.backend.Health(ctx)))
}
