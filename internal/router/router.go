package router

import (
	"github.com/cloudwego/hertz/pkg/app/server"

	"github.com/fina-agent/fina-console/internal/auth"
	"github.com/fina-agent/fina-console/internal/handler"
	"github.com/fina-agent/fina-console/internal/middleware"
)

// Setup sets up all routes
func Setup(
	h *server.Hertz,
	allowedOrigins []string,
	tokens *auth.TokenService,
	chatHandler *handler.ChatHandler,
	approvalHandler *handler.ApprovalHandler,
	knowledgeHandler *handler.KnowledgeHandler,
	healthHandler *handler.HealthHandler,
) {
	// Global middleware
	h.Use(middleware.Recovery())
	h.Use(middleware.Logger())
	h.Use(middleware.CORS(allowedOrigins))

	apiV1 := h.Group("/api/v1")
	{
		// ============ Public routes ============
		apiV1.GET("/health", healthHandler.Health)

		// ============ Protected routes (bearer token required) ============
		authorized := apiV1.Group("")
		authorized.Use(middleware.Auth(tokens))
		{
			authorized.POST("/chat/stream", chatHandler.Stream)
			authorized.GET("/chat/:thread_id", chatHandler.ThreadStatus)

			authorized.POST("/approve", approvalHandler.Approve)

			authorized.POST("/ingest", knowledgeHandler.Ingest)
			authorized.POST("/auth/logout", knowledgeHandler.Logout)
		}
	}
}
