package middleware

import (
	"context"
	"log/slog"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/fina-agent/fina-console/internal/auth"
)

// UserIDKey is the request context key holding the authenticated user id
const UserIDKey = "user_id"

// Auth verifies the bearer token and stores its subject under UserIDKey
func Auth(tokens *auth.TokenService) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		header := string(c.Request.Header.Peek("Authorization"))
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(consts.StatusUnauthorized, utils.H{"detail": "Not authenticated"})
			return
		}

		userID, err := tokens.Verify(strings.TrimSpace(token))
		if err != nil {
			slog.Default().Warn("rejected bearer token",
				"request_id", GetRequestID(c),
				"path", string(c.Path()),
				"error", err,
			)
			c.AbortWithStatusJSON(consts.StatusUnauthorized, utils.H{"detail": "Invalid or expired token"})
			return
		}

		c.Set(UserIDKey, userID)
		c.Next(ctx)
	}
}
