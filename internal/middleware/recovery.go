package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

// Recovery turns a handler panic into a 500
func Recovery() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		defer func() {
			if err := recover(); err != nil {
				slog.Default().Error("panic recovered",
					"request_id", GetRequestID(c),
					"method", string(c.Method()),
					"path", string(c.Path()),
					"panic", fmt.Sprintf("%v", err),
					"stack", string(debug.Stack()),
				)

				c.AbortWithStatusJSON(consts.StatusInternalServerError, utils.H{
					"detail": "Internal server error",
				})
			}
		}()

		c.Next(ctx)
	}
}
