package handler

import (
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/fina-agent/fina-console/internal/domain"
	"github.com/fina-agent/fina-console/internal/middleware"
)

// ErrorBody is the error envelope understood by the console: {"detail": "..."}
type ErrorBody struct {
	Detail string `json:"detail"`
}

// ErrorResponse writes err with the status code of its class
func ErrorResponse(c *app.RequestContext, err error) {
	// user-facing text only; never internal details
	detail := func(err error) string {
		return domain.UserMessage(err)
	}

	switch {
	case domain.IsNotFound(err):
		c.JSON(consts.StatusNotFound, ErrorBody{Detail: detail(err)})
	case domain.IsInvalidInput(err):
		c.JSON(consts.StatusBadRequest, ErrorBody{Detail: detail(err)})
	case domain.IsForbidden(err):
		c.JSON(consts.StatusForbidden, ErrorBody{Detail: detail(err)})
	case domain.IsUnauthorized(err):
		c.JSON(consts.StatusUnauthorized, ErrorBody{Detail: detail(err)})
	case domain.IsConflict(err):
		c.JSON(consts.StatusConflict, ErrorBody{Detail: detail(err)})
	default:
		c.JSON(consts.StatusInternalServerError, ErrorBody{Detail: "internal server error"})
	}
}

// BadRequestResponse returns a 400 with message
func BadRequestResponse(c *app.RequestContext, message string) {
	c.JSON(consts.StatusBadRequest, ErrorBody{Detail: message})
}

// currentUser returns the user id stored by the auth middleware
func currentUser(c *app.RequestContext) (string, bool) {
	v, exists := c.Get(middleware.UserIDKey)
	if !exists {
		return "", false
	}
	userID, ok := v.(string)
	return userID, ok && userID != ""
}
