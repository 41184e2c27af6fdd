package middleware

import (
	"context"

	"github.com/go-arcade/suitx/internal/engine/consts"
	"github.com/go-arcade/suitx/pkg/id"
	"github.com/go-arcade/suitx/pkg/log"
	"github.com/gofiber/fiber/v2"
)

const headerRequestId = "X-Request-Id"

// RequestMiddleware set request id
func RequestMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestId := c.Get(headerRequestId)
		if requestId == "" {
			requestId = id.GetXid()
		}
		c.Set(headerRequestId, requestId)
		c.Locals(consts.REQUESTID, requestId)
		c.SetUserContext(context.WithValue(c.UserContext(), log.RequestIdKey{}, requestId))
		return c.Next()
	}
}
