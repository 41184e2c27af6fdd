package middleware

import (
	"github.com/go-arcade/suitx/internal/engine/consts"
	httpx "github.com/go-arcade/suitx/pkg/http"
	"github.com/gofiber/fiber/v2"
)

// UnifiedResponseMiddleware 统一响应拦截器
// c.Locals(DETAIL, value) 用于设置响应数据
// c.Locals(OPERATION, true) 用于只返回操作结果
func UnifiedResponseMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		if err != nil {
			return err
		}

		// 业务逻辑错误
		if c.Response().StatusCode() != fiber.StatusOK {
			return httpx.WithRepErrMsg(c, httpx.Failed.Code, httpx.Failed.Msg, c.Path())
		}

		if detail := c.Locals(consts.DETAIL); detail != nil {
			return httpx.WithRepJSON(c, detail)
		}

		// 业务逻辑正确, 无响应数据, 只返回结果
		if c.Locals(consts.OPERATION) != nil {
			return httpx.WithRepNotDetail(c)
		}

		return nil
	}
}
