package middleware

import (
	"errors"
	"strings"

	"github.com/go-arcade/suitx/internal/engine/consts"
	"github.com/go-arcade/suitx/pkg/cache"
	"github.com/go-arcade/suitx/pkg/http"
	"github.com/go-arcade/suitx/pkg/http/jwt"
	"github.com/go-arcade/suitx/pkg/log"
	"github.com/gofiber/fiber/v2"
)

// AuthorizationMiddleware 认证中间件
// secretKey: 用于验证 JWT 的密钥
// c: 会话缓存，登出后会话失效
func AuthorizationMiddleware(secretKey string, c cache.ICache) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		aToken := ctx.Get(fiber.HeaderAuthorization)
		if aToken == "" {
			return http.WithRepFailed(ctx, http.TokenBeEmpty)
		}

		// 按空格分割
		parts := strings.SplitN(aToken, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") || parts[1] == "" {
			return http.WithRepFailed(ctx, http.AuthorizationIncorrect)
		}

		claims, err := jwt.ParseToken(parts[1], secretKey)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return http.WithRepFailed(ctx, http.TokenExpired)
			}
			log.WithContext(ctx.UserContext()).Warnw("parse token failed", "error", err)
			return http.WithRepFailed(ctx, http.InvalidToken)
		}

		// 会话必须仍在缓存中
		ttl, err := c.TTL(ctx.UserContext(), consts.UserTokenKey+claims.UserId).Result()
		if err != nil {
			log.WithContext(ctx.UserContext()).Errorw("check session ttl failed", "error", err)
			return http.WithRepFailed(ctx, http.InternalError)
		}
		if ttl <= 0 && ttl != -1 {
			return http.WithRepFailed(ctx, http.TokenExpired)
		}

		ctx.Locals(consts.CLAIMS, claims)
		ctx.Locals(consts.USERID, claims.UserId)
		return ctx.Next()
	}
}

// CurrentUserId 返回已认证用户 id
func CurrentUserId(c *fiber.Ctx) string {
	if v, ok := c.Locals(consts.USERID).(string); ok {
		return v
	}
	return ""
}
