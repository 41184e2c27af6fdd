package middleware

import (
	"net"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ClientIPKey 保存解析后的客户端 IP
const ClientIPKey = "clientIp"

// RealIPMiddleware 依次从 X-Forwarded-For、X-Real-IP 取第一个合法 IP，否则使用连接地址
func RealIPMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(ClientIPKey, resolveClientIP(c.Get(fiber.HeaderXForwardedFor), c.Get("X-Real-IP"), c.IP()))
		return c.Next()
	}
}

// ClientIP 返回 RealIPMiddleware 解析的 IP，未经过该中间件时返回连接地址
func ClientIP(c *fiber.Ctx) string {
	if v, ok := c.Locals(ClientIPKey).(string); ok && v != "" {
		return v
	}
	return c.IP()
}

func resolveClientIP(forwardedFor, realIP, remote string) string {
	// XFF: client, proxy1, proxy2
	for _, part := range strings.Split(forwardedFor, ",") {
		if ip := strings.TrimSpace(part); net.ParseIP(ip) != nil {
			return ip
		}
	}
	if ip := strings.TrimSpace(realIP); net.ParseIP(ip) != nil {
		return ip
	}
	return remote
}
