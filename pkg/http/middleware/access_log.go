// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package middleware

import (
	"strings"
	"time"

	"github.com/go-arcade/suitx/pkg/log"
	"github.com/gofiber/fiber/v2"
)

// 不记录访问日志的路径，/* 结尾表示前缀匹配
var excludedPaths = []string{
	"/health",
	"/metrics",
	"/debug/pprof/*",
}

func skipAccessLog(path string) bool {
	for _, rule := range excludedPaths {
		if prefix, ok := strings.CutSuffix(rule, "/*"); ok {
			if strings.HasPrefix(path, prefix) {
				return true
			}
		} else if path == rule {
			return true
		}
	}
	return false
}

// AccessLogMiddleware 访问日志
func AccessLogMiddleware(enabled bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !enabled || skipAccessLog(c.Path()) {
			return c.Next()
		}

		start := time.Now()
		err := c.Next()
		latency := time.Since(start)

		log.WithContext(c.UserContext()).Infow("HTTP request",
			"method", c.Method(),
			"path", c.Path(),
			"query", string(c.Request().URI().QueryString()),
			"status", c.Response().StatusCode(),
			"ip", ClientIP(c),
			"user_agent", c.Get(fiber.HeaderUserAgent),
			"user_id", CurrentUserId(c),
			"latency", latency.String(),
		)
		return err
	}
}
