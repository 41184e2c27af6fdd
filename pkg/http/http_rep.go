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

package http

import (
	"github.com/gofiber/fiber/v2"
)

// Response 统一响应体，也用作 http_code.go 中的错误码定义
type Response struct {
	Code   int    `json:"code"`
	Detail any    `json:"detail,omitempty"`
	Msg    string `json:"msg"`
}

// WithRepJSON 成功并返回 detail
func WithRepJSON(c *fiber.Ctx, detail any) error {
	return c.JSON(succeed(detail))
}

// WithRepNotDetail 成功但只返回操作结果，响应体没有 detail 字段
func WithRepNotDetail(c *fiber.Ctx) error {
	return c.JSON(succeed(nil))
}

func succeed(detail any) Response {
	return Response{Code: Success.Code, Detail: detail, Msg: Success.Msg}
}
