package http

import (
	"github.com/gofiber/fiber/v2"
)

type ResponseErr struct {
	ErrCode int    `json:"code"`
	ErrMsg  any    `json:"errMsg"`
	Path    string `json:"path,omitempty"`
}

// WithRepErr 返回操作结果，返回结构体有path字段
func WithRepErr(c *fiber.Ctx, code int, errMsg string, path string) error {
	return c.JSON(ResponseErr{
		ErrCode: code,
		ErrMsg:  errMsg,
		Path:    path,
	})
}

// WithRepErrMsg 返回自定义错误码与信息
func WithRepErrMsg(c *fiber.Ctx, code int, errMsg string, path string) error {
	return WithRepErr(c, code, errMsg, path)
}

// WithRepFailed 使用预定义错误
func WithRepFailed(c *fiber.Ctx, rep *Response) error {
	return WithRepErr(c, rep.Code, rep.Msg, c.Path())
}
