package router

import (
	"errors"

	"github.com/go-arcade/suitx/internal/engine/consts"
	"github.com/go-arcade/suitx/internal/engine/service"
	"github.com/go-arcade/suitx/pkg/http"
	"github.com/go-arcade/suitx/pkg/log"
	"github.com/gofiber/fiber/v2"
)

// repFor 业务错误映射为响应码
func repFor(err error) *http.Response {
	switch {
	case errors.Is(err, service.ErrAlreadyMember):
		return http.AlreadyMember
	case errors.Is(err, service.ErrInvitationPending):
		return http.InvitationPending
	case errors.Is(err, service.ErrUserExists):
		return http.UserAlreadyExist
	}

	switch service.KindOf(err) {
	case service.KindNotFound:
		return http.NotFound
	case service.KindForbidden:
		return http.Forbidden
	case service.KindConflict:
		return http.Conflict
	case service.KindRejectedOperation:
		return http.InvitationNotPending
	case service.KindExpired:
		return http.InvitationExpired
	case service.KindInvalidArgument:
		return http.BadRequest
	}
	return http.InternalError
}

// fail 输出错误响应，内部错误不向客户端暴露细节
func fail(c *fiber.Ctx, err error) error {
	rep := repFor(err)
	if rep == http.InternalError {
		log.WithContext(c.UserContext()).Errorw("request failed", "method", c.Method(), "path", c.Path(), "error", err)
		return http.WithRepFailed(c, rep)
	}

	msg := rep.Msg
	var e *service.Error
	if errors.As(err, &e) && e.Msg != "" {
		msg = e.Msg
	}
	return http.WithRepErr(c, rep.Code, msg, c.Path())
}

// badRequest 请求体解析失败
func badRequest(c *fiber.Ctx, err error) error {
	return http.WithRepErr(c, http.RequestParameterParsingFailed.Code, err.Error(), c.Path())
}

func detail(c *fiber.Ctx, v any) error {
	c.Locals(consts.DETAIL, v)
	return nil
}

func operation(c *fiber.Ctx) error {
	c.Locals(consts.OPERATION, true)
	return nil
}
