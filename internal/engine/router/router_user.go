package router

import (
	"github.com/go-arcade/suitx/internal/engine/model"
	"github.com/go-arcade/suitx/pkg/http"
	"github.com/go-arcade/suitx/pkg/http/middleware"
	"github.com/gofiber/fiber/v2"
)

/**
 * @author: gagral.x@gmail.com
 * @time: 2024/10/4 10:47
 * @file: router_user.go
 * @description: user router
 */

func (rt *Router) userRouter(r fiber.Router, auth fiber.Handler) {
	userGroup := r.Group("/user")
	{
		userGroup.Post("/login", rt.login)
		userGroup.Post("/register", rt.register)
		// access token 过期后仍可刷新，由 refresh token 与会话校验
		userGroup.Get("/refresh", rt.refresh)

		userGroup.Post("/logout", auth, rt.logout)
		userGroup.Get("/profile", auth, rt.getProfile)
		userGroup.Put("/profile", auth, rt.updateProfile)
		userGroup.Put("/password", auth, rt.changePassword)
		userGroup.Get("/settings", auth, rt.getSettings)
		userGroup.Put("/settings", auth, rt.saveSettings)

		userGroup.Get("/search", auth, rt.searchUsers)
		userGroup.Get("/username/:username", auth, rt.getUserByUsername)
		// 放在最后，避免吞掉上面的静态路径
		userGroup.Get("/:userId", auth, rt.getUser)
	}
}

func (rt *Router) login(c *fiber.Ctx) error {
	var login model.Login
	if err := c.BodyParser(&login); err != nil {
		return badRequest(c, err)
	}

	resp, err := rt.Services.User.Login(c.UserContext(), &login)
	if err != nil {
		return fail(c, err)
	}
	return detail(c, resp)
}

func (rt *Router) register(c *fiber.Ctx) error {
	var register model.Register
	if err := c.BodyParser(&register); err != nil {
		return badRequest(c, err)
	}

	identity, err := rt.Services.User.Register(c.UserContext(), &register)
	if err != nil {
		return fail(c, err)
	}
	return detail(c, identity)
}

func (rt *Router) refresh(c *fiber.Ctx) error {
	userId := c.Query("userId")
	refreshToken := c.Query("refreshToken")
	if userId == "" || refreshToken == "" {
		return http.WithRepFailed(c, http.TokenBeEmpty)
	}

	token, err := rt.Services.User.Refresh(c.UserContext(), userId, refreshToken)
	if err != nil {
		return fail(c, err)
	}
	return detail(c, token)
}

func (rt *Router) logout(c *fiber.Ctx) error {
	if err := rt.Services.User.Logout(c.UserContext(), middleware.CurrentUserId(c)); err != nil {
		return fail(c, err)
	}
	return operation(c)
}

func (rt *Router) getProfile(c *fiber.Ctx) error {
	user, err := rt.Services.User.GetProfile(c.UserContext(), middleware.CurrentUserId(c))
	if err != nil {
		return fail(c, err)
	}
	return detail(c, user)
}

func (rt *Router) updateProfile(c *fiber.Ctx) error {
	var req model.UpdateProfileReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}

	user, err := rt.Services.User.UpdateProfile(c.UserContext(), middleware.CurrentUserId(c), &req)
	if err != nil {
		return fail(c, err)
	}
	return detail(c, user)
}

func (rt *Router) changePassword(c *fiber.Ctx) error {
	var req model.ChangePasswordReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}

	if err := rt.Services.User.ChangePassword(c.UserContext(), middleware.CurrentUserId(c), &req); err != nil {
		return fail(c, err)
	}
	return operation(c)
}

func (rt *Router) getSettings(c *fiber.Ctx) error {
	settings, err := rt.Services.Settings.Get(c.UserContext(), middleware.CurrentUserId(c))
	if err != nil {
		return fail(c, err)
	}
	return detail(c, settings)
}

func (rt *Router) saveSettings(c *fiber.Ctx) error {
	var req model.UpdateSettingsReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}

	settings, err := rt.Services.Settings.Save(c.UserContext(), middleware.CurrentUserId(c), &req)
	if err != nil {
		return fail(c, err)
	}
	return detail(c, settings)
}

func (rt *Router) searchUsers(c *fiber.Ctx) error {
	users, err := rt.Services.User.Search(c.UserContext(), c.Query("q"))
	if err != nil {
		return fail(c, err)
	}
	return detail(c, users)
}

func (rt *Router) getUserByUsername(c *fiber.Ctx) error {
	user, err := rt.Services.User.GetByUsername(c.UserContext(), c.Params("username"))
	if err != nil {
		return fail(c, err)
	}
	return detail(c, user)
}

func (rt *Router) getUser(c *fiber.Ctx) error {
	user, err := rt.Services.User.GetProfile(c.UserContext(), c.Params("userId"))
	if err != nil {
		return fail(c, err)
	}
	return detail(c, user)
}
