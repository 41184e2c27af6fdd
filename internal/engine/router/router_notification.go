package router

import (
	"github.com/go-arcade/suitx/pkg/http/middleware"
	"github.com/gofiber/fiber/v2"
)

// 静态路径需在 /:notificationId 之前注册
func (rt *Router) notificationRouter(r fiber.Router, auth fiber.Handler) {
	notificationGroup := r.Group("/notifications", auth)
	{
		notificationGroup.Get("/", rt.listNotifications)
		notificationGroup.Get("/unread", rt.listUnread)
		notificationGroup.Get("/unread/count", rt.unreadCount)
		notificationGroup.Put("/read-all", rt.markAllRead)
		notificationGroup.Delete("/read", rt.deleteRead)
		notificationGroup.Put("/:notificationId/read", rt.markRead)
		notificationGroup.Delete("/:notificationId", rt.deleteNotification)
	}
}

func (rt *Router) listNotifications(c *fiber.Ctx) error {
	notifications, err := rt.Services.Notification.List(c.UserContext(), middleware.CurrentUserId(c))
	if err != nil {
		return fail(c, err)
	}
	return detail(c, notifications)
}

func (rt *Router) listUnread(c *fiber.Ctx) error {
	notifications, err := rt.Services.Notification.ListUnread(c.UserContext(), middleware.CurrentUserId(c))
	if err != nil {
		return fail(c, err)
	}
	return detail(c, notifications)
}

func (rt *Router) unreadCount(c *fiber.Ctx) error {
	count, err := rt.Services.Notification.UnreadCount(c.UserContext(), middleware.CurrentUserId(c))
	if err != nil {
		return fail(c, err)
	}
	return detail(c, fiber.Map{"count": count})
}

func (rt *Router) markRead(c *fiber.Ctx) error {
	notification, err := rt.Services.Notification.MarkRead(c.UserContext(), c.Params("notificationId"), middleware.CurrentUserId(c))
	if err != nil {
		return fail(c, err)
	}
	return detail(c, notification)
}

func (rt *Router) markAllRead(c *fiber.Ctx) error {
	marked, err := rt.Services.Notification.MarkAllRead(c.UserContext(), middleware.CurrentUserId(c))
	if err != nil {
		return fail(c, err)
	}
	return detail(c, fiber.Map{"count": marked})
}

func (rt *Router) deleteNotification(c *fiber.Ctx) error {
	if err := rt.Services.Notification.Delete(c.UserContext(), c.Params("notificationId"), middleware.CurrentUserId(c)); err != nil {
		return fail(c, err)
	}
	return operation(c)
}

func (rt *Router) deleteRead(c *fiber.Ctx) error {
	deleted, err := rt.Services.Notification.DeleteRead(c.UserContext(), middleware.CurrentUserId(c))
	if err != nil {
		return fail(c, err)
	}
	return detail(c, fiber.Map{"count": deleted})
}
