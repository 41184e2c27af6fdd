package router

import (
	"github.com/go-arcade/suitx/pkg/http/middleware"
	"github.com/gofiber/fiber/v2"
)

func (rt *Router) invitationRouter(r fiber.Router, auth fiber.Handler) {
	invitationGroup := r.Group("/invitations", auth)
	{
		invitationGroup.Get("/", rt.listMyInvitations)
		invitationGroup.Get("/pending", rt.listPendingInvitations)
		invitationGroup.Get("/:invitationId", rt.getInvitation)
		invitationGroup.Post("/:invitationId/accept", rt.acceptInvitation)
		invitationGroup.Post("/:invitationId/reject", rt.rejectInvitation)
		invitationGroup.Post("/:invitationId/cancel", rt.cancelInvitation)
	}
}

func (rt *Router) listMyInvitations(c *fiber.Ctx) error {
	invitations, err := rt.Services.Invitation.ListMyInvitations(c.UserContext(), middleware.CurrentUserId(c))
	if err != nil {
		return fail(c, err)
	}
	return detail(c, invitations)
}

func (rt *Router) listPendingInvitations(c *fiber.Ctx) error {
	invitations, err := rt.Services.Invitation.ListPendingInvitations(c.UserContext(), middleware.CurrentUserId(c))
	if err != nil {
		return fail(c, err)
	}
	return detail(c, invitations)
}

func (rt *Router) getInvitation(c *fiber.Ctx) error {
	invitation, err := rt.Services.Invitation.GetInvitation(c.UserContext(), c.Params("invitationId"), middleware.CurrentUserId(c))
	if err != nil {
		return fail(c, err)
	}
	return detail(c, invitation)
}

func (rt *Router) acceptInvitation(c *fiber.Ctx) error {
	invitation, err := rt.Services.Invitation.Accept(c.UserContext(), c.Params("invitationId"), middleware.CurrentUserId(c))
	if err != nil {
		return fail(c, err)
	}
	return detail(c, invitation)
}

func (rt *Router) rejectInvitation(c *fiber.Ctx) error {
	invitation, err := rt.Services.Invitation.Reject(c.UserContext(), c.Params("invitationId"), middleware.CurrentUserId(c))
	if err != nil {
		return fail(c, err)
	}
	return detail(c, invitation)
}

func (rt *Router) cancelInvitation(c *fiber.Ctx) error {
	invitation, err := rt.Services.Invitation.Cancel(c.UserContext(), c.Params("invitationId"), middleware.CurrentUserId(c))
	if err != nil {
		return fail(c, err)
	}
	return detail(c, invitation)
}
