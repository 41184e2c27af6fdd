package router

import (
	"github.com/go-arcade/suitx/internal/engine/model"
	"github.com/go-arcade/suitx/pkg/http/middleware"
	"github.com/gofiber/fiber/v2"
)

/**
 * @author: gagral.x@gmail.com
 * @time: 2025/10/13
 * @file: router_project.go
 * @description: 项目与成员路由
 */

type addMemberReq struct {
	UserId string `json:"userId"`
}

type inviteReq struct {
	UserId  string `json:"userId"`
	Message string `json:"message"`
}

func (rt *Router) projectRouter(r fiber.Router, auth fiber.Handler) {
	projectGroup := r.Group("/projects", auth)
	{
		projectGroup.Post("/", rt.createProject)
		projectGroup.Get("/", rt.listProjects)
		projectGroup.Get("/:projectId", rt.getProject)
		projectGroup.Put("/:projectId", rt.updateProject)
		projectGroup.Delete("/:projectId", rt.deleteProject)

		// 成员
		projectGroup.Get("/:projectId/members", rt.listMembers)
		projectGroup.Post("/:projectId/members", rt.addMember)
		projectGroup.Delete("/:projectId/members/:userId", rt.removeMember)

		// 邀请
		projectGroup.Post("/:projectId/invitations", rt.invite)
		projectGroup.Get("/:projectId/invitations", rt.listProjectInvitations)

		// 任务、风险、缓解措施
		projectGroup.Post("/:projectId/tasks", rt.createTask)
		projectGroup.Get("/:projectId/tasks", rt.listTasks)
		projectGroup.Post("/:projectId/risks", rt.createRisk)
		projectGroup.Get("/:projectId/risks", rt.listRisks)
		projectGroup.Post("/:projectId/mitigations", rt.createMitigation)
		projectGroup.Get("/:projectId/mitigations", rt.listMitigations)
	}
}

func (rt *Router) createProject(c *fiber.Ctx) error {
	var req model.CreateProjectReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}

	project, err := rt.Services.Project.Create(c.UserContext(), middleware.CurrentUserId(c), &req)
	if err != nil {
		return fail(c, err)
	}
	return detail(c, project)
}

func (rt *Router) listProjects(c *fiber.Ctx) error {
	projects, err := rt.Services.Project.ListMine(c.UserContext(), middleware.CurrentUserId(c))
	if err != nil {
		return fail(c, err)
	}
	return detail(c, projects)
}

func (rt *Router) getProject(c *fiber.Ctx) error {
	project, err := rt.Services.Project.Get(c.UserContext(), c.Params("projectId"), middleware.CurrentUserId(c))
	if err != nil {
		return fail(c, err)
	}
	return detail(c, project)
}

func (rt *Router) updateProject(c *fiber.Ctx) error {
	var req model.UpdateProjectReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}

	project, err := rt.Services.Project.Update(c.UserContext(), c.Params("projectId"), middleware.CurrentUserId(c), &req)
	if err != nil {
		return fail(c, err)
	}
	return detail(c, project)
}

func (rt *Router) deleteProject(c *fiber.Ctx) error {
	if err := rt.Services.Project.Delete(c.UserContext(), c.Params("projectId"), middleware.CurrentUserId(c)); err != nil {
		return fail(c, err)
	}
	return operation(c)
}

func (rt *Router) listMembers(c *fiber.Ctx) error {
	members, err := rt.Services.Membership.ListMembers(c.UserContext(), c.Params("projectId"), middleware.CurrentUserId(c))
	if err != nil {
		return fail(c, err)
	}
	return detail(c, members)
}

func (rt *Router) addMember(c *fiber.Ctx) error {
	var req addMemberReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}

	project, err := rt.Services.Membership.AddMember(c.UserContext(), c.Params("projectId"), req.UserId, middleware.CurrentUserId(c))
	if err != nil {
		return fail(c, err)
	}
	return detail(c, project)
}

func (rt *Router) removeMember(c *fiber.Ctx) error {
	project, err := rt.Services.Membership.RemoveMember(c.UserContext(), c.Params("projectId"), c.Params("userId"), middleware.CurrentUserId(c))
	if err != nil {
		return fail(c, err)
	}
	return detail(c, project)
}

func (rt *Router) invite(c *fiber.Ctx) error {
	var req inviteReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}

	invitation, err := rt.Services.Invitation.Invite(c.UserContext(), c.Params("projectId"), req.UserId, middleware.CurrentUserId(c), req.Message)
	if err != nil {
		return fail(c, err)
	}
	return detail(c, invitation)
}

func (rt *Router) listProjectInvitations(c *fiber.Ctx) error {
	invitations, err := rt.Services.Invitation.ListProjectInvitations(c.UserContext(), c.Params("projectId"), middleware.CurrentUserId(c))
	if err != nil {
		return fail(c, err)
	}
	return detail(c, invitations)
}
