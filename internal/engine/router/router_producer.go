package router

import (
	"github.com/go-arcade/suitx/internal/engine/model"
	"github.com/go-arcade/suitx/pkg/http/middleware"
	"github.com/gofiber/fiber/v2"
)

/**
 * @author: gagral.x@gmail.com
 * @time: 2025/11/06
 * @file: router_producer.go
 * @description: 任务、风险、缓解措施路由，按项目创建与列出的接口挂在 /projects 下
 */

func (rt *Router) taskRouter(r fiber.Router, auth fiber.Handler) {
	taskGroup := r.Group("/tasks", auth)
	{
		taskGroup.Get("/:taskId", rt.getTask)
		taskGroup.Put("/:taskId", rt.updateTask)
		taskGroup.Delete("/:taskId", rt.deleteTask)
	}
}

func (rt *Router) riskRouter(r fiber.Router, auth fiber.Handler) {
	riskGroup := r.Group("/risks", auth)
	{
		riskGroup.Get("/:riskId", rt.getRisk)
		riskGroup.Put("/:riskId", rt.updateRisk)
		riskGroup.Delete("/:riskId", rt.deleteRisk)
	}
}

func (rt *Router) mitigationRouter(r fiber.Router, auth fiber.Handler) {
	mitigationGroup := r.Group("/mitigations", auth)
	{
		mitigationGroup.Get("/:mitigationId", rt.getMitigation)
		mitigationGroup.Put("/:mitigationId", rt.updateMitigation)
		mitigationGroup.Delete("/:mitigationId", rt.deleteMitigation)
	}
}

// task

func (rt *Router) createTask(c *fiber.Ctx) error {
	var req model.TaskReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	task, err := rt.Services.Task.Create(c.UserContext(), c.Params("projectId"), middleware.CurrentUserId(c), &req)
	if err != nil {
		return fail(c, err)
	}
	return detail(c, task)
}

func (rt *Router) listTasks(c *fiber.Ctx) error {
	tasks, err := rt.Services.Task.ListByProject(c.UserContext(), c.Params("projectId"), middleware.CurrentUserId(c))
	if err != nil {
		return fail(c, err)
	}
	return detail(c, tasks)
}

func (rt *Router) getTask(c *fiber.Ctx) error {
	task, err := rt.Services.Task.Get(c.UserContext(), c.Params("taskId"), middleware.CurrentUserId(c))
	if err != nil {
		return fail(c, err)
	}
	return detail(c, task)
}

func (rt *Router) updateTask(c *fiber.Ctx) error {
	var req model.TaskReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	task, err := rt.Services.Task.Update(c.UserContext(), c.Params("taskId"), middleware.CurrentUserId(c), &req)
	if err != nil {
		return fail(c, err)
	}
	return detail(c, task)
}

func (rt *Router) deleteTask(c *fiber.Ctx) error {
	if err := rt.Services.Task.Delete(c.UserContext(), c.Params("taskId"), middleware.CurrentUserId(c)); err != nil {
		return fail(c, err)
	}
	return operation(c)
}

// risk

func (rt *Router) createRisk(c *fiber.Ctx) error {
	var req model.RiskReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	risk, err := rt.Services.Risk.Create(c.UserContext(), c.Params("projectId"), middleware.CurrentUserId(c), &req)
	if err != nil {
		return fail(c, err)
	}
	return detail(c, risk)
}

func (rt *Router) listRisks(c *fiber.Ctx) error {
	risks, err := rt.Services.Risk.ListByProject(c.UserContext(), c.Params("projectId"), middleware.CurrentUserId(c))
	if err != nil {
		return fail(c, err)
	}
	return detail(c, risks)
}

func (rt *Router) getRisk(c *fiber.Ctx) error {
	risk, err := rt.Services.Risk.Get(c.UserContext(), c.Params("riskId"), middleware.CurrentUserId(c))
	if err != nil {
		return fail(c, err)
	}
	return detail(c, risk)
}

func (rt *Router) updateRisk(c *fiber.Ctx) error {
	var req model.RiskReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	risk, err := rt.Services.Risk.Update(c.UserContext(), c.Params("riskId"), middleware.CurrentUserId(c), &req)
	if err != nil {
		return fail(c, err)
	}
	return detail(c, risk)
}

func (rt *Router) deleteRisk(c *fiber.Ctx) error {
	if err := rt.Services.Risk.Delete(c.UserContext(), c.Params("riskId"), middleware.CurrentUserId(c)); err != nil {
		return fail(c, err)
	}
	return operation(c)
}

// mitigation

func (rt *Router) createMitigation(c *fiber.Ctx) error {
	var req model.MitigationReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	mitigation, err := rt.Services.Mitigation.Create(c.UserContext(), c.Params("projectId"), middleware.CurrentUserId(c), &req)
	if err != nil {
		return fail(c, err)
	}
	return detail(c, mitigation)
}

func (rt *Router) listMitigations(c *fiber.Ctx) error {
	mitigations, err := rt.Services.Mitigation.ListByProject(c.UserContext(), c.Params("projectId"), middleware.CurrentUserId(c))
	if err != nil {
		return fail(c, err)
	}
	return detail(c, mitigations)
}

func (rt *Router) getMitigation(c *fiber.Ctx) error {
	mitigation, err := rt.Services.Mitigation.Get(c.UserContext(), c.Params("mitigationId"), middleware.CurrentUserId(c))
	if err != nil {
		return fail(c, err)
	}
	return detail(c, mitigation)
}

func (rt *Router) updateMitigation(c *fiber.Ctx) error {
	var req model.MitigationReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	mitigation, err := rt.Services.Mitigation.Update(c.UserContext(), c.Params("mitigationId"), middleware.CurrentUserId(c), &req)
	if err != nil {
		return fail(c, err)
	}
	return detail(c, mitigation)
}

func (rt *Router) deleteMitigation(c *fiber.Ctx) error {
	if err := rt.Services.Mitigation.Delete(c.UserContext(), c.Params("mitigationId"), middleware.CurrentUserId(c)); err != nil {
		return fail(c, err)
	}
	return operation(c)
}
