package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-arcade/suitx/internal/engine/model"
	"github.com/go-arcade/suitx/internal/engine/repo"
	"github.com/go-arcade/suitx/pkg/id"
	"github.com/go-arcade/suitx/pkg/log"
)

type TaskService struct {
	producer
	taskRepo repo.ITaskRepository
}

func NewTaskService(
	taskRepo repo.ITaskRepository,
	projects *ProjectService,
	identities IdentityResolver,
	notifications *NotificationService,
	mailer Mailer,
) *TaskService {
	return &TaskService{
		producer: newProducer(projects, identities, notifications, mailer),
		taskRepo: taskRepo,
	}
}

func (s *TaskService) Create(ctx context.Context, projectId, userId string, req *model.TaskReq) (*model.Task, error) {
	project, err := s.projects.ensureAccess(ctx, projectId, userId)
	if err != nil {
		return nil, err
	}
	if req.Title == nil || strings.TrimSpace(*req.Title) == "" {
		return nil, InvalidArgument("task title is required")
	}

	task := &model.Task{
		TaskId:    id.GetUUIDWithoutDashes(),
		ProjectId: projectId,
		Status:    model.TaskTodo,
		Priority:  string(model.PriorityMedium),
		CreatedBy: userId,
	}
	if err := s.apply(task, req); err != nil {
		return nil, err
	}

	var assignee *model.Identity
	if task.AssigneeId != "" {
		if assignee, err = s.assignee(ctx, project, task.AssigneeId); err != nil {
			return nil, err
		}
	}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		log.WithContext(ctx).Errorw("create task failed", "projectId", projectId, "error", err)
		return nil, fmt.Errorf("create task: %w", err)
	}

	if assignee != nil && reassigned("", task.AssigneeId, userId) {
		s.notifyAssignment(ctx, project, task, assignee, userId)
	}
	return task, nil
}

// apply 按非空字段更新任务
func (s *TaskService) apply(task *model.Task, req *model.TaskReq) error {
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return InvalidArgument("task title is required")
		}
		task.Title = title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Status != nil {
		switch *req.Status {
		case model.TaskTodo, model.TaskInProgress, model.TaskBlocked:
			task.CompletedAt = nil
		case model.TaskDone:
			if task.Status != model.TaskDone {
				now := s.now()
				task.CompletedAt = &now
			}
		default:
			return InvalidArgument("unknown task status: " + *req.Status)
		}
		task.Status = *req.Status
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.AssigneeId != nil {
		task.AssigneeId = *req.AssigneeId
	}
	if req.DueDate != nil {
		task.DueDate = dateOrNil(req.DueDate)
		task.DeadlineNotifiedAt = nil
	}
	if req.StartDate != nil {
		task.StartDate = dateOrNil(req.StartDate)
	}
	if req.EstimatedHours != nil {
		task.EstimatedHours = *req.EstimatedHours
	}
	if req.ActualHours != nil {
		task.ActualHours = *req.ActualHours
	}
	return nil
}

func (s *TaskService) notifyAssignment(ctx context.Context, project *model.Project, task *model.Task, assignee *model.Identity, actorId string) {
	assigner := s.displayName(ctx, actorId)
	s.notifications.Notify(ctx, model.NewTaskAssignedNotification(
		assignee.UserId, task.TaskId, task.Title, project.Name, assigner, s.now()))
	s.mailer.Send(ctx, AssignmentEmail(MailKindTask, assignee.Email, assignee.DisplayName(),
		task.Title, project.Name, task.Priority, task.Description, task.DueDate))
}

// load 加载任务并校验项目访问权限
func (s *TaskService) load(ctx context.Context, taskId, userId string) (*model.Task, *model.Project, error) {
	task, err := s.taskRepo.Get(ctx, taskId)
	if err != nil {
		return nil, nil, notFoundOr(err, "task not found")
	}
	project, err := s.projects.ensureAccess(ctx, task.ProjectId, userId)
	if err != nil {
		return nil, nil, err
	}
	return task, project, nil
}

func (s *TaskService) Get(ctx context.Context, taskId, userId string) (*model.Task, error) {
	task, _, err := s.load(ctx, taskId, userId)
	return task, err
}

func (s *TaskService) Update(ctx context.Context, taskId, userId string, req *model.TaskReq) (*model.Task, error) {
	task, project, err := s.load(ctx, taskId, userId)
	if err != nil {
		return nil, err
	}
	previous := task.AssigneeId
	if err := s.apply(task, req); err != nil {
		return nil, err
	}

	var assignee *model.Identity
	if reassigned(previous, task.AssigneeId, "") {
		if assignee, err = s.assignee(ctx, project, task.AssigneeId); err != nil {
			return nil, err
		}
	}
	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	if assignee != nil && reassigned(previous, task.AssigneeId, userId) {
		s.notifyAssignment(ctx, project, task, assignee, userId)
	}
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, taskId, userId string) error {
	if _, _, err := s.load(ctx, taskId, userId); err != nil {
		return err
	}
	if err := s.taskRepo.Delete(ctx, taskId); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

func (s *TaskService) ListByProject(ctx context.Context, projectId, userId string) ([]model.Task, error) {
	if _, err := s.projects.ensureAccess(ctx, projectId, userId); err != nil {
		return nil, err
	}
	tasks, err := s.taskRepo.ListByProject(ctx, projectId)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}
