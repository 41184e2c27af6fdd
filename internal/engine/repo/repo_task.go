package repo

import (
	"context"
	"time"

	"github.com/go-arcade/suitx/internal/engine/model"
	"github.com/go-arcade/suitx/pkg/database"
)

type ITaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	Get(ctx context.Context, taskId string) (*model.Task, error)
	Save(ctx context.Context, task *model.Task) error
	Delete(ctx context.Context, taskId string) error
	ListByProject(ctx context.Context, projectId string) ([]model.Task, error)
	// ListDueBefore 已分配、未完成、未提醒且截止时间在 deadline 之前的任务
	ListDueBefore(ctx context.Context, deadline time.Time) ([]model.Task, error)
	MarkDeadlineNotified(ctx context.Context, taskId string, at time.Time) error
}

type TaskRepo struct {
	db database.IDatabase
}

func NewTaskRepo(db database.IDatabase) ITaskRepository {
	return &TaskRepo{db: db}
}

func (r *TaskRepo) Create(ctx context.Context, task *model.Task) error {
	return r.db.Database().WithContext(ctx).Create(task).Error
}

func (r *TaskRepo) Get(ctx context.Context, taskId string) (*model.Task, error) {
	var task model.Task
	err := r.db.Database().WithContext(ctx).Where("task_id = ?", taskId).First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepo) Save(ctx context.Context, task *model.Task) error {
	return r.db.Database().WithContext(ctx).Save(task).Error
}

func (r *TaskRepo) Delete(ctx context.Context, taskId string) error {
	return r.db.Database().WithContext(ctx).Where("task_id = ?", taskId).Delete(&model.Task{}).Error
}

func (r *TaskRepo) ListByProject(ctx context.Context, projectId string) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.Database().WithContext(ctx).
		Where("project_id = ?", projectId).
		Order("created_at DESC").
		Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepo) ListDueBefore(ctx context.Context, deadline time.Time) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.Database().WithContext(ctx).
		Where("status <> ? AND assignee_id <> '' AND deadline_notified_at IS NULL", model.TaskDone).
		Where("due_date IS NOT NULL AND due_date <= ?", deadline).
		Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepo) MarkDeadlineNotified(ctx context.Context, taskId string, at time.Time) error {
	return r.db.Database().WithContext(ctx).Model(&model.Task{}).
		Where("task_id = ?", taskId).
		Update("deadline_notified_at", at).Error
}
