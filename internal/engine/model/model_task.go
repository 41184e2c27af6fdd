package model

import "time"

/**
 * @author: gagral.x@gmail.com
 * @time: 2025/11/04
 * @file: model_task.go
 * @description: 任务模型
 */

const (
	TaskTodo       = "TODO"
	TaskInProgress = "IN_PROGRESS"
	TaskDone       = "DONE"
	TaskBlocked    = "BLOCKED"
)

type Task struct {
	BaseModel
	TaskId             string     `gorm:"column:task_id;type:varchar(64);uniqueIndex;not null" json:"taskId"`
	ProjectId          string     `gorm:"column:project_id;type:varchar(64);not null;index" json:"projectId"`
	Title              string     `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Description        string     `gorm:"column:description;type:text" json:"description"`
	Status             string     `gorm:"column:status;type:varchar(32);default:TODO" json:"status"`
	Priority           string     `gorm:"column:priority;type:varchar(16);default:MEDIUM" json:"priority"`
	AssigneeId         string     `gorm:"column:assignee_id;type:varchar(64);index" json:"assigneeId"`
	CreatedBy          string     `gorm:"column:created_by;type:varchar(64)" json:"createdBy"`
	DueDate            *time.Time `gorm:"column:due_date;index" json:"dueDate,omitempty"`
	StartDate          *time.Time `gorm:"column:start_date" json:"startDate,omitempty"`
	CompletedAt        *time.Time `gorm:"column:completed_at" json:"completedAt,omitempty"`
	EstimatedHours     float64    `gorm:"column:estimated_hours" json:"estimatedHours"`
	ActualHours        float64    `gorm:"column:actual_hours" json:"actualHours"`
	DeadlineNotifiedAt *time.Time `gorm:"column:deadline_notified_at" json:"-"`
}

func (t *Task) TableName() string {
	return "t_task"
}

func (t *Task) IsOpen() bool {
	return t.Status != TaskDone
}

type TaskReq struct {
	Title          *string    `json:"title"`
	Description    *string    `json:"description"`
	Status         *string    `json:"status"`
	Priority       *string    `json:"priority"`
	AssigneeId     *string    `json:"assigneeId"`
	DueDate        *time.Time `json:"dueDate"`
	StartDate      *time.Time `json:"startDate"`
	EstimatedHours *float64   `json:"estimatedHours"`
	ActualHours    *float64   `json:"actualHours"`
}
