package model

import "time"

const (
	MitigationPlanned   = "PLANNED"
	MitigationActive    = "ACTIVE"
	MitigationCompleted = "COMPLETED"
)

// Mitigation 风险缓解措施
type Mitigation struct {
	BaseModel
	MitigationId       string     `gorm:"column:mitigation_id;type:varchar(64);uniqueIndex;not null" json:"mitigationId"`
	ProjectId          string     `gorm:"column:project_id;type:varchar(64);not null;index" json:"projectId"`
	RiskId             string     `gorm:"column:risk_id;type:varchar(64);index" json:"riskId"`
	Title              string     `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Description        string     `gorm:"column:description;type:text" json:"description"`
	Status             string     `gorm:"column:status;type:varchar(16);default:PLANNED" json:"status"`
	Priority           string     `gorm:"column:priority;type:varchar(16);default:MEDIUM" json:"priority"`
	AssigneeId         string     `gorm:"column:assignee_id;type:varchar(64);index" json:"assigneeId"`
	CreatedBy          string     `gorm:"column:created_by;type:varchar(64)" json:"createdBy"`
	DueDate            *time.Time `gorm:"column:due_date" json:"dueDate,omitempty"`
	CompletedAt        *time.Time `gorm:"column:completed_at" json:"completedAt,omitempty"`
	ProgressPercentage float64    `gorm:"column:progress_percentage;default:0" json:"progressPercentage"`
}

func (m *Mitigation) TableName() string {
	return "t_mitigation"
}

type MitigationReq struct {
	RiskId             *string    `json:"riskId"`
	Title              *string    `json:"title"`
	Description        *string    `json:"description"`
	Status             *string    `json:"status"`
	Priority           *string    `json:"priority"`
	AssigneeId         *string    `json:"assigneeId"`
	DueDate            *time.Time `json:"dueDate"`
	ProgressPercentage *float64   `json:"progressPercentage"`
}
