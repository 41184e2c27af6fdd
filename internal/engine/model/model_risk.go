package model

import "time"

// 风险等级
const (
	SeverityLow      = "LOW"
	SeverityMedium   = "MEDIUM"
	SeverityHigh     = "HIGH"
	SeverityCritical = "CRITICAL"
)

const (
	RiskActive   = "ACTIVE"
	RiskResolved = "RESOLVED"
	RiskIgnored  = "IGNORED"
)

type Risk struct {
	BaseModel
	RiskId      string     `gorm:"column:risk_id;type:varchar(64);uniqueIndex;not null" json:"riskId"`
	ProjectId   string     `gorm:"column:project_id;type:varchar(64);not null;index" json:"projectId"`
	Title       string     `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Description string     `gorm:"column:description;type:text" json:"description"`
	Type        string     `gorm:"column:type;type:varchar(64)" json:"type"`
	Severity    string     `gorm:"column:severity;type:varchar(16);default:MEDIUM" json:"severity"`
	Status      string     `gorm:"column:status;type:varchar(16);default:ACTIVE" json:"status"`
	AssigneeId  string     `gorm:"column:assignee_id;type:varchar(64)" json:"assigneeId"`
	CreatedBy   string     `gorm:"column:created_by;type:varchar(64)" json:"createdBy"`
	ResolvedAt  *time.Time `gorm:"column:resolved_at" json:"resolvedAt,omitempty"`
}

func (r *Risk) TableName() string {
	return "t_risk"
}

// IsSevere CRITICAL/HIGH 风险需要通知项目所有者
func (r *Risk) IsSevere() bool {
	return r.Severity == SeverityCritical || r.Severity == SeverityHigh
}

type RiskReq struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Type        *string `json:"type"`
	Severity    *string `json:"severity"`
	Status      *string `json:"status"`
	AssigneeId  *string `json:"assigneeId"`
}
