package model

/**
 * @author: gagral.x@gmail.com
 * @time: 2025/10/13
 * @file: model_project_member.go
 * @description: 项目成员模型
 */

// ProjectMember 项目成员表，成员关系的权威来源
type ProjectMember struct {
	BaseModel
	ProjectId string `gorm:"column:project_id;type:varchar(64);not null;uniqueIndex:idx_project_user,priority:1" json:"projectId"`
	UserId    string `gorm:"column:user_id;type:varchar(64);not null;uniqueIndex:idx_project_user,priority:2;index" json:"userId"`
}

func (pm *ProjectMember) TableName() string {
	return "t_project_member"
}

// UserMemberProject 用户所属项目索引，由项目侧派生
type UserMemberProject struct {
	BaseModel
	UserId    string `gorm:"column:user_id;type:varchar(64);not null;uniqueIndex:idx_user_project,priority:1" json:"userId"`
	ProjectId string `gorm:"column:project_id;type:varchar(64);not null;uniqueIndex:idx_user_project,priority:2;index" json:"projectId"`
}

func (um *UserMemberProject) TableName() string {
	return "t_user_member_project"
}

// AddMemberReq 添加成员请求
type AddMemberReq struct {
	UserId string `json:"userId"`
}
