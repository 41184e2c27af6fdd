// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package model

import "time"

// ProjectStatus 项目状态
type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "ACTIVE"
	ProjectCompleted ProjectStatus = "COMPLETED"
	ProjectOnHold    ProjectStatus = "ON_HOLD"
	ProjectCancelled ProjectStatus = "CANCELLED"
	ProjectArchived  ProjectStatus = "ARCHIVED"
)

// Project 项目表
// ownerId 为空的旧记录通过 createdBy（创建者用户名）识别所有者
type Project struct {
	BaseModel
	ProjectId          string        `gorm:"column:project_id;type:varchar(64);uniqueIndex;not null" json:"projectId"`
	Name               string        `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Description        string        `gorm:"column:description;type:text" json:"description"`
	Status             ProjectStatus `gorm:"column:status;type:varchar(32);default:ACTIVE" json:"status"`
	ProgressPercentage float64       `gorm:"column:progress_percentage;default:0" json:"progressPercentage"`
	StartDate          *time.Time    `gorm:"column:start_date" json:"startDate,omitempty"`
	EndDate            *time.Time    `gorm:"column:end_date" json:"endDate,omitempty"`
	OwnerId            string        `gorm:"column:owner_id;type:varchar(64);index" json:"ownerId"`
	CreatedBy          string        `gorm:"column:created_by;type:varchar(255)" json:"createdBy"`
}

func (p *Project) TableName() string {
	return "t_project"
}

// IsOwner 判断 userId/username 是否为项目所有者
func (p *Project) IsOwner(userId, username string) bool {
	if p.OwnerId != "" {
		return p.OwnerId == userId
	}
	return username != "" && p.CreatedBy == username
}

// ProjectView 项目及其当前成员
type ProjectView struct {
	*Project
	MemberIds []string `json:"memberIds"`
}

// HasMember 判断 userId 是否在成员列表中
func (v *ProjectView) HasMember(userId string) bool {
	for _, id := range v.MemberIds {
		if id == userId {
			return true
		}
	}
	return false
}

// CreateProjectReq 创建项目请求
type CreateProjectReq struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
}

// UpdateProjectReq 更新项目请求，nil 字段不修改
type UpdateProjectReq struct {
	Name               *string        `json:"name"`
	Description        *string        `json:"description"`
	Status             *ProjectStatus `json:"status"`
	ProgressPercentage *float64       `json:"progressPercentage"`
	StartDate          *time.Time     `json:"startDate"`
	EndDate            *time.Time     `json:"endDate"`
}
