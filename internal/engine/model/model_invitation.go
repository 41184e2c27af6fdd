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

import (
	"fmt"
	"time"

	"github.com/go-arcade/suitx/pkg/statemachine"
)

/**
 * @author: gagral.x@gmail.com
 * @time: 2025/11/02
 * @file: model_invitation.go
 * @description: 项目邀请模型
 */

type InvitationStatus = statemachine.InvitationStatus

const (
	InvitationPending   = statemachine.InvitationPending
	InvitationAccepted  = statemachine.InvitationAccepted
	InvitationRejected  = statemachine.InvitationRejected
	InvitationExpired   = statemachine.InvitationExpired
	InvitationCancelled = statemachine.InvitationCancelled
)

// DefaultInvitationTTL 邀请默认有效期
const DefaultInvitationTTL = 7 * 24 * time.Hour

// ProjectInvitation 项目邀请表
// PendingKey 仅在 PENDING 状态下为 "projectId:userId"，进入终止状态后置为 NULL，
// 唯一索引保证同一 (project, user) 至多一条待处理邀请
type ProjectInvitation struct {
	BaseModel
	InvitationId string           `gorm:"column:invitation_id;type:varchar(64);uniqueIndex;not null" json:"invitationId"`
	ProjectId    string           `gorm:"column:project_id;type:varchar(64);not null;index:idx_invitation_project" json:"projectId"`
	UserId       string           `gorm:"column:user_id;type:varchar(64);not null;index:idx_invitation_user" json:"userId"`
	InvitedBy    string           `gorm:"column:invited_by;type:varchar(64);not null" json:"invitedBy"`
	InviterName  string           `gorm:"column:inviter_name;type:varchar(255)" json:"inviterName"`
	Status       InvitationStatus `gorm:"column:status;type:varchar(16);not null;index" json:"status"`
	PendingKey   *string          `gorm:"column:pending_key;type:varchar(160);uniqueIndex" json:"-"`
	InvitedAt    time.Time        `gorm:"column:invited_at;not null" json:"invitedAt"`
	RespondedAt  *time.Time       `gorm:"column:responded_at" json:"respondedAt,omitempty"`
	ExpiresAt    time.Time        `gorm:"column:expires_at;not null;index" json:"expiresAt"`
	Message      string           `gorm:"column:message;type:text" json:"message"`
	ProjectName  string           `gorm:"column:project_name;type:varchar(255)" json:"projectName"`
	UserEmail    string           `gorm:"column:user_email;type:varchar(255)" json:"userEmail"`
	UserName     string           `gorm:"column:user_name;type:varchar(255)" json:"userName"`
}

func (pi *ProjectInvitation) TableName() string {
	return "t_project_invitation"
}

// PendingKeyFor 待处理邀请的唯一键
func PendingKeyFor(projectId, userId string) *string {
	key := projectId + ":" + userId
	return &key
}

// IsPending 是否待处理，PENDING 是唯一的非终止状态
func (pi *ProjectInvitation) IsPending() bool {
	return !pi.Status.IsTerminal()
}

// Validate 校验从存储读出的状态值
func (pi *ProjectInvitation) Validate() error {
	if !pi.Status.IsValid() {
		return fmt.Errorf("invitation %s has unknown status %q", pi.InvitationId, pi.Status)
	}
	return nil
}

// IsExpiredAt now 是否已超过有效期
func (pi *ProjectInvitation) IsExpiredAt(now time.Time) bool {
	return now.After(pi.ExpiresAt)
}

// Transition 按事件迁移状态，终止状态一律拒绝
// accept/reject 记录 respondedAt，cancel/expire 不记录
func (pi *ProjectInvitation) Transition(event statemachine.Event, now time.Time) error {
	next, err := pi.Status.Fire(event)
	if err != nil {
		return err
	}
	pi.Status = next
	pi.PendingKey = nil
	switch event {
	case statemachine.EventAccept, statemachine.EventReject:
		t := now
		pi.RespondedAt = &t
	}
	return nil
}

// InviteReq 邀请请求
type InviteReq struct {
	UserId  string `json:"userId"`
	Message string `json:"message"`
}
