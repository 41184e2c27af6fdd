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
	"strings"
	"time"

	"gorm.io/datatypes"
)

type NotificationType string

const (
	NotificationProjectInvited      NotificationType = "PROJECT_INVITED"
	NotificationInvitationAccepted  NotificationType = "INVITATION_ACCEPTED"
	NotificationTaskAssigned        NotificationType = "TASK_ASSIGNED"
	NotificationMitigationAssigned  NotificationType = "MITIGATION_ASSIGNED"
	NotificationRiskDetected        NotificationType = "RISK_DETECTED"
	NotificationDeadlineApproaching NotificationType = "DEADLINE_APPROACHING"
	NotificationSystem              NotificationType = "SYSTEM"
)

type NotificationPriority string

const (
	PriorityLow    NotificationPriority = "LOW"
	PriorityMedium NotificationPriority = "MEDIUM"
	PriorityHigh   NotificationPriority = "HIGH"
)

// 关联实体类型
const (
	EntityProject    = "PROJECT"
	EntityInvitation = "INVITATION"
	EntityTask       = "TASK"
	EntityRisk       = "RISK"
	EntityMitigation = "MITIGATION"
)

// 通知保留期
const (
	LongRetention    = 90 * 24 * time.Hour
	DefaultRetention = 30 * 24 * time.Hour
)

// Notification 站内通知表
type Notification struct {
	BaseModel
	NotificationId    string               `gorm:"column:notification_id;type:varchar(64);uniqueIndex;not null" json:"notificationId"`
	UserId            string               `gorm:"column:user_id;type:varchar(64);not null;index:idx_notification_user_read,priority:1" json:"userId"`
	Type              NotificationType     `gorm:"column:type;type:varchar(32);not null" json:"type"`
	Title             string               `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Message           string               `gorm:"column:message;type:text" json:"message"`
	RelatedEntityType string               `gorm:"column:related_entity_type;type:varchar(32)" json:"relatedEntityType"`
	RelatedEntityId   string               `gorm:"column:related_entity_id;type:varchar(64)" json:"relatedEntityId"`
	ActionUrl         string               `gorm:"column:action_url;type:varchar(255)" json:"actionUrl"`
	IsRead            bool                 `gorm:"column:is_read;not null;default:false;index:idx_notification_user_read,priority:2" json:"isRead"`
	Priority          NotificationPriority `gorm:"column:priority;type:varchar(16);default:MEDIUM" json:"priority"`
	Metadata          datatypes.JSONMap    `gorm:"column:metadata;type:json" json:"metadata"`
	ReadAt            *time.Time           `gorm:"column:read_at" json:"readAt,omitempty"`
	ExpiresAt         time.Time            `gorm:"column:expires_at;index" json:"expiresAt"`
}

func (n *Notification) TableName() string {
	return "t_notification"
}

// CreateNotificationReq 直接创建通知的参数
// Retention 为零时使用 DefaultRetention
type CreateNotificationReq struct {
	UserId            string               `json:"userId"`
	Type              NotificationType     `json:"type"`
	Title             string               `json:"title"`
	Message           string               `json:"message"`
	RelatedEntityType string               `json:"relatedEntityType"`
	RelatedEntityId   string               `json:"relatedEntityId"`
	ActionUrl         string               `json:"actionUrl"`
	Priority          NotificationPriority `json:"priority"`
	Metadata          map[string]any       `json:"metadata"`
	Retention         time.Duration        `json:"-"`
}

func newNotification(userId string, typ NotificationType, title, message string, now time.Time) *Notification {
	return &Notification{
		UserId:   userId,
		Type:     typ,
		Title:    title,
		Message:  message,
		Priority: PriorityMedium,
		Metadata: datatypes.JSONMap{},
		BaseModel: BaseModel{
			CreatedAt: now,
		},
		ExpiresAt: now.Add(LongRetention),
	}
}

func NewTaskAssignedNotification(userId, taskId, taskTitle, projectName, assignedBy string, now time.Time) *Notification {
	n := newNotification(userId, NotificationTaskAssigned, "New Task Assigned",
		"You have been assigned to task: "+taskTitle, now)
	n.RelatedEntityType = EntityTask
	n.RelatedEntityId = taskId
	n.ActionUrl = "/tasks/" + taskId
	n.Metadata["projectName"] = projectName
	n.Metadata["taskTitle"] = taskTitle
	n.Metadata["assignedBy"] = assignedBy
	return n
}

// NewRiskDetectedNotification CRITICAL/HIGH 风险为高优先级
func NewRiskDetectedNotification(userId, riskId, riskTitle, projectName, severity string, now time.Time) *Notification {
	n := newNotification(userId, NotificationRiskDetected, "New Risk Detected",
		"A "+strings.ToLower(severity)+" severity risk has been detected: "+riskTitle, now)
	n.RelatedEntityType = EntityRisk
	n.RelatedEntityId = riskId
	n.ActionUrl = "/risks/" + riskId
	if severity == SeverityCritical || severity == SeverityHigh {
		n.Priority = PriorityHigh
	}
	n.Metadata["projectName"] = projectName
	n.Metadata["riskTitle"] = riskTitle
	n.Metadata["severity"] = severity
	return n
}

func NewProjectInvitedNotification(userId, invitationId, projectId, projectName, invitedBy string, now time.Time) *Notification {
	n := newNotification(userId, NotificationProjectInvited, "Project Invitation",
		invitedBy+" invited you to join project: "+projectName, now)
	n.RelatedEntityType = EntityInvitation
	n.RelatedEntityId = invitationId
	n.ActionUrl = "/invitations/" + invitationId
	n.Metadata["projectId"] = projectId
	n.Metadata["projectName"] = projectName
	n.Metadata["invitedBy"] = invitedBy
	return n
}

func NewInvitationAcceptedNotification(ownerId, projectId, projectName, memberName string, now time.Time) *Notification {
	n := newNotification(ownerId, NotificationInvitationAccepted, "Invitation Accepted",
		memberName+" joined project: "+projectName, now)
	n.RelatedEntityType = EntityProject
	n.RelatedEntityId = projectId
	n.ActionUrl = "/projects/" + projectId
	n.Metadata["projectName"] = projectName
	n.Metadata["memberName"] = memberName
	return n
}

func NewMitigationAssignedNotification(userId, mitigationId, mitigationTitle, projectName, assignedBy string, now time.Time) *Notification {
	n := newNotification(userId, NotificationMitigationAssigned, "Mitigation Assigned",
		"You have been assigned to mitigation '"+mitigationTitle+"' in project '"+projectName+"'", now)
	n.RelatedEntityType = EntityMitigation
	n.RelatedEntityId = mitigationId
	n.ActionUrl = "/mitigations/" + mitigationId
	n.Metadata["projectName"] = projectName
	n.Metadata["mitigationTitle"] = mitigationTitle
	n.Metadata["assignedBy"] = assignedBy
	return n
}

// NewDeadlineApproachingNotification entityType 取 TASK/MITIGATION
func NewDeadlineApproachingNotification(userId, entityType, entityId, entityTitle, projectName string, deadline, now time.Time) *Notification {
	n := newNotification(userId, NotificationDeadlineApproaching, "Deadline Approaching",
		entityTitle+" is due soon", now)
	n.RelatedEntityType = entityType
	n.RelatedEntityId = entityId
	n.ActionUrl = "/" + strings.ToLower(entityType) + "s/" + entityId
	n.Priority = PriorityHigh
	n.Metadata["projectName"] = projectName
	n.Metadata["entityTitle"] = entityTitle
	n.Metadata["deadline"] = deadline.Format(time.RFC3339)
	return n
}
