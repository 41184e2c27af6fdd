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

package repo

import (
	"context"
	"time"

	"github.com/go-arcade/suitx/internal/engine/model"
	"github.com/go-arcade/suitx/pkg/database"
)

/**
 * @author: gagral.x@gmail.com
 * @time: 2025/11/02
 * @file: repo_invitation.go
 * @description: 项目邀请仓储
 */

type IInvitationRepository interface {
	// Create 插入邀请，pending_key 冲突时返回 gorm.ErrDuplicatedKey
	Create(ctx context.Context, invitation *model.ProjectInvitation) error
	Get(ctx context.Context, invitationId string) (*model.ProjectInvitation, error)
	// FindPending 不存在时返回 gorm.ErrRecordNotFound
	FindPending(ctx context.Context, projectId, userId string) (*model.ProjectInvitation, error)
	ListByUser(ctx context.Context, userId string) ([]model.ProjectInvitation, error)
	ListPendingByUser(ctx context.Context, userId string) ([]model.ProjectInvitation, error)
	ListByProject(ctx context.Context, projectId string) ([]model.ProjectInvitation, error)
	// UpdateStatus 仅当当前状态为 from 时写入，返回是否命中
	UpdateStatus(ctx context.Context, invitation *model.ProjectInvitation, from model.InvitationStatus) (bool, error)
	// ExpireStale 批量过期 expires_at 早于 now 的待处理邀请
	ExpireStale(ctx context.Context, now time.Time) (int64, error)
	// CancelPendingByProject 取消项目下所有待处理邀请
	CancelPendingByProject(ctx context.Context, projectId string) (int64, error)
}

type InvitationRepo struct {
	db database.IDatabase
}

func NewInvitationRepo(db database.IDatabase) IInvitationRepository {
	return &InvitationRepo{db: db}
}

func (r *InvitationRepo) Create(ctx context.Context, invitation *model.ProjectInvitation) error {
	return r.db.Database().WithContext(ctx).Create(invitation).Error
}

func (r *InvitationRepo) Get(ctx context.Context, invitationId string) (*model.ProjectInvitation, error) {
	var invitation model.ProjectInvitation
	err := database.WriteDB(r.db.Database().WithContext(ctx)).Where("invitation_id = ?", invitationId).First(&invitation).Error
	if err != nil {
		return nil, err
	}
	return &invitation, nil
}

func (r *InvitationRepo) FindPending(ctx context.Context, projectId, userId string) (*model.ProjectInvitation, error) {
	var invitation model.ProjectInvitation
	err := r.db.Database().WithContext(ctx).
		Where("pending_key = ?", *model.PendingKeyFor(projectId, userId)).
		First(&invitation).Error
	if err != nil {
		return nil, err
	}
	return &invitation, nil
}

func (r *InvitationRepo) ListByUser(ctx context.Context, userId string) ([]model.ProjectInvitation, error) {
	var invitations []model.ProjectInvitation
	err := r.db.Database().WithContext(ctx).
		Where("user_id = ?", userId).
		Order("invited_at DESC").
		Find(&invitations).Error
	return invitations, err
}

func (r *InvitationRepo) ListPendingByUser(ctx context.Context, userId string) ([]model.ProjectInvitation, error) {
	var invitations []model.ProjectInvitation
	err := r.db.Database().WithContext(ctx).
		Where("user_id = ? AND status = ?", userId, model.InvitationPending).
		Order("invited_at DESC").
		Find(&invitations).Error
	return invitations, err
}

func (r *InvitationRepo) ListByProject(ctx context.Context, projectId string) ([]model.ProjectInvitation, error) {
	var invitations []model.ProjectInvitation
	err := r.db.Database().WithContext(ctx).
		Where("project_id = ?", projectId).
		Order("invited_at DESC").
		Find(&invitations).Error
	return invitations, err
}

func (r *InvitationRepo) UpdateStatus(ctx context.Context, invitation *model.ProjectInvitation, from model.InvitationStatus) (bool, error) {
	result := r.db.Database().WithContext(ctx).Model(&model.ProjectInvitation{}).
		Where("invitation_id = ? AND status = ?", invitation.InvitationId, from).
		Updates(map[string]any{
			"status":       invitation.Status,
			"pending_key":  invitation.PendingKey,
			"responded_at": invitation.RespondedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *InvitationRepo) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.Database().WithContext(ctx).Model(&model.ProjectInvitation{}).
		Where("status = ? AND expires_at < ?", model.InvitationPending, now).
		Updates(map[string]any{
			"status":      model.InvitationExpired,
			"pending_key": nil,
		})
	return result.RowsAffected, result.Error
}

func (r *InvitationRepo) CancelPendingByProject(ctx context.Context, projectId string) (int64, error) {
	result := r.db.Database().WithContext(ctx).Model(&model.ProjectInvitation{}).
		Where("project_id = ? AND status = ?", projectId, model.InvitationPending).
		Updates(map[string]any{
			"status":      model.InvitationCancelled,
			"pending_key": nil,
		})
	return result.RowsAffected, result.Error
}
