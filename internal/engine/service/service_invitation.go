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

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-arcade/suitx/internal/engine/config"
	"github.com/go-arcade/suitx/internal/engine/model"
	"github.com/go-arcade/suitx/internal/engine/repo"
	"github.com/go-arcade/suitx/pkg/id"
	"github.com/go-arcade/suitx/pkg/log"
	"github.com/go-arcade/suitx/pkg/metrics"
	"github.com/go-arcade/suitx/pkg/statemachine"
	"gorm.io/gorm"
)

/**
 * @author: gagral.x@gmail.com
 * @time: 2025/11/06
 * @file: service_invitation.go
 * @description: 项目邀请生命周期：邀请、接受、拒绝、取消、过期
 */

// 指标 action 标签
const (
	actionInvite = "invite"
	actionAccept = "accept"
	actionReject = "reject"
	actionCancel = "cancel"
	actionExpire = "expire"
)

type InvitationService struct {
	invitationRepo repo.IInvitationRepository
	membership     *MembershipService
	identities     IdentityResolver
	notifications  *NotificationService
	mailer         Mailer
	ttl            time.Duration
	now            func() time.Time
}

func NewInvitationService(
	invitationRepo repo.IInvitationRepository,
	membership *MembershipService,
	identities IdentityResolver,
	notifications *NotificationService,
	mailer Mailer,
	cfg *config.InvitationConfig,
) *InvitationService {
	ttl := model.DefaultInvitationTTL
	if cfg != nil && cfg.ExpireDays > 0 {
		ttl = time.Duration(cfg.ExpireDays) * 24 * time.Hour
	}
	return &InvitationService{
		invitationRepo: invitationRepo,
		membership:     membership,
		identities:     identities,
		notifications:  notifications,
		mailer:         mailer,
		ttl:            ttl,
		now:            time.Now,
	}
}

// Invite 所有者邀请用户加入项目，同一 (项目, 用户) 最多一条待处理邀请
func (s *InvitationService) Invite(ctx context.Context, projectId, inviteeId, inviterId, message string) (invitation *model.ProjectInvitation, err error) {
	defer func() { metrics.RecordInvitation(actionInvite, err) }()

	project, err := s.membership.loadProject(ctx, projectId)
	if err != nil {
		return nil, err
	}

	inviter, err := s.identities.Resolve(ctx, inviterId)
	if err != nil {
		if KindOf(err) == KindNotFound {
			return nil, Forbidden("only the project owner can invite members")
		}
		return nil, err
	}
	if !project.IsOwner(inviterId, inviter.Username) {
		return nil, Forbidden("only the project owner can invite members")
	}

	invitee, err := s.identities.Resolve(ctx, inviteeId)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNotMember(ctx, project, invitee); err != nil {
		return nil, err
	}
	if err := s.ensureNoPending(ctx, projectId, inviteeId); err != nil {
		return nil, err
	}

	now := s.now()
	invitation = &model.ProjectInvitation{
		InvitationId: id.GetUlid(),
		ProjectId:    projectId,
		UserId:       inviteeId,
		InvitedBy:    inviterId,
		InviterName:  inviter.DisplayName(),
		Status:       model.InvitationPending,
		PendingKey:   model.PendingKeyFor(projectId, inviteeId),
		InvitedAt:    now,
		ExpiresAt:    now.Add(s.ttl),
		Message:      strings.TrimSpace(message),
		ProjectName:  project.Name,
		UserEmail:    invitee.Email,
		UserName:     invitee.DisplayName(),
	}
	if err := s.invitationRepo.Create(ctx, invitation); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrInvitationPending
		}
		log.WithContext(ctx).Errorw("create invitation failed", "projectId", projectId, "userId", inviteeId, "error", err)
		return nil, fmt.Errorf("create invitation: %w", err)
	}
	log.WithContext(ctx).Infow("invitation created", "invitationId", invitation.InvitationId, "projectId", projectId, "userId", inviteeId)

	s.notifications.Notify(ctx, model.NewProjectInvitedNotification(
		inviteeId, invitation.InvitationId, projectId, project.Name, invitation.InviterName, now))
	s.mailer.Send(ctx, InvitationEmail(invitee.Email, invitation.UserName, project.Name,
		invitation.InviterName, invitation.Message, invitation.ExpiresAt))

	return invitation, nil
}

func (s *InvitationService) ensureNotMember(ctx context.Context, project *model.Project, invitee *model.Identity) error {
	if project.IsOwner(invitee.UserId, invitee.Username) {
		return ErrAlreadyMember
	}
	member, err := s.membership.memberRepo.IsMember(ctx, project.ProjectId, invitee.UserId)
	if err != nil {
		return fmt.Errorf("check membership: %w", err)
	}
	if member {
		return ErrAlreadyMember
	}
	return nil
}

// ensureNoPending 已过期但未翻转的待处理邀请在此处过期，不阻塞重新邀请
func (s *InvitationService) ensureNoPending(ctx context.Context, projectId, userId string) error {
	pending, err := s.invitationRepo.FindPending(ctx, projectId, userId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("find pending invitation: %w", err)
	}
	if !pending.IsExpiredAt(s.now()) {
		return ErrInvitationPending
	}
	if err := s.transition(ctx, pending, statemachine.EventExpire); err != nil {
		return err
	}
	return nil
}

func (s *InvitationService) load(ctx context.Context, invitationId string) (*model.ProjectInvitation, error) {
	invitation, err := s.invitationRepo.Get(ctx, invitationId)
	if err != nil {
		return nil, notFoundOr(err, "invitation not found")
	}
	if err := invitation.Validate(); err != nil {
		log.WithContext(ctx).Errorw("corrupt invitation record", "invitationId", invitationId, "error", err)
		return nil, err
	}
	return invitation, nil
}

// transition 迁移状态并以 status=PENDING 为条件写回，未命中说明已被并发处理
func (s *InvitationService) transition(ctx context.Context, invitation *model.ProjectInvitation, event statemachine.Event) error {
	if err := invitation.Transition(event, s.now()); err != nil {
		return ErrInvitationNotPending
	}
	ok, err := s.invitationRepo.UpdateStatus(ctx, invitation, model.InvitationPending)
	if err != nil {
		log.WithContext(ctx).Errorw("update invitation status failed", "invitationId", invitation.InvitationId, "error", err)
		return fmt.Errorf("update invitation status: %w", err)
	}
	if ok {
		if event == statemachine.EventExpire {
			metrics.RecordInvitation(actionExpire, nil)
		}
		return nil
	}

	current, err := s.load(ctx, invitation.InvitationId)
	if err != nil {
		return ErrInvitationNotPending
	}
	*invitation = *current
	// 过期清理任务抢先写入 EXPIRED，结果一致
	if event == statemachine.EventExpire && current.Status == model.InvitationExpired {
		return nil
	}
	return ErrInvitationNotPending
}

// Accept 被邀请人接受邀请，先加入项目再标记 ACCEPTED
func (s *InvitationService) Accept(ctx context.Context, invitationId, accepterId string) (invitation *model.ProjectInvitation, err error) {
	defer func() { metrics.RecordInvitation(actionAccept, err) }()

	invitation, err = s.load(ctx, invitationId)
	if err != nil {
		return nil, err
	}
	if invitation.UserId != accepterId {
		return nil, Forbidden("this invitation is addressed to another user")
	}
	if !invitation.IsPending() {
		return nil, ErrInvitationNotPending
	}
	if invitation.IsExpiredAt(s.now()) {
		if err := s.transition(ctx, invitation, statemachine.EventExpire); err != nil {
			return nil, err
		}
		return nil, ErrInvitationExpired
	}

	project, err := s.membership.loadProject(ctx, invitation.ProjectId)
	if err != nil {
		return nil, err
	}
	// 加入失败时邀请保持 PENDING，可重试
	if err := s.membership.join(ctx, project, accepterId); err != nil {
		return nil, err
	}
	if err := s.transition(ctx, invitation, statemachine.EventAccept); err != nil {
		return nil, err
	}
	log.WithContext(ctx).Infow("invitation accepted", "invitationId", invitationId, "projectId", project.ProjectId, "userId", accepterId)

	if ownerId := s.membership.ownerIdOf(ctx, project); ownerId != "" && ownerId != accepterId {
		s.notifications.Notify(ctx, model.NewInvitationAcceptedNotification(
			ownerId, project.ProjectId, project.Name, invitation.UserName, s.now()))
	}
	return invitation, nil
}

// Reject 被邀请人拒绝，已过期的待处理邀请翻转为 EXPIRED 并视为成功
func (s *InvitationService) Reject(ctx context.Context, invitationId, userId string) (invitation *model.ProjectInvitation, err error) {
	defer func() { metrics.RecordInvitation(actionReject, err) }()

	invitation, err = s.load(ctx, invitationId)
	if err != nil {
		return nil, err
	}
	if invitation.UserId != userId {
		return nil, Forbidden("this invitation is addressed to another user")
	}
	if err := s.close(ctx, invitation, statemachine.EventReject); err != nil {
		return nil, err
	}
	return invitation, nil
}

// Cancel 所有者撤回邀请
func (s *InvitationService) Cancel(ctx context.Context, invitationId, userId string) (invitation *model.ProjectInvitation, err error) {
	defer func() { metrics.RecordInvitation(actionCancel, err) }()

	invitation, err = s.load(ctx, invitationId)
	if err != nil {
		return nil, err
	}
	project, err := s.membership.loadProject(ctx, invitation.ProjectId)
	if err != nil {
		return nil, err
	}
	if err := s.membership.requireOwner(ctx, project, userId); err != nil {
		return nil, err
	}
	if err := s.close(ctx, invitation, statemachine.EventCancel); err != nil {
		return nil, err
	}
	return invitation, nil
}

func (s *InvitationService) close(ctx context.Context, invitation *model.ProjectInvitation, event statemachine.Event) error {
	if !invitation.IsPending() {
		return ErrInvitationNotPending
	}
	if invitation.IsExpiredAt(s.now()) {
		event = statemachine.EventExpire
	}
	if err := s.transition(ctx, invitation, event); err != nil {
		return err
	}
	log.WithContext(ctx).Infow("invitation closed", "invitationId", invitation.InvitationId, "status", invitation.Status)
	return nil
}

// expireLazily 将列表中已过期的待处理邀请翻转为 EXPIRED
func (s *InvitationService) expireLazily(ctx context.Context, invitations []model.ProjectInvitation) {
	now := s.now()
	for i := range invitations {
		inv := &invitations[i]
		if !inv.IsPending() || !inv.IsExpiredAt(now) {
			continue
		}
		if err := s.transition(ctx, inv, statemachine.EventExpire); err != nil {
			log.WithContext(ctx).Warnw("lazy expire invitation failed", "invitationId", inv.InvitationId, "error", err)
		}
	}
}

// ListMyInvitations 用户收到的所有邀请，按邀请时间倒序
func (s *InvitationService) ListMyInvitations(ctx context.Context, userId string) ([]model.ProjectInvitation, error) {
	invitations, err := s.invitationRepo.ListByUser(ctx, userId)
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	s.expireLazily(ctx, invitations)
	return invitations, nil
}

// ListPendingInvitations 仅返回仍可处理的邀请
func (s *InvitationService) ListPendingInvitations(ctx context.Context, userId string) ([]model.ProjectInvitation, error) {
	invitations, err := s.invitationRepo.ListPendingByUser(ctx, userId)
	if err != nil {
		return nil, fmt.Errorf("list pending invitations: %w", err)
	}
	s.expireLazily(ctx, invitations)

	pending := make([]model.ProjectInvitation, 0, len(invitations))
	for _, inv := range invitations {
		if inv.IsPending() {
			pending = append(pending, inv)
		}
	}
	return pending, nil
}

func (s *InvitationService) ListProjectInvitations(ctx context.Context, projectId, requesterId string) ([]model.ProjectInvitation, error) {
	project, err := s.membership.loadProject(ctx, projectId)
	if err != nil {
		return nil, err
	}
	if err := s.membership.requireOwner(ctx, project, requesterId); err != nil {
		return nil, err
	}
	invitations, err := s.invitationRepo.ListByProject(ctx, projectId)
	if err != nil {
		return nil, fmt.Errorf("list project invitations: %w", err)
	}
	s.expireLazily(ctx, invitations)
	return invitations, nil
}

// GetInvitation 被邀请人或项目所有者可见
func (s *InvitationService) GetInvitation(ctx context.Context, invitationId, requesterId string) (*model.ProjectInvitation, error) {
	invitation, err := s.load(ctx, invitationId)
	if err != nil {
		return nil, err
	}
	if invitation.UserId != requesterId {
		project, err := s.membership.loadProject(ctx, invitation.ProjectId)
		if err != nil {
			if KindOf(err) == KindNotFound {
				return nil, Forbidden("you cannot view this invitation")
			}
			return nil, err
		}
		if err := s.membership.requireOwner(ctx, project, requesterId); err != nil {
			return nil, Forbidden("you cannot view this invitation")
		}
	}
	invitations := []model.ProjectInvitation{*invitation}
	s.expireLazily(ctx, invitations)
	return &invitations[0], nil
}

// ExpireStale 定时清扫，正确性由读路径上的惰性过期保证
func (s *InvitationService) ExpireStale(ctx context.Context) (int64, error) {
	expired, err := s.invitationRepo.ExpireStale(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("expire stale invitations: %w", err)
	}
	if expired > 0 {
		metrics.InvitationTotal.WithLabelValues(actionExpire, metrics.ResultSuccess).Add(float64(expired))
		log.WithContext(ctx).Infow("expired stale invitations", "count", expired)
	}
	return expired, nil
}
