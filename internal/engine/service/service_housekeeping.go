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
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-arcade/suitx/internal/engine/config"
	"github.com/go-arcade/suitx/internal/engine/model"
	"github.com/go-arcade/suitx/internal/engine/repo"
	"github.com/go-arcade/suitx/pkg/cron"
	"github.com/go-arcade/suitx/pkg/log"
	"golang.org/x/sync/errgroup"
)

/**
 * @author: gagral.x@gmail.com
 * @time: 2025/11/07
 * @file: service_housekeeping.go
 * @description: 定时维护：过期邀请、清理通知、成员索引对账、截止提醒
 */

// 定时任务名
const (
	JobExpireInvitations  = "expire_invitations"
	JobPurgeNotifications = "purge_notifications"
	JobReconcileMembers   = "reconcile_members"
	JobDeadlineScan       = "deadline_scan"
)

const (
	deadlineWindow      = 24 * time.Hour
	deadlineConcurrency = 4
)

type HousekeepingService struct {
	invitations   *InvitationService
	notifications *NotificationService
	membership    *MembershipService
	taskRepo      repo.ITaskRepository
	projectRepo   repo.IProjectRepository
	identities    IdentityResolver
	mailer        Mailer
	cfg           *config.HousekeepingConfig
	now           func() time.Time
}

func NewHousekeepingService(
	invitations *InvitationService,
	notifications *NotificationService,
	membership *MembershipService,
	taskRepo repo.ITaskRepository,
	projectRepo repo.IProjectRepository,
	identities IdentityResolver,
	mailer Mailer,
	cfg *config.HousekeepingConfig,
) *HousekeepingService {
	return &HousekeepingService{
		invitations:   invitations,
		notifications: notifications,
		membership:    membership,
		taskRepo:      taskRepo,
		projectRepo:   projectRepo,
		identities:    identities,
		mailer:        mailer,
		cfg:           cfg,
		now:           time.Now,
	}
}

// RegisterJobs 按配置注册定时任务，spec 为空的任务不注册
func (s *HousekeepingService) RegisterJobs(scheduler *cron.Scheduler) error {
	if s.cfg == nil || !s.cfg.Enable {
		log.Info("housekeeping disabled")
		return nil
	}
	jobs := []struct {
		name string
		spec string
		fn   cron.JobFunc
	}{
		{JobExpireInvitations, s.cfg.ExpireInvitationsSpec, s.ExpireInvitations},
		{JobPurgeNotifications, s.cfg.PurgeNotificationsSpec, s.PurgeNotifications},
		{JobReconcileMembers, s.cfg.ReconcileSpec, s.ReconcileMembers},
		{JobDeadlineScan, s.cfg.DeadlineSpec, s.DeadlineScan},
	}
	for _, j := range jobs {
		if j.spec == "" {
			continue
		}
		if err := scheduler.AddFunc(j.name, j.spec, j.fn); err != nil {
			return fmt.Errorf("register housekeeping job: %w", err)
		}
	}
	return nil
}

func (s *HousekeepingService) ExpireInvitations(ctx context.Context) error {
	_, err := s.invitations.ExpireStale(ctx)
	return err
}

func (s *HousekeepingService) PurgeNotifications(ctx context.Context) error {
	_, err := s.notifications.PurgeExpired(ctx)
	return err
}

func (s *HousekeepingService) ReconcileMembers(ctx context.Context) error {
	_, err := s.membership.Reconcile(ctx)
	return err
}

// DeadlineScan 为 24 小时内到期的未完成任务发送一次截止提醒
func (s *HousekeepingService) DeadlineScan(ctx context.Context) error {
	now := s.now()
	tasks, err := s.taskRepo.ListDueBefore(ctx, now.Add(deadlineWindow))
	if err != nil {
		return fmt.Errorf("list due tasks: %w", err)
	}
	if len(tasks) == 0 {
		return nil
	}

	var notified int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(deadlineConcurrency)
	for i := range tasks {
		task := &tasks[i]
		g.Go(func() error {
			ok, err := s.remind(gctx, task, now)
			if ok {
				atomic.AddInt64(&notified, 1)
			}
			return err
		})
	}
	err = g.Wait()
	log.WithContext(ctx).Infow("deadline scan finished", "due", len(tasks), "notified", atomic.LoadInt64(&notified))
	return err
}

func (s *HousekeepingService) remind(ctx context.Context, task *model.Task, now time.Time) (bool, error) {
	if !task.IsOpen() || task.AssigneeId == "" || task.DueDate == nil || task.DeadlineNotifiedAt != nil {
		return false, nil
	}
	project, err := s.projectRepo.Get(ctx, task.ProjectId)
	if err != nil {
		log.WithContext(ctx).Warnw("skip deadline reminder, project unavailable", "taskId", task.TaskId, "error", err)
		return false, nil
	}
	assignee, err := s.identities.Resolve(ctx, task.AssigneeId)
	if err != nil {
		log.WithContext(ctx).Warnw("skip deadline reminder, assignee unavailable", "taskId", task.TaskId, "error", err)
		return false, nil
	}

	// 先标记，失败时不发送，避免重复提醒
	if err := s.taskRepo.MarkDeadlineNotified(ctx, task.TaskId, now); err != nil {
		return false, fmt.Errorf("mark deadline notified: %w", err)
	}
	s.notifications.Notify(ctx, model.NewDeadlineApproachingNotification(
		assignee.UserId, model.EntityTask, task.TaskId, task.Title, project.Name, *task.DueDate, now))
	s.mailer.Send(ctx, DeadlineEmail(assignee.Email, assignee.DisplayName(), task.Title, project.Name, *task.DueDate))
	return true, nil
}
