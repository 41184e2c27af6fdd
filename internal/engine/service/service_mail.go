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
	"time"

	"github.com/go-arcade/suitx/internal/engine/consts"
	"github.com/go-arcade/suitx/internal/pkg/notify"
	"github.com/go-arcade/suitx/internal/pkg/notify/template"
	"github.com/go-arcade/suitx/internal/pkg/queue"
	"github.com/go-arcade/suitx/pkg/log"
	"github.com/go-arcade/suitx/pkg/metrics"
	"github.com/go-arcade/suitx/pkg/retry"
	"github.com/go-arcade/suitx/pkg/safe"
)

/**
 * @author: gagral.x@gmail.com
 * @time: 2025/11/05
 * @file: service_mail.go
 * @description: 邮件侧信道，尽力投递，失败只记录日志
 */

// 邮件类型，用于指标标签
const (
	MailKindWelcome    = "welcome"
	MailKindInvitation = "invitation"
	MailKindTask       = "task_assignment"
	MailKindMitigation = "mitigation_assignment"
	MailKindDeadline   = "deadline"
)

const (
	defaultMailTimeout  = 10 * time.Second
	defaultMailAttempts = 3
)

// Email 一封待发送的模板邮件，也是队列任务的载荷
type Email struct {
	Kind       string         `json:"kind"`
	TemplateId string         `json:"templateId"`
	To         string         `json:"to"`
	Data       map[string]any `json:"data"`
}

// Mailer 邮件侧信道，实现不得向调用方返回投递错误
type Mailer interface {
	Send(ctx context.Context, email *Email)
}

// emailSender 实际投递邮件
type emailSender interface {
	SendEmail(ctx context.Context, templateID, to string, data map[string]any) error
	HasChannel(typ notify.ChannelType) bool
}

type MailService struct {
	sender      emailSender
	queue       *queue.TaskQueue
	timeout     time.Duration
	maxAttempts int
	backoff     retry.Backoff
}

// NewMailService taskQueue 为 nil 时在进程内异步发送
func NewMailService(manager *notify.NotifyManager, taskQueue *queue.TaskQueue, cfg *notify.MailConfig) *MailService {
	var sender emailSender
	if manager != nil {
		sender = manager
	}
	s := newMailService(sender, taskQueue, cfg)
	if taskQueue != nil {
		taskQueue.RegisterHandler(consts.TaskTypeEmailSend, queue.Handle(s.Deliver))
	}
	return s
}

func newMailService(sender emailSender, taskQueue *queue.TaskQueue, cfg *notify.MailConfig) *MailService {
	s := &MailService{
		sender:      sender,
		queue:       taskQueue,
		timeout:     defaultMailTimeout,
		maxAttempts: defaultMailAttempts,
		backoff:     retry.Exponential(500*time.Millisecond, 5*time.Second),
	}
	if cfg != nil {
		if cfg.Timeout > 0 {
			s.timeout = time.Duration(cfg.Timeout) * time.Second
		}
		if cfg.MaxAttempts > 0 {
			s.maxAttempts = cfg.MaxAttempts
		}
	}
	return s
}

func (s *MailService) enabled() bool {
	return s.sender != nil && s.sender.HasChannel(notify.ChannelTypeEmail)
}

// Send 入队或在后台 goroutine 中带重试发送，从不阻塞调用方
func (s *MailService) Send(ctx context.Context, email *Email) {
	if email == nil || email.To == "" {
		return
	}
	if !s.enabled() {
		log.WithContext(ctx).Debugw("email channel disabled, skip", "kind", email.Kind, "to", email.To)
		return
	}

	if s.queue != nil {
		_, err := s.queue.Enqueue(ctx, consts.TaskTypeEmailSend, email)
		if err == nil {
			return
		}
		log.WithContext(ctx).Warnw("enqueue email failed, sending in process", "kind", email.Kind, "error", err)
	}

	// 与请求生命周期解绑
	bg := context.WithoutCancel(ctx)
	safe.Go("send email", func() {
		deadline := s.timeout * time.Duration(s.maxAttempts+1)
		sendCtx, cancel := context.WithTimeout(bg, deadline)
		defer cancel()

		err := retry.Do(sendCtx, func(ctx context.Context) error {
			return s.deliver(ctx, email)
		},
			retry.WithMaxAttempts(s.maxAttempts),
			retry.WithBackoff(s.backoff),
			retry.WithJitter(retry.FullJitter),
			retry.WithOnRetry(func(attempt int, err error) {
				log.WithContext(bg).Debugw("retry email", "kind", email.Kind, "attempt", attempt, "error", err)
			}),
		)
		s.record(bg, email, err)
	})
}

// Deliver 队列处理函数，返回错误交由 asynq 重试
func (s *MailService) Deliver(ctx context.Context, email *Email) error {
	err := s.deliver(ctx, email)
	s.record(ctx, email, err)
	return err
}

func (s *MailService) deliver(ctx context.Context, email *Email) error {
	attemptCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.sender.SendEmail(attemptCtx, email.TemplateId, email.To, email.Data)
}

func (s *MailService) record(ctx context.Context, email *Email, err error) {
	metrics.RecordEmailDispatch(email.Kind, err)
	if err != nil {
		log.WithContext(ctx).Errorw("send email failed", "kind", email.Kind, "to", email.To, "error", err)
		return
	}
	log.WithContext(ctx).Infow("email sent", "kind", email.Kind, "to", email.To)
}

// InvitationEmail 邀请邮件，expiresAt 格式为 2006-01-02
func InvitationEmail(to, recipientName, projectName, inviterName, message string, expiresAt time.Time) *Email {
	return &Email{
		Kind:       MailKindInvitation,
		TemplateId: template.TemplateProjectInvitation,
		To:         to,
		Data: map[string]any{
			"recipientName": recipientName,
			"projectName":   projectName,
			"inviterName":   inviterName,
			"message":       message,
			"expiresAt":     expiresAt.Format(time.DateOnly),
		},
	}
}

func WelcomeEmail(to, username string) *Email {
	return &Email{
		Kind:       MailKindWelcome,
		TemplateId: template.TemplateWelcome,
		To:         to,
		Data:       map[string]any{"username": username},
	}
}

// AssignmentEmail 任务或缓解措施分配邮件
func AssignmentEmail(kind, to, recipientName, title, projectName, priority, description string, dueDate *time.Time) *Email {
	templateId := template.TemplateTaskAssignment
	if kind == MailKindMitigation {
		templateId = template.TemplateMitigationAssignment
	}
	data := map[string]any{
		"recipientName": recipientName,
		"title":         title,
		"projectName":   projectName,
		"priority":      priority,
		"description":   description,
	}
	if dueDate != nil {
		data["dueDate"] = dueDate.Format(time.DateOnly)
	}
	return &Email{Kind: kind, TemplateId: templateId, To: to, Data: data}
}

func DeadlineEmail(to, recipientName, title, projectName string, dueDate time.Time) *Email {
	return &Email{
		Kind:       MailKindDeadline,
		TemplateId: template.TemplateDeadlineApproaching,
		To:         to,
		Data: map[string]any{
			"recipientName": recipientName,
			"title":         title,
			"projectName":   projectName,
			"dueDate":       dueDate.Format(time.DateOnly),
		},
	}
}
