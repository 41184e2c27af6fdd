package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-arcade/suitx/internal/engine/config"
	"github.com/go-arcade/suitx/internal/engine/model"
	"github.com/go-arcade/suitx/internal/engine/repo"
	"github.com/go-arcade/suitx/internal/pkg/notify"
	"github.com/go-arcade/suitx/pkg/id"
	"github.com/go-arcade/suitx/pkg/log"
	"github.com/go-arcade/suitx/pkg/metrics"
	"github.com/go-arcade/suitx/pkg/safe"
	"gorm.io/datatypes"
)

/**
 * @author: gagral.x@gmail.com
 * @time: 2025/11/06
 * @file: service_notification.go
 * @description: 站内通知的创建、查询与已读状态
 */

const mirrorTimeout = 10 * time.Second

// webhookMirror 通知镜像到外部 webhook
type webhookMirror interface {
	Mirror(ctx context.Context, payload any) error
	HasChannel(typ notify.ChannelType) bool
}

type NotificationService struct {
	notificationRepo repo.INotificationRepository
	mirror           webhookMirror
	defaultRetention time.Duration
	longRetention    time.Duration
	now              func() time.Time
}

func NewNotificationService(
	notificationRepo repo.INotificationRepository,
	manager *notify.NotifyManager,
	cfg *config.NotificationConfig,
) *NotificationService {
	var mirror webhookMirror
	if manager != nil {
		mirror = manager
	}
	return newNotificationService(notificationRepo, mirror, cfg)
}

func newNotificationService(notificationRepo repo.INotificationRepository, mirror webhookMirror, cfg *config.NotificationConfig) *NotificationService {
	s := &NotificationService{
		notificationRepo: notificationRepo,
		mirror:           mirror,
		defaultRetention: model.DefaultRetention,
		longRetention:    model.LongRetention,
		now:              time.Now,
	}
	if cfg != nil {
		if cfg.DefaultRetentionDays > 0 {
			s.defaultRetention = time.Duration(cfg.DefaultRetentionDays) * 24 * time.Hour
		}
		if cfg.LongRetentionDays > 0 {
			s.longRetention = time.Duration(cfg.LongRetentionDays) * 24 * time.Hour
		}
	}
	return s
}

// Create 直接创建通知，未指定保留期时使用默认保留期
func (s *NotificationService) Create(ctx context.Context, req *model.CreateNotificationReq) (*model.Notification, error) {
	if strings.TrimSpace(req.UserId) == "" || req.Type == "" || strings.TrimSpace(req.Title) == "" {
		return nil, InvalidArgument("userId, type and title are required")
	}

	now := s.now()
	retention := req.Retention
	if retention <= 0 {
		retention = s.defaultRetention
	}
	priority := req.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	notification := &model.Notification{
		UserId:            req.UserId,
		Type:              req.Type,
		Title:             req.Title,
		Message:           req.Message,
		RelatedEntityType: req.RelatedEntityType,
		RelatedEntityId:   req.RelatedEntityId,
		ActionUrl:         req.ActionUrl,
		Priority:          priority,
		Metadata:          datatypes.JSONMap(req.Metadata),
		ExpiresAt:         now.Add(retention),
	}
	notification.CreatedAt = now

	if err := s.persist(ctx, notification); err != nil {
		return nil, err
	}
	return notification, nil
}

// Dispatch 持久化工厂方法构造的通知，保留期按长保留期重新计算
func (s *NotificationService) Dispatch(ctx context.Context, notification *model.Notification) error {
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = s.now()
	}
	notification.ExpiresAt = notification.CreatedAt.Add(s.longRetention)
	return s.persist(ctx, notification)
}

// Notify 尽力投递，失败只记录日志
func (s *NotificationService) Notify(ctx context.Context, notification *model.Notification) {
	if err := s.Dispatch(ctx, notification); err != nil {
		log.WithContext(ctx).Errorw("create notification failed",
			"type", notification.Type, "userId", notification.UserId, "error", err)
	}
}

func (s *NotificationService) persist(ctx context.Context, notification *model.Notification) error {
	if notification.NotificationId == "" {
		notification.NotificationId = id.GetUlid()
	}
	if notification.Metadata == nil {
		notification.Metadata = datatypes.JSONMap{}
	}
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	metrics.RecordNotificationCreated(string(notification.Type))
	s.mirrorAsync(ctx, notification)
	return nil
}

func (s *NotificationService) mirrorAsync(ctx context.Context, notification *model.Notification) {
	if s.mirror == nil || !s.mirror.HasChannel(notify.ChannelTypeWebhook) {
		return
	}
	bg := context.WithoutCancel(ctx)
	payload := *notification
	safe.Go("mirror notification", func() {
		mirrorCtx, cancel := context.WithTimeout(bg, mirrorTimeout)
		defer cancel()
		if err := s.mirror.Mirror(mirrorCtx, &payload); err != nil {
			log.WithContext(bg).Warnw("mirror notification failed", "notificationId", payload.NotificationId, "error", err)
		}
	})
}

func (s *NotificationService) List(ctx context.Context, userId string) ([]model.Notification, error) {
	notifications, err := s.notificationRepo.ListByUser(ctx, userId)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return notifications, nil
}

func (s *NotificationService) ListUnread(ctx context.Context, userId string) ([]model.Notification, error) {
	notifications, err := s.notificationRepo.ListUnread(ctx, userId)
	if err != nil {
		return nil, fmt.Errorf("list unread notifications: %w", err)
	}
	return notifications, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, userId string) (int64, error) {
	count, err := s.notificationRepo.CountUnread(ctx, userId)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

// owned 加载通知并校验归属
func (s *NotificationService) owned(ctx context.Context, notificationId, userId string) (*model.Notification, error) {
	notification, err := s.notificationRepo.Get(ctx, notificationId)
	if err != nil {
		return nil, notFoundOr(err, "notification not found")
	}
	if notification.UserId != userId {
		return nil, Forbidden("notification belongs to another user")
	}
	return notification, nil
}

// MarkRead 标记已读，已读通知保持原 readAt
func (s *NotificationService) MarkRead(ctx context.Context, notificationId, userId string) (*model.Notification, error) {
	notification, err := s.owned(ctx, notificationId, userId)
	if err != nil {
		return nil, err
	}
	if notification.IsRead {
		return notification, nil
	}

	now := s.now()
	if err := s.notificationRepo.MarkRead(ctx, notificationId, now); err != nil {
		return nil, fmt.Errorf("mark notification read: %w", err)
	}
	notification.IsRead = true
	notification.ReadAt = &now
	return notification, nil
}

// MarkAllRead 逐条翻转，中途失败可重试
func (s *NotificationService) MarkAllRead(ctx context.Context, userId string) (int, error) {
	unread, err := s.ListUnread(ctx, userId)
	if err != nil {
		return 0, err
	}
	now := s.now()
	marked := 0
	for _, n := range unread {
		if err := s.notificationRepo.MarkRead(ctx, n.NotificationId, now); err != nil {
			return marked, fmt.Errorf("mark notification read: %w", err)
		}
		marked++
	}
	return marked, nil
}

func (s *NotificationService) Delete(ctx context.Context, notificationId, userId string) error {
	if _, err := s.owned(ctx, notificationId, userId); err != nil {
		return err
	}
	if err := s.notificationRepo.Delete(ctx, notificationId); err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	return nil
}

// DeleteRead 删除用户所有已读通知
func (s *NotificationService) DeleteRead(ctx context.Context, userId string) (int64, error) {
	deleted, err := s.notificationRepo.DeleteRead(ctx, userId)
	if err != nil {
		return 0, fmt.Errorf("delete read notifications: %w", err)
	}
	return deleted, nil
}

// PurgeExpired 清理超过保留期的通知
func (s *NotificationService) PurgeExpired(ctx context.Context) (int64, error) {
	purged, err := s.notificationRepo.PurgeExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("purge notifications: %w", err)
	}
	if purged > 0 {
		log.WithContext(ctx).Infow("purged expired notifications", "count", purged)
	}
	return purged, nil
}
