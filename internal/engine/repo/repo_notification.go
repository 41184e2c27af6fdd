package repo

import (
	"context"
	"time"

	"github.com/go-arcade/suitx/internal/engine/model"
	"github.com/go-arcade/suitx/pkg/database"
)

/**
 * @author: gagral.x@gmail.com
 * @time: 2025/11/03
 * @file: repo_notification.go
 * @description: 站内通知仓储
 */

type INotificationRepository interface {
	Create(ctx context.Context, notification *model.Notification) error
	Get(ctx context.Context, notificationId string) (*model.Notification, error)
	ListByUser(ctx context.Context, userId string) ([]model.Notification, error)
	ListUnread(ctx context.Context, userId string) ([]model.Notification, error)
	CountUnread(ctx context.Context, userId string) (int64, error)
	// MarkRead 仅翻转未读记录，重复调用无副作用
	MarkRead(ctx context.Context, notificationId string, readAt time.Time) error
	Delete(ctx context.Context, notificationId string) error
	DeleteRead(ctx context.Context, userId string) (int64, error)
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

type NotificationRepo struct {
	db database.IDatabase
}

func NewNotificationRepo(db database.IDatabase) INotificationRepository {
	return &NotificationRepo{db: db}
}

func (r *NotificationRepo) Create(ctx context.Context, notification *model.Notification) error {
	return r.db.Database().WithContext(ctx).Create(notification).Error
}

func (r *NotificationRepo) Get(ctx context.Context, notificationId string) (*model.Notification, error) {
	var notification model.Notification
	err := r.db.Database().WithContext(ctx).Where("notification_id = ?", notificationId).First(&notification).Error
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

func (r *NotificationRepo) ListByUser(ctx context.Context, userId string) ([]model.Notification, error) {
	var notifications []model.Notification
	err := r.db.Database().WithContext(ctx).
		Where("user_id = ?", userId).
		Order("created_at DESC").
		Find(&notifications).Error
	return notifications, err
}

func (r *NotificationRepo) ListUnread(ctx context.Context, userId string) ([]model.Notification, error) {
	var notifications []model.Notification
	err := r.db.Database().WithContext(ctx).
		Where("user_id = ? AND is_read = ?", userId, false).
		Order("created_at DESC").
		Find(&notifications).Error
	return notifications, err
}

func (r *NotificationRepo) CountUnread(ctx context.Context, userId string) (int64, error) {
	return Count(r.db.Database().WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userId, false))
}

func (r *NotificationRepo) MarkRead(ctx context.Context, notificationId string, readAt time.Time) error {
	return r.db.Database().WithContext(ctx).Model(&model.Notification{}).
		Where("notification_id = ? AND is_read = ?", notificationId, false).
		Updates(map[string]any{
			"is_read": true,
			"read_at": readAt,
		}).Error
}

func (r *NotificationRepo) Delete(ctx context.Context, notificationId string) error {
	return r.db.Database().WithContext(ctx).
		Where("notification_id = ?", notificationId).
		Delete(&model.Notification{}).Error
}

func (r *NotificationRepo) DeleteRead(ctx context.Context, userId string) (int64, error) {
	result := r.db.Database().WithContext(ctx).
		Where("user_id = ? AND is_read = ?", userId, true).
		Delete(&model.Notification{})
	return result.RowsAffected, result.Error
}

func (r *NotificationRepo) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.Database().WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&model.Notification{})
	return result.RowsAffected, result.Error
}
