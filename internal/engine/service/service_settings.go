package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-arcade/suitx/internal/engine/model"
	"github.com/go-arcade/suitx/internal/engine/repo"
	"github.com/go-arcade/suitx/pkg/log"
	"gorm.io/gorm"
)

// SettingsService 用户偏好设置，未保存过时返回默认值
type SettingsService struct {
	settingsRepo repo.ISettingsRepository
}

func NewSettingsService(settingsRepo repo.ISettingsRepository) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo}
}

func (s *SettingsService) Get(ctx context.Context, userId string) (*model.UserSettings, error) {
	settings, err := s.settingsRepo.Get(ctx, userId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.DefaultUserSettings(userId), nil
		}
		log.WithContext(ctx).Errorw("get settings failed", "userId", userId, "error", err)
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return settings.Normalize(), nil
}

// Save 合并请求后整行写回
func (s *SettingsService) Save(ctx context.Context, userId string, req *model.UpdateSettingsReq) (*model.UserSettings, error) {
	settings, err := s.Get(ctx, userId)
	if err != nil {
		return nil, err
	}
	if err := settings.Apply(req); err != nil {
		return nil, InvalidArgument(err.Error())
	}
	if err := s.settingsRepo.Upsert(ctx, settings); err != nil {
		log.WithContext(ctx).Errorw("save settings failed", "userId", userId, "error", err)
		return nil, fmt.Errorf("save settings: %w", err)
	}
	log.WithContext(ctx).Infow("settings saved", "userId", userId)
	return settings, nil
}

// hiddenFromSearch 关闭了 privacy.searchVisible 的用户
func (s *SettingsService) hiddenFromSearch(ctx context.Context, userIds []string) (map[string]struct{}, error) {
	rows, err := s.settingsRepo.ListByUserIds(ctx, userIds)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	hidden := make(map[string]struct{})
	for i := range rows {
		if !rows[i].SearchVisible() {
			hidden[rows[i].UserId] = struct{}{}
		}
	}
	return hidden, nil
}
