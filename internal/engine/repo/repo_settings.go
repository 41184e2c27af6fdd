package repo

import (
	"context"

	"github.com/go-arcade/suitx/internal/engine/model"
	"github.com/go-arcade/suitx/pkg/database"
	"gorm.io/gorm/clause"
)

type ISettingsRepository interface {
	Get(ctx context.Context, userId string) (*model.UserSettings, error)
	ListByUserIds(ctx context.Context, userIds []string) ([]model.UserSettings, error)
	Upsert(ctx context.Context, settings *model.UserSettings) error
}

type SettingsRepo struct {
	db database.IDatabase
}

func NewSettingsRepo(db database.IDatabase) ISettingsRepository {
	return &SettingsRepo{db: db}
}

func (r *SettingsRepo) Get(ctx context.Context, userId string) (*model.UserSettings, error) {
	var settings model.UserSettings
	err := r.db.Database().WithContext(ctx).Where("user_id = ?", userId).First(&settings).Error
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *SettingsRepo) ListByUserIds(ctx context.Context, userIds []string) ([]model.UserSettings, error) {
	var settings []model.UserSettings
	if len(userIds) == 0 {
		return settings, nil
	}
	err := r.db.Database().WithContext(ctx).Where("user_id IN ?", userIds).Find(&settings).Error
	return settings, err
}

// Upsert user_id 唯一，已存在时覆盖各分组
func (r *SettingsRepo) Upsert(ctx context.Context, settings *model.UserSettings) error {
	return r.db.Database().WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"notifications", "privacy", "theme", "security", "updated_at"}),
		}).
		Create(settings).Error
}
