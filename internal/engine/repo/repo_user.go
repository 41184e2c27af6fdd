package repo

import (
	"context"
	"strings"
	"time"

	"github.com/go-arcade/suitx/internal/engine/model"
	"github.com/go-arcade/suitx/pkg/database"
)

/**
 * @author: gagral.x@gmail.com
 * @time: 2024/9/16 20:31
 * @file: repo_user.go
 * @description: user repository
 */

type IUserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByUserId(ctx context.Context, userId string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	ListByUserIds(ctx context.Context, userIds []string) ([]model.User, error)
	Search(ctx context.Context, keyword string, limit int) ([]model.User, error)
	Update(ctx context.Context, userId string, updates map[string]any) error
	UpdateLastLogin(ctx context.Context, userId string, at time.Time) error
}

type UserRepo struct {
	db database.IDatabase
}

func NewUserRepo(db database.IDatabase) IUserRepository {
	return &UserRepo{db: db}
}

func (r *UserRepo) Create(ctx context.Context, user *model.User) error {
	return r.db.Database().WithContext(ctx).Create(user).Error
}

func (r *UserRepo) GetByUserId(ctx context.Context, userId string) (*model.User, error) {
	var user model.User
	err := r.db.Database().WithContext(ctx).Where("user_id = ?", userId).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.db.Database().WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepo) ListByUserIds(ctx context.Context, userIds []string) ([]model.User, error) {
	var users []model.User
	if len(userIds) == 0 {
		return users, nil
	}
	err := r.db.Database().WithContext(ctx).Where("user_id IN ?", userIds).Find(&users).Error
	return users, err
}

// likeEscaper 转义 LIKE 通配符，关键字按字面匹配
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// Search 用户名或邮箱模糊匹配，仅返回启用的账号
func (r *UserRepo) Search(ctx context.Context, keyword string, limit int) ([]model.User, error) {
	var users []model.User
	pattern := "%" + likeEscaper.Replace(keyword) + "%"
	err := r.db.Database().WithContext(ctx).
		Where("is_active = ?", true).
		Where("username LIKE ? OR email LIKE ?", pattern, pattern).
		Order("username ASC").
		Limit(limit).
		Find(&users).Error
	return users, err
}

// Update 按列更新
func (r *UserRepo) Update(ctx context.Context, userId string, updates map[string]any) error {
	return r.db.Database().WithContext(ctx).Model(&model.User{}).
		Where("user_id = ?", userId).
		Updates(updates).Error
}

func (r *UserRepo) UpdateLastLogin(ctx context.Context, userId string, at time.Time) error {
	return r.db.Database().WithContext(ctx).Model(&model.User{}).
		Where("user_id = ?", userId).
		Update("last_login_at", at).Error
}
