package repo

import (
	"context"

	"github.com/go-arcade/suitx/internal/engine/model"
	"github.com/go-arcade/suitx/pkg/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// IUserMemberProjectRepository 用户所属项目的派生索引
type IUserMemberProjectRepository interface {
	Add(ctx context.Context, userId, projectId string) error
	Remove(ctx context.Context, userId, projectId string) error
	ListProjectIds(ctx context.Context, userId string) ([]string, error)
	ListAll(ctx context.Context) ([]model.UserMemberProject, error)
	DeleteByProject(ctx context.Context, projectId string) error
}

type UserMemberProjectRepo struct {
	db database.IDatabase
}

func NewUserMemberProjectRepo(db database.IDatabase) IUserMemberProjectRepository {
	return &UserMemberProjectRepo{db: db}
}

func (r *UserMemberProjectRepo) Add(ctx context.Context, userId, projectId string) error {
	return r.db.Database().WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.UserMemberProject{UserId: userId, ProjectId: projectId}).Error
}

func (r *UserMemberProjectRepo) Remove(ctx context.Context, userId, projectId string) error {
	return r.db.Database().WithContext(ctx).
		Where("user_id = ? AND project_id = ?", userId, projectId).
		Delete(&model.UserMemberProject{}).Error
}

func (r *UserMemberProjectRepo) ListProjectIds(ctx context.Context, userId string) ([]string, error) {
	ids := make([]string, 0)
	err := r.db.Database().WithContext(ctx).Model(&model.UserMemberProject{}).
		Where("user_id = ?", userId).
		Order("id ASC").
		Pluck("project_id", &ids).Error
	return ids, err
}

func (r *UserMemberProjectRepo) ListAll(ctx context.Context) ([]model.UserMemberProject, error) {
	var rows []model.UserMemberProject
	err := r.db.Database().WithContext(ctx).Order("id ASC").Find(&rows).Error
	return rows, err
}

func (r *UserMemberProjectRepo) DeleteByProject(ctx context.Context, projectId string) error {
	return r.db.Database().WithContext(ctx).
		Where("project_id = ?", projectId).
		Delete(&model.UserMemberProject{}).Error
}

// exists 判断查询是否命中记录
func exists(tx *gorm.DB) (bool, error) {
	count, err := Count(tx.Limit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
