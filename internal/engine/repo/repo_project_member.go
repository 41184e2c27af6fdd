package repo

import (
	"context"

	"github.com/go-arcade/suitx/internal/engine/model"
	"github.com/go-arcade/suitx/pkg/database"
	"gorm.io/gorm/clause"
)

/**
 * @author: gagral.x@gmail.com
 * @time: 2025/10/13
 * @file: repo_project_member.go
 * @description: 项目成员仓储，(project_id, user_id) 唯一
 */

type IProjectMemberRepository interface {
	Add(ctx context.Context, projectId, userId string) error
	Remove(ctx context.Context, projectId, userId string) error
	IsMember(ctx context.Context, projectId, userId string) (bool, error)
	ListMemberIds(ctx context.Context, projectId string) ([]string, error)
	ListProjectIds(ctx context.Context, userId string) ([]string, error)
	ListAll(ctx context.Context) ([]model.ProjectMember, error)
	DeleteByProject(ctx context.Context, projectId string) error
}

type ProjectMemberRepo struct {
	db database.IDatabase
}

func NewProjectMemberRepo(db database.IDatabase) IProjectMemberRepository {
	return &ProjectMemberRepo{db: db}
}

// Add 添加项目成员，重复添加不报错
func (r *ProjectMemberRepo) Add(ctx context.Context, projectId, userId string) error {
	return r.db.Database().WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.ProjectMember{ProjectId: projectId, UserId: userId}).Error
}

// Remove 移除项目成员
func (r *ProjectMemberRepo) Remove(ctx context.Context, projectId, userId string) error {
	return r.db.Database().WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectId, userId).
		Delete(&model.ProjectMember{}).Error
}

func (r *ProjectMemberRepo) IsMember(ctx context.Context, projectId, userId string) (bool, error) {
	return exists(database.WriteDB(r.db.Database().WithContext(ctx)).Model(&model.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectId, userId))
}

// ListMemberIds 列出项目成员 id，走主库以读到刚写入的成员
func (r *ProjectMemberRepo) ListMemberIds(ctx context.Context, projectId string) ([]string, error) {
	ids := make([]string, 0)
	err := database.WriteDB(r.db.Database().WithContext(ctx)).Model(&model.ProjectMember{}).
		Where("project_id = ?", projectId).
		Order("id ASC").
		Pluck("user_id", &ids).Error
	return ids, err
}

// ListProjectIds 按项目侧数据列出用户所属项目
func (r *ProjectMemberRepo) ListProjectIds(ctx context.Context, userId string) ([]string, error) {
	ids := make([]string, 0)
	err := r.db.Database().WithContext(ctx).Model(&model.ProjectMember{}).
		Where("user_id = ?", userId).
		Pluck("project_id", &ids).Error
	return ids, err
}

func (r *ProjectMemberRepo) ListAll(ctx context.Context) ([]model.ProjectMember, error) {
	var members []model.ProjectMember
	err := database.ReadDB(r.db.Database().WithContext(ctx)).Order("id ASC").Find(&members).Error
	return members, err
}

func (r *ProjectMemberRepo) DeleteByProject(ctx context.Context, projectId string) error {
	return r.db.Database().WithContext(ctx).
		Where("project_id = ?", projectId).
		Delete(&model.ProjectMember{}).Error
}
