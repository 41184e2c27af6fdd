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

package repo

import (
	"context"

	"github.com/go-arcade/suitx/internal/engine/model"
	"github.com/go-arcade/suitx/pkg/database"
)

type IProjectRepository interface {
	Create(ctx context.Context, project *model.Project) error
	Get(ctx context.Context, projectId string) (*model.Project, error)
	Update(ctx context.Context, projectId string, updates map[string]any) error
	Delete(ctx context.Context, projectId string) error
	ListOwned(ctx context.Context, ownerId, username string) ([]model.Project, error)
	ListByIds(ctx context.Context, projectIds []string) ([]model.Project, error)
}

type ProjectRepo struct {
	db database.IDatabase
}

func NewProjectRepo(db database.IDatabase) IProjectRepository {
	return &ProjectRepo{db: db}
}

// Create 创建项目
func (r *ProjectRepo) Create(ctx context.Context, project *model.Project) error {
	return r.db.Database().WithContext(ctx).Create(project).Error
}

// Get 获取项目，不存在时返回 gorm.ErrRecordNotFound
func (r *ProjectRepo) Get(ctx context.Context, projectId string) (*model.Project, error) {
	var project model.Project
	err := r.db.Database().WithContext(ctx).Where("project_id = ?", projectId).First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Update 更新项目
func (r *ProjectRepo) Update(ctx context.Context, projectId string, updates map[string]any) error {
	return r.db.Database().WithContext(ctx).Model(&model.Project{}).
		Where("project_id = ?", projectId).
		Updates(updates).Error
}

// Delete 删除项目
func (r *ProjectRepo) Delete(ctx context.Context, projectId string) error {
	return r.db.Database().WithContext(ctx).Where("project_id = ?", projectId).
		Delete(&model.Project{}).Error
}

// ListOwned 列出用户拥有的项目，包含 owner_id 为空、按创建者用户名识别的旧记录
func (r *ProjectRepo) ListOwned(ctx context.Context, ownerId, username string) ([]model.Project, error) {
	var projects []model.Project
	err := r.db.Database().WithContext(ctx).
		Where("owner_id = ? OR (owner_id = '' AND created_by = ?)", ownerId, username).
		Order("created_at DESC").
		Find(&projects).Error
	return projects, err
}

// ListByIds 批量获取项目
func (r *ProjectRepo) ListByIds(ctx context.Context, projectIds []string) ([]model.Project, error) {
	var projects []model.Project
	if len(projectIds) == 0 {
		return projects, nil
	}
	err := r.db.Database().WithContext(ctx).
		Where("project_id IN ?", projectIds).
		Order("created_at DESC").
		Find(&projects).Error
	return projects, err
}
