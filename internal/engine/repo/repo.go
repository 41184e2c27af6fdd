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
	"fmt"

	"github.com/go-arcade/suitx/internal/engine/model"
	"github.com/go-arcade/suitx/pkg/database"
	"gorm.io/gorm"
)

// Repositories 统一管理所有 repository
type Repositories struct {
	User              IUserRepository
	Settings          ISettingsRepository
	Project           IProjectRepository
	ProjectMember     IProjectMemberRepository
	UserMemberProject IUserMemberProjectRepository
	Invitation        IInvitationRepository
	Notification      INotificationRepository
	Task              ITaskRepository
	Risk              IRiskRepository
	Mitigation        IMitigationRepository
}

// NewRepositories 初始化所有 repository
func NewRepositories(db database.IDatabase) *Repositories {
	return &Repositories{
		User:              NewUserRepo(db),
		Settings:          NewSettingsRepo(db),
		Project:           NewProjectRepo(db),
		ProjectMember:     NewProjectMemberRepo(db),
		UserMemberProject: NewUserMemberProjectRepo(db),
		Invitation:        NewInvitationRepo(db),
		Notification:      NewNotificationRepo(db),
		Task:              NewTaskRepo(db),
		Risk:              NewRiskRepo(db),
		Mitigation:        NewMitigationRepo(db),
	}
}

// AutoMigrate 创建或更新所有表结构
func AutoMigrate(ctx context.Context, db database.IDatabase) error {
	if err := db.Database().WithContext(ctx).AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func Count(tx *gorm.DB) (int64, error) {
	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
