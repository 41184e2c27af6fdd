package model

import "time"

/**
 * @author: gagral.x@gmail.com
 * @time: 2024/9/28 21:55
 * @file: model.go
 * @description: base model
 */

type BaseModel struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// All 所有需要迁移的表
func All() []any {
	return []any{
		&User{},
		&UserSettings{},
		&Project{},
		&ProjectMember{},
		&UserMemberProject{},
		&ProjectInvitation{},
		&Notification{},
		&Task{},
		&Risk{},
		&Mitigation{},
	}
}
