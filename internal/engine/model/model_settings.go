package model

import (
	"fmt"

	"gorm.io/datatypes"
)

/**
 * @author: gagral.x@gmail.com
 * @time: 2025/11/20
 * @file: model_settings.go
 * @description: 用户偏好设置，每个用户一行，按分组存 JSON
 */

// 设置分组
const (
	SettingsNotifications = "notifications"
	SettingsPrivacy       = "privacy"
	SettingsTheme         = "theme"
	SettingsSecurity      = "security"
)

// 隐私项 searchVisible 为 false 时不出现在用户搜索结果中
const PrivacySearchVisible = "searchVisible"

// defaultSettings 各分组的默认值，同时约束可写入的键和值类型
var defaultSettings = map[string]map[string]any{
	SettingsNotifications: {
		"emailAlerts":       true,
		"smsAlerts":         false,
		"pushNotifications": true,
		"projectUpdates":    true,
		"riskAlerts":        true,
		"taskAssignments":   true,
		"weeklyDigest":      false,
	},
	SettingsPrivacy: {
		"profileVisible":      true,
		PrivacySearchVisible:  true,
		"showEmail":           false,
		"showPhone":           false,
		"allowProjectInvites": true,
	},
	SettingsTheme: {
		"darkMode":    false,
		"colorScheme": "blue",
		"fontSize":    "medium",
		"compactView": false,
	},
	SettingsSecurity: {
		"twoFactorEnabled":           false,
		"sessionTimeout":             true,
		"sessionTimeoutMinutes":      float64(30),
		"requirePasswordChange":      false,
		"passwordChangeIntervalDays": float64(90),
	},
}

type UserSettings struct {
	BaseModel
	UserId        string            `gorm:"column:user_id;type:varchar(64);uniqueIndex;not null" json:"userId"`
	Notifications datatypes.JSONMap `gorm:"column:notifications;type:json" json:"notifications"`
	Privacy       datatypes.JSONMap `gorm:"column:privacy;type:json" json:"privacy"`
	Theme         datatypes.JSONMap `gorm:"column:theme;type:json" json:"theme"`
	Security      datatypes.JSONMap `gorm:"column:security;type:json" json:"security"`
}

func (s *UserSettings) TableName() string {
	return "t_user_settings"
}

// DefaultUserSettings 未保存过设置的用户返回默认值
func DefaultUserSettings(userId string) *UserSettings {
	s := &UserSettings{UserId: userId}
	s.fillDefaults()
	return s
}

func (s *UserSettings) group(name string) *datatypes.JSONMap {
	switch name {
	case SettingsNotifications:
		return &s.Notifications
	case SettingsPrivacy:
		return &s.Privacy
	case SettingsTheme:
		return &s.Theme
	case SettingsSecurity:
		return &s.Security
	}
	return nil
}

// fillDefaults 补齐缺失的键，旧数据新增设置项时生效
func (s *UserSettings) fillDefaults() {
	for name, defaults := range defaultSettings {
		g := s.group(name)
		if *g == nil {
			*g = datatypes.JSONMap{}
		}
		for k, v := range defaults {
			if _, ok := (*g)[k]; !ok {
				(*g)[k] = v
			}
		}
	}
}

// Normalize 读出存储记录后补齐默认值
func (s *UserSettings) Normalize() *UserSettings {
	s.fillDefaults()
	return s
}

// SearchVisible 是否允许出现在用户搜索中
func (s *UserSettings) SearchVisible() bool {
	v, ok := s.Privacy[PrivacySearchVisible].(bool)
	return !ok || v
}

// Apply 合并请求中的分组，未知分组、未知键或类型不符返回错误
func (s *UserSettings) Apply(req *UpdateSettingsReq) error {
	patches := map[string]map[string]any{
		SettingsNotifications: req.Notifications,
		SettingsPrivacy:       req.Privacy,
		SettingsTheme:         req.Theme,
		SettingsSecurity:      req.Security,
	}
	for name, patch := range patches {
		for k, v := range patch {
			def, ok := defaultSettings[name][k]
			if !ok {
				return fmt.Errorf("unknown setting %s.%s", name, k)
			}
			if fmt.Sprintf("%T", def) != fmt.Sprintf("%T", v) {
				return fmt.Errorf("setting %s.%s must be %T", name, k, def)
			}
		}
	}
	s.fillDefaults()
	for name, patch := range patches {
		g := s.group(name)
		for k, v := range patch {
			(*g)[k] = v
		}
	}
	return nil
}

// UpdateSettingsReq 只写入出现的键，其余保持不变
type UpdateSettingsReq struct {
	Notifications map[string]any `json:"notifications"`
	Privacy       map[string]any `json:"privacy"`
	Theme         map[string]any `json:"theme"`
	Security      map[string]any `json:"security"`
}
