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

package config

import (
	"github.com/go-arcade/suitx/internal/pkg/notify"
	"github.com/go-arcade/suitx/internal/pkg/queue"
	"github.com/go-arcade/suitx/pkg/cache"
	"github.com/go-arcade/suitx/pkg/database"
	"github.com/go-arcade/suitx/pkg/http"
	"github.com/go-arcade/suitx/pkg/log"
	"github.com/go-arcade/suitx/pkg/metrics"
	"github.com/google/wire"
)

// ProviderSet 提供配置层相关的依赖
var ProviderSet = wire.NewSet(
	ProvideConf,
	ProvideHttpConfig,
	ProvideLogConfig,
	ProvideDatabaseConfig,
	ProvideRedisConfig,
	ProvideMetricsConfig,
	ProvideMailConfig,
	ProvideWebhookConfig,
	ProvideQueueConfig,
	ProvideInvitationConfig,
	ProvideNotificationConfig,
	ProvideHousekeepingConfig,
)

// ProvideConf 提供应用配置
func ProvideConf(configPath string) *AppConfig {
	conf := NewConf(configPath)
	return &conf
}

// ProvideHttpConfig 提供 HTTP 配置
func ProvideHttpConfig(appConf *AppConfig) *http.Http {
	httpConfig := &appConf.Http
	httpConfig.SetDefaults()
	return httpConfig
}

// ProvideLogConfig 提供日志配置
func ProvideLogConfig(appConf *AppConfig) *log.Conf {
	return &appConf.Log
}

// ProvideDatabaseConfig 提供数据库配置
func ProvideDatabaseConfig(appConf *AppConfig) database.Database {
	return appConf.Database
}

// ProvideRedisConfig 提供 Redis 配置
func ProvideRedisConfig(appConf *AppConfig) cache.Redis {
	return appConf.Redis
}

// ProvideMetricsConfig 提供 Metrics 配置
func ProvideMetricsConfig(appConf *AppConfig) metrics.MetricsConfig {
	metricsConfig := appConf.Metrics
	metricsConfig.SetDefaults()
	return metricsConfig
}

// ProvideMailConfig 提供邮件配置
func ProvideMailConfig(appConf *AppConfig) *notify.MailConfig {
	mailConfig := &appConf.Mail
	mailConfig.SetDefaults()
	return mailConfig
}

// ProvideWebhookConfig 提供通知镜像 webhook 配置
func ProvideWebhookConfig(appConf *AppConfig) *notify.WebhookConfig {
	return &appConf.Notification.Webhook
}

// ProvideQueueConfig 提供任务队列配置
func ProvideQueueConfig(appConf *AppConfig) *queue.Config {
	queueConfig := &appConf.Queue
	queueConfig.SetDefaults()
	return queueConfig
}

// ProvideInvitationConfig 提供邀请配置
func ProvideInvitationConfig(appConf *AppConfig) *InvitationConfig {
	if appConf.Invitation.ExpireDays <= 0 {
		appConf.Invitation.ExpireDays = 7
	}
	return &appConf.Invitation
}

// ProvideNotificationConfig 提供通知配置
func ProvideNotificationConfig(appConf *AppConfig) *NotificationConfig {
	if appConf.Notification.DefaultRetentionDays <= 0 {
		appConf.Notification.DefaultRetentionDays = 30
	}
	if appConf.Notification.LongRetentionDays <= 0 {
		appConf.Notification.LongRetentionDays = 90
	}
	return &appConf.Notification
}

// ProvideHousekeepingConfig 提供定时维护配置
func ProvideHousekeepingConfig(appConf *AppConfig) *HousekeepingConfig {
	return &appConf.Housekeeping
}
