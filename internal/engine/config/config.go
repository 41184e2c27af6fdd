package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/go-arcade/suitx/internal/pkg/notify"
	"github.com/go-arcade/suitx/internal/pkg/queue"
	"github.com/go-arcade/suitx/pkg/cache"
	"github.com/go-arcade/suitx/pkg/database"
	"github.com/go-arcade/suitx/pkg/http"
	"github.com/go-arcade/suitx/pkg/log"
	"github.com/go-arcade/suitx/pkg/metrics"
	"github.com/spf13/viper"
)

/**
 * @author: gagral.x@gmail.com
 * @time: 2024/9/8 15:02
 * @file: config.go
 * @description: 应用配置加载
 */

// InvitationConfig 邀请配置
type InvitationConfig struct {
	ExpireDays int
}

// NotificationConfig 通知配置，保留期单位为天
type NotificationConfig struct {
	DefaultRetentionDays int
	LongRetentionDays    int
	Webhook              notify.WebhookConfig
}

// HousekeepingConfig 定时维护任务，spec 为 robfig/cron 六段式或 @every 描述
type HousekeepingConfig struct {
	Enable                 bool
	ExpireInvitationsSpec  string
	PurgeNotificationsSpec string
	ReconcileSpec          string
	DeadlineSpec           string
	JobTimeout             int
}

type AppConfig struct {
	Log          log.Conf
	Http         http.Http
	Database     database.Database
	Redis        cache.Redis
	Metrics      metrics.MetricsConfig
	Mail         notify.MailConfig
	Queue        queue.Config
	Invitation   InvitationConfig
	Notification NotificationConfig
	Housekeeping HousekeepingConfig
}

var (
	cfg  AppConfig
	once sync.Once
)

func NewConf(confDir string) AppConfig {
	once.Do(func() {
		var err error
		cfg, err = LoadConfigFile(confDir)
		if err != nil {
			panic(fmt.Sprintf("load config file error: %s", err))
		}
	})
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.path", "./logs")
	v.SetDefault("log.filename", "suitx.log")
	v.SetDefault("log.level", "INFO")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.internalContextPath", "/api/v1")

	v.SetDefault("redis.mode", "single")
	v.SetDefault("redis.address", "127.0.0.1:6379")
	v.SetDefault("redis.poolSize", 20)

	v.SetDefault("invitation.expireDays", 7)
	v.SetDefault("notification.defaultRetentionDays", 30)
	v.SetDefault("notification.longRetentionDays", 90)
	v.SetDefault("notification.webhook.timeout", 5)

	v.SetDefault("housekeeping.enable", true)
	v.SetDefault("housekeeping.expireInvitationsSpec", "@every 1h")
	v.SetDefault("housekeeping.purgeNotificationsSpec", "0 30 3 * * *")
	v.SetDefault("housekeeping.reconcileSpec", "0 0 4 * * *")
	v.SetDefault("housekeeping.deadlineSpec", "@every 30m")
	v.SetDefault("housekeeping.jobTimeout", 300)
}

// LoadConfigFile load config file
func LoadConfigFile(confDir string) (AppConfig, error) {
	var loaded AppConfig

	config := viper.New()
	setDefaults(config)
	config.SetConfigFile(confDir) //文件名
	config.SetEnvPrefix("SUITX")
	config.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	config.AutomaticEnv()
	if err := config.ReadInConfig(); err != nil {
		return loaded, fmt.Errorf("failed to read configuration file: %w", err)
	}

	if err := config.Unmarshal(&loaded); err != nil {
		return loaded, fmt.Errorf("failed to unmarshal configuration file: %w", err)
	}

	config.OnConfigChange(func(e fsnotify.Event) {
		log.Infow("configuration changed, reloading", "file", e.Name)
		var changed AppConfig
		if err := config.Unmarshal(&changed); err != nil {
			log.Errorw("failed to unmarshal changed configuration", "error", err)
			return
		}
		// 仅日志级别支持热更新，其它配置需要重启
		if changed.Log.Level != "" {
			log.SetLevel(changed.Log.Level)
		}
	})
	config.WatchConfig()

	log.Infow("config file loaded",
		"path", confDir,
	)
	return loaded, nil
}
