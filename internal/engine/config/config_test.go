package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
[http]
port = 9000
internalContextPath = "/api/v2"

[http.auth]
secretKey = "s3cret"
accessExpire = 60

[mail]
enable = true
host = "smtp.test"

[notification.webhook]
enable = true
url = "http://hook.test"

[housekeeping]
reconcileSpec = "@every 2h"
`

func writeConf(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfigFile(t *testing.T) {
	conf, err := LoadConfigFile(writeConf(t, sample))
	require.NoError(t, err)

	assert.Equal(t, 9000, conf.Http.Port)
	assert.Equal(t, "/api/v2", conf.Http.InternalContextPath)
	assert.Equal(t, "s3cret", conf.Http.Auth.SecretKey)
	assert.Equal(t, time.Duration(60), conf.Http.Auth.AccessExpire)
	assert.True(t, conf.Mail.Enable)
	assert.Equal(t, "smtp.test", conf.Mail.Host)
	assert.True(t, conf.Notification.Webhook.Enable)
	assert.Equal(t, "http://hook.test", conf.Notification.Webhook.Url)

	// 默认值
	assert.Equal(t, 7, conf.Invitation.ExpireDays)
	assert.Equal(t, 30, conf.Notification.DefaultRetentionDays)
	assert.Equal(t, 90, conf.Notification.LongRetentionDays)
	assert.True(t, conf.Housekeeping.Enable)
	assert.Equal(t, "@every 2h", conf.Housekeeping.ReconcileSpec)
	assert.Equal(t, "@every 1h", conf.Housekeeping.ExpireInvitationsSpec)
	assert.Equal(t, "single", conf.Redis.Mode)
}

func TestLoadConfigFile_Missing(t *testing.T) {
	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestProviders_ApplyDefaults(t *testing.T) {
	conf := &AppConfig{}

	assert.Equal(t, 7, ProvideInvitationConfig(conf).ExpireDays)
	n := ProvideNotificationConfig(conf)
	assert.Equal(t, 30, n.DefaultRetentionDays)
	assert.Equal(t, 90, n.LongRetentionDays)

	mail := ProvideMailConfig(conf)
	assert.Equal(t, 587, mail.Port)
	assert.Equal(t, 3, mail.MaxAttempts)

	q := ProvideQueueConfig(conf)
	assert.Equal(t, 10, q.Concurrency)

	h := ProvideHttpConfig(conf)
	assert.Equal(t, 8080, h.Port)
	assert.Equal(t, 9090, ProvideMetricsConfig(conf).Port)
}
