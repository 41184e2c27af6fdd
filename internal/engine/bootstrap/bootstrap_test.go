package bootstrap

import (
	"testing"

	"github.com/go-arcade/suitx/internal/engine/config"
	"github.com/go-arcade/suitx/internal/engine/service"
	"github.com/go-arcade/suitx/pkg/database"
	"github.com/go-arcade/suitx/pkg/http"
	"github.com/go-arcade/suitx/pkg/log"
	"github.com/go-arcade/suitx/pkg/metrics"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeManager struct {
	closed int
}

func (m *fakeManager) MySQL() *gorm.DB { return nil }

func (m *fakeManager) Close() error {
	m.closed++
	return nil
}

func newTestApp(t *testing.T, hk config.HousekeepingConfig) (*App, func(), *fakeManager, error) {
	t.Helper()
	appConf := &config.AppConfig{Housekeeping: hk}
	appConf.Http.SetDefaults()

	services := &service.Services{
		Housekeeping: service.NewHousekeepingService(nil, nil, nil, nil, nil, nil, nil, &appConf.Housekeeping),
	}
	httpApp := fiber.New()
	manager := &fakeManager{}
	app, cleanup, err := NewApp(
		httpApp,
		http.NewServer(appConf.Http, httpApp),
		services,
		metrics.NewServer(metrics.MetricsConfig{}),
		ProvideScheduler(&appConf.Housekeeping),
		nil,
		&log.Logger{Log: zap.NewNop().Sugar()},
		manager,
		database.NewDatabaseAdapter(manager),
		appConf,
	)
	return app, cleanup, manager, err
}

func TestNewApp_RegistersHousekeepingJobs(t *testing.T) {
	app, cleanup, manager, err := newTestApp(t, config.HousekeepingConfig{
		Enable:                 true,
		ExpireInvitationsSpec:  "@every 1h",
		PurgeNotificationsSpec: "0 30 3 * * *",
		JobTimeout:             30,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{service.JobExpireInvitations, service.JobPurgeNotifications}, app.Scheduler.Jobs())
	assert.Nil(t, app.Queue)

	cleanup()
	assert.Equal(t, 1, manager.closed)
}

func TestNewApp_HousekeepingDisabled(t *testing.T) {
	app, cleanup, _, err := newTestApp(t, config.HousekeepingConfig{ExpireInvitationsSpec: "@every 1h"})
	require.NoError(t, err)
	defer cleanup()

	assert.Empty(t, app.Scheduler.Jobs())
}

func TestNewApp_InvalidSpec(t *testing.T) {
	_, cleanup, _, err := newTestApp(t, config.HousekeepingConfig{Enable: true, ReconcileSpec: "every day"})
	require.Error(t, err)
	assert.Nil(t, cleanup)
}

func TestBootstrap(t *testing.T) {
	want := &App{AppConf: &config.AppConfig{}}
	app, cleanup, conf, err := Bootstrap("conf.d/config.toml", func(path string) (*App, func(), error) {
		assert.Equal(t, "conf.d/config.toml", path)
		return want, func() {}, nil
	})
	require.NoError(t, err)
	assert.Same(t, want, app)
	assert.Same(t, want.AppConf, conf)
	assert.NotNil(t, cleanup)
}
