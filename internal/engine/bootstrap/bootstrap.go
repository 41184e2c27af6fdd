package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-arcade/suitx/internal/engine/config"
	"github.com/go-arcade/suitx/internal/engine/repo"
	"github.com/go-arcade/suitx/internal/engine/service"
	"github.com/go-arcade/suitx/internal/pkg/queue"
	"github.com/go-arcade/suitx/pkg/cron"
	"github.com/go-arcade/suitx/pkg/database"
	"github.com/go-arcade/suitx/pkg/http"
	"github.com/go-arcade/suitx/pkg/log"
	"github.com/go-arcade/suitx/pkg/metrics"
	"github.com/gofiber/fiber/v2"
)

const defaultShutdownTimeout = 30 * time.Second

type App struct {
	HttpApp       *fiber.App
	HttpServer    *http.Server
	MetricsServer *metrics.Server
	Scheduler     *cron.Scheduler
	Queue         *queue.TaskQueue
	Services      *service.Services
	Logger        *log.Logger
	DB            database.IDatabase
	AppConf       *config.AppConfig
}

// InitAppFunc init app function type
type InitAppFunc func(configPath string) (*App, func(), error)

func NewApp(
	httpApp *fiber.App,
	httpServer *http.Server,
	services *service.Services,
	metricsServer *metrics.Server,
	scheduler *cron.Scheduler,
	taskQueue *queue.TaskQueue,
	logger *log.Logger,
	manager database.Manager,
	db database.IDatabase,
	appConf *config.AppConfig,
) (*App, func(), error) {
	if appConf.Database.AutoMigrate {
		if err := repo.AutoMigrate(context.Background(), db); err != nil {
			return nil, nil, err
		}
		logger.Log.Info("database schema migrated")
	}

	if err := services.Housekeeping.RegisterJobs(scheduler); err != nil {
		return nil, nil, fmt.Errorf("register housekeeping jobs: %w", err)
	}

	app := &App{
		HttpApp:       httpApp,
		HttpServer:    httpServer,
		MetricsServer: metricsServer,
		Scheduler:     scheduler,
		Queue:         taskQueue,
		Services:      services,
		Logger:        logger,
		DB:            db,
		AppConf:       appConf,
	}

	cleanup := func() {
		// 先停止产生新任务的组件
		scheduler.Stop()

		if taskQueue != nil {
			taskQueue.Shutdown()
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metricsServer.Stop(ctx); err != nil {
			logger.Log.Errorw("failed to stop metrics server", "error", err)
		}

		if err := manager.Close(); err != nil {
			logger.Log.Errorw("failed to close database", "error", err)
		}
		log.Sync()
	}

	return app, cleanup, nil
}

// Bootstrap init app, return App instance and cleanup function
func Bootstrap(configFile string, initApp InitAppFunc) (*App, func(), *config.AppConfig, error) {
	app, cleanup, err := initApp(configFile)
	if err != nil {
		return nil, nil, nil, err
	}
	return app, cleanup, app.AppConf, nil
}

// Run start app and wait for exit signal, then gracefully shutdown
func Run(app *App, cleanup func()) {
	logger := app.Logger.Log

	if err := app.MetricsServer.Start(); err != nil {
		logger.Errorw("failed to start metrics server", "error", err)
	}

	if app.Queue != nil {
		if err := app.Queue.Start(); err != nil {
			logger.Errorw("failed to start task queue consumer", "error", err)
		}
	}

	app.Scheduler.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	app.HttpServer.Start()

	sig := <-quit
	logger.Infof("Received signal: %v, shutting down gracefully...", sig)

	timeout := defaultShutdownTimeout
	if app.AppConf.Http.ShutdownTimeout > 0 {
		timeout = time.Duration(app.AppConf.Http.ShutdownTimeout) * time.Second
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
	defer shutdownCancel()
	if err := app.HttpServer.Shutdown(shutdownCtx); err != nil {
		logger.Errorw("HTTP server shutdown error", "error", err)
	}

	cleanup()

	logger.Info("Server shutdown complete")
}
