//go:build wireinject
// +build wireinject

package main

import (
	"github.com/go-arcade/suitx/internal/engine/bootstrap"
	"github.com/go-arcade/suitx/internal/engine/config"
	"github.com/go-arcade/suitx/internal/engine/repo"
	"github.com/go-arcade/suitx/internal/engine/router"
	"github.com/go-arcade/suitx/internal/engine/service"
	"github.com/go-arcade/suitx/internal/pkg/notify"
	"github.com/go-arcade/suitx/internal/pkg/queue"
	"github.com/go-arcade/suitx/pkg/cache"
	"github.com/go-arcade/suitx/pkg/database"
	"github.com/go-arcade/suitx/pkg/http"
	"github.com/go-arcade/suitx/pkg/log"
	"github.com/go-arcade/suitx/pkg/metrics"
	"github.com/google/wire"
)

func initApp(configPath string) (*bootstrap.App, func(), error) {
	panic(wire.Build(
		// 配置层
		config.ProviderSet,
		// 日志层（依赖 config）
		log.ProviderSet,
		// 数据库层（依赖 config, log）
		database.ProviderSet,
		// 缓存层（依赖 config）
		cache.ProviderSet,
		// 任务队列层（依赖 config, cache）
		queue.ProviderSet,
		// 通知通道层（依赖 config）
		notify.ProviderSet,
		// 指标层（依赖 config）
		metrics.ProviderSet,
		// 仓储层
		repo.ProviderSet,
		// 服务层
		service.ProviderSet,
		// 路由层
		router.ProviderSet,
		http.ProviderSet,
		// 应用层
		bootstrap.ProviderSet,
	))
}
