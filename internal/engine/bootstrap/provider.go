package bootstrap

import (
	"time"

	"github.com/go-arcade/suitx/internal/engine/config"
	"github.com/go-arcade/suitx/pkg/cron"
	"github.com/google/wire"
)

// ProviderSet 提供应用层依赖
var ProviderSet = wire.NewSet(
	ProvideScheduler,
	NewApp,
)

// ProvideScheduler 创建定时任务调度器，任务由 Housekeeping 在 NewApp 中注册
func ProvideScheduler(conf *config.HousekeepingConfig) *cron.Scheduler {
	var opts []cron.Option
	if conf != nil && conf.JobTimeout > 0 {
		opts = append(opts, cron.WithJobTimeout(time.Duration(conf.JobTimeout)*time.Second))
	}
	return cron.New(opts...)
}
