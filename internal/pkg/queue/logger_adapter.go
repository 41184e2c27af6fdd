package queue

import (
	"fmt"

	"github.com/go-arcade/suitx/pkg/log"
)

// asynqLoggerAdapter 将 asynq.Logger 接口适配到 pkg/log
// asynq 内部日志统一加上 component 字段
type asynqLoggerAdapter struct{}

func (l *asynqLoggerAdapter) Debug(args ...any) {
	log.Debugw(fmt.Sprint(args...), "component", "asynq")
}

func (l *asynqLoggerAdapter) Info(args ...any) {
	log.Infow(fmt.Sprint(args...), "component", "asynq")
}

func (l *asynqLoggerAdapter) Warn(args ...any) {
	log.Warnw(fmt.Sprint(args...), "component", "asynq")
}

func (l *asynqLoggerAdapter) Error(args ...any) {
	log.Errorw(fmt.Sprint(args...), "component", "asynq")
}

// Fatal 实现 asynq.Logger 接口
func (l *asynqLoggerAdapter) Fatal(args ...any) {
	log.Fatal(args...)
}
