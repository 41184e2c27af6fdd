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

package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-arcade/suitx/pkg/log"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// 队列名称常量
const (
	Critical = "critical" // 关键队列（优先级最高）
	Default  = "default"  // 默认队列
	Low      = "low"      // 低优先级队列
)

// Config queue 配置，时间单位为秒
type Config struct {
	Enable          bool
	Concurrency     int
	MaxRetry        int
	TaskTimeout     int
	StrictPriority  bool
	Queues          map[string]int
	DefaultQueue    string
	LogLevel        string
	ShutdownTimeout int
}

func (c *Config) SetDefaults() {
	if c.Concurrency <= 0 {
		c.Concurrency = 10
	}
	if c.MaxRetry <= 0 {
		c.MaxRetry = 3
	}
	if c.TaskTimeout <= 0 {
		c.TaskTimeout = 30
	}
	if len(c.Queues) == 0 {
		c.Queues = map[string]int{
			Critical: 6,
			Default:  3,
			Low:      1,
		}
	}
	if c.DefaultQueue == "" {
		c.DefaultQueue = Default
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 10
	}
}

// HandlerFunc 处理原始任务负载
type HandlerFunc func(ctx context.Context, payload []byte) error

// Handle 将 JSON 负载解码为 T 后交给 fn
func Handle[T any](fn func(ctx context.Context, payload *T) error) HandlerFunc {
	return func(ctx context.Context, payload []byte) error {
		var v T
		if err := sonic.Unmarshal(payload, &v); err != nil {
			// 负载损坏，重试无意义
			return fmt.Errorf("unmarshal task payload: %v: %w", err, asynq.SkipRetry)
		}
		return fn(ctx, &v)
	}
}

// TaskQueue 基于 asynq 的任务队列，同一进程内既入队也消费
type TaskQueue struct {
	client *asynq.Client
	server *asynq.Server
	mux    *asynq.ServeMux
	config Config
}

// NewTaskQueue 创建任务队列，复用已有的 Redis 客户端
func NewTaskQueue(cfg Config, redisClient redis.UniversalClient) (*TaskQueue, error) {
	if redisClient == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	cfg.SetDefaults()
	redisOpt := &redisConnOptWrapper{client: redisClient}

	var logLevel asynq.LogLevel
	if cfg.LogLevel == "" {
		logLevel = asynq.InfoLevel
	} else if err := logLevel.Set(cfg.LogLevel); err != nil {
		log.Warnw("invalid log level, using default info", "logLevel", cfg.LogLevel, "error", err)
		logLevel = asynq.InfoLevel
	}

	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency:     cfg.Concurrency,
		StrictPriority:  cfg.StrictPriority,
		Queues:          cfg.Queues,
		Logger:          &asynqLoggerAdapter{},
		LogLevel:        logLevel,
		RetryDelayFunc:  asynq.DefaultRetryDelayFunc,
		ShutdownTimeout: time.Duration(cfg.ShutdownTimeout) * time.Second,
	})

	q := &TaskQueue{
		client: asynq.NewClient(redisOpt),
		server: server,
		mux:    asynq.NewServeMux(),
		config: cfg,
	}

	log.Infow("asynq task queue created",
		"concurrency", cfg.Concurrency,
		"queues", cfg.Queues,
	)
	return q, nil
}

// newMux 仅用于注册处理器，不连接 Redis
func newMux(cfg Config) *TaskQueue {
	cfg.SetDefaults()
	return &TaskQueue{mux: asynq.NewServeMux(), config: cfg}
}

// RegisterHandler 注册任务处理器
func (q *TaskQueue) RegisterHandler(taskType string, handler HandlerFunc) {
	q.mux.HandleFunc(taskType, func(ctx context.Context, t *asynq.Task) error {
		taskID, _ := asynq.GetTaskID(ctx)
		retried, _ := asynq.GetRetryCount(ctx)
		start := time.Now()

		err := handler(ctx, t.Payload())
		if err != nil {
			log.Warnw("task failed",
				"task_id", taskID,
				"task_type", t.Type(),
				"retried", retried,
				"error", err,
			)
			return err
		}
		log.Debugw("task processed",
			"task_id", taskID,
			"task_type", t.Type(),
			"duration", time.Since(start),
		)
		return nil
	})
	log.Infow("task handler registered", "task_type", taskType)
}

// Enqueue 入队任务，payload 以 JSON 编码
func (q *TaskQueue) Enqueue(ctx context.Context, taskType string, payload any, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	task, err := q.newTask(taskType, payload, opts...)
	if err != nil {
		return nil, err
	}

	info, err := q.client.EnqueueContext(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("enqueue task %s: %w", taskType, err)
	}

	log.WithContext(ctx).Debugw("task enqueued",
		"task_type", taskType,
		"queue", info.Queue,
		"asynq_task_id", info.ID,
	)
	return info, nil
}

func (q *TaskQueue) newTask(taskType string, payload any, opts ...asynq.Option) (*asynq.Task, error) {
	data, err := sonic.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal task payload: %w", err)
	}

	defaults := []asynq.Option{
		asynq.Queue(q.config.DefaultQueue),
		asynq.MaxRetry(q.config.MaxRetry),
		asynq.Timeout(time.Duration(q.config.TaskTimeout) * time.Second),
	}
	// 调用方选项在后，覆盖默认值
	return asynq.NewTask(taskType, data, append(defaults, opts...)...), nil
}

// Start 启动消费端，立即返回
func (q *TaskQueue) Start() error {
	log.Info("starting task queue server")
	return q.server.Start(q.mux)
}

// Shutdown 关闭任务队列服务器与客户端
func (q *TaskQueue) Shutdown() {
	log.Info("shutting down task queue server")
	if q.server != nil {
		q.server.Shutdown()
	}
	if q.client != nil {
		if err := q.client.Close(); err != nil {
			log.Warnw("error closing asynq client", "error", err)
		}
	}
}

// redisConnOptWrapper 包装已有的 Redis 客户端实现 RedisConnOpt 接口
type redisConnOptWrapper struct {
	client redis.UniversalClient
}

// MakeRedisClient 实现 RedisConnOpt 接口
func (r *redisConnOptWrapper) MakeRedisClient() interface{} {
	return r.client
}
