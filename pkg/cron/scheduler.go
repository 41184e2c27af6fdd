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

package cron

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-arcade/suitx/pkg/log"
	"github.com/pkg/errors"
	"github.com/robfig/cron"
)

var (
	// ErrDuplicateJob 同名任务重复注册
	ErrDuplicateJob = errors.New("cron job already registered")
	// ErrJobRunning 上一次执行尚未结束
	ErrJobRunning = errors.New("cron job is still running")
)

// MetricsRecorder 任务执行指标上报
type MetricsRecorder interface {
	RecordJobRun(jobName string, duration time.Duration, err error)
	UpdateJobsCount(count int)
}

var (
	recorderMu sync.RWMutex
	recorder   MetricsRecorder
)

// SetMetricsRecorder 设置全局指标上报器
func SetMetricsRecorder(r MetricsRecorder) {
	recorderMu.Lock()
	defer recorderMu.Unlock()
	recorder = r
}

func getRecorder() MetricsRecorder {
	recorderMu.RLock()
	defer recorderMu.RUnlock()
	return recorder
}

// JobFunc 定时任务函数
type JobFunc func(ctx context.Context) error

type job struct {
	name    string
	spec    string
	fn      JobFunc
	timeout time.Duration
	running int32
}

// Scheduler wraps robfig/cron with named jobs, overlap protection,
// panic recovery and run metrics.
type Scheduler struct {
	mu      sync.Mutex
	cron    *cron.Cron
	jobs    map[string]*job
	timeout time.Duration
	started bool
}

type Option func(*Scheduler)

// WithJobTimeout 单次执行超时时间，0 表示不限制
func WithJobTimeout(d time.Duration) Option {
	return func(s *Scheduler) {
		s.timeout = d
	}
}

func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		cron: cron.New(),
		jobs: make(map[string]*job),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddFunc registers fn under name. spec accepts the six field form
// (seconds first) or descriptors such as "@every 1h".
func (s *Scheduler) AddFunc(name, spec string, fn JobFunc) error {
	if name == "" {
		return errors.New("cron job name is empty")
	}
	if _, err := cron.Parse(spec); err != nil {
		return errors.Wrapf(err, "invalid cron spec %q for job %s", spec, name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[name]; ok {
		return errors.Wrap(ErrDuplicateJob, name)
	}

	j := &job{name: name, spec: spec, fn: fn, timeout: s.timeout}
	if err := s.cron.AddFunc(spec, func() { _ = s.run(j) }); err != nil {
		return errors.Wrapf(err, "add cron job %s", name)
	}
	s.jobs[name] = j

	if r := getRecorder(); r != nil {
		r.UpdateJobsCount(len(s.jobs))
	}
	log.Infow("cron job registered", "job", name, "spec", spec)
	return nil
}

// RunNow 立即同步执行一次指定任务
func (s *Scheduler) RunNow(name string) error {
	s.mu.Lock()
	j, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("cron job %s not found", name)
	}
	return s.run(j)
}

func (s *Scheduler) run(j *job) (err error) {
	if !atomic.CompareAndSwapInt32(&j.running, 0, 1) {
		log.Warnw("cron job skipped, previous run not finished", "job", j.name)
		return ErrJobRunning
	}
	defer atomic.StoreInt32(&j.running, 0)

	ctx := context.Background()
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cron job %s panic: %v", j.name, r)
		}
		duration := time.Since(start)
		if rec := getRecorder(); rec != nil {
			rec.RecordJobRun(j.name, duration, err)
		}
		if err != nil {
			log.Errorw("cron job failed", "job", j.name, "duration", duration, "error", err)
			return
		}
		log.Debugw("cron job finished", "job", j.name, "duration", duration)
	}()

	return j.fn(ctx)
}

// Jobs 返回已注册任务名，按字典序
func (s *Scheduler) Jobs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.cron.Start()
	s.started = true
	log.Infow("cron scheduler started", "jobs", len(s.jobs))
}

func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	s.cron.Stop()
	s.started = false
	log.Info("cron scheduler stopped")
}
