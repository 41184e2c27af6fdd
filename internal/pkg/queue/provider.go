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
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
)

// ProviderSet 提供 queue 相关的依赖
var ProviderSet = wire.NewSet(
	ProvideTaskQueue,
)

// ProvideTaskQueue 队列未启用时返回 nil，调用方走进程内发送
func ProvideTaskQueue(cfg *Config, redisClient *redis.Client) (*TaskQueue, error) {
	if !cfg.Enable {
		return nil, nil
	}
	return NewTaskQueue(*cfg, redisClient)
}
