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

package cache

import (
	"context"
	"errors"
	"time"

	"github.com/go-arcade/suitx/pkg/log"
	"github.com/redis/go-redis/v9"
)

// HybridCacheConfig holds hybrid cache configuration
type HybridCacheConfig struct {
	LocalEnabled  bool          // Enable local cache
	LocalTTLRatio float64       // Ratio of remote TTL for local cache (0.0-1.0)
	LocalMaxTTL   time.Duration // Upper bound for local entries, bounds staleness across instances
}

// HybridCache combines a local fastcache (L1) with redis (L2).
// Writes go to both, reads prefer L1 and backfill it from L2.
type HybridCache struct {
	local  *FastCache
	remote ICache
	config HybridCacheConfig
}

// NewHybridCache creates a new HybridCache instance
func NewHybridCache(localCache *FastCache, remoteCache ICache, config HybridCacheConfig) *HybridCache {
	if config.LocalMaxTTL <= 0 {
		config.LocalMaxTTL = time.Minute
	}
	return &HybridCache{
		local:  localCache,
		remote: remoteCache,
		config: config,
	}
}

func (hc *HybridCache) localEnabled() bool {
	return hc.config.LocalEnabled && hc.local != nil
}

// getLocalTTL calculates local TTL based on remote TTL and ratio
func (hc *HybridCache) getLocalTTL(remoteTTL time.Duration) time.Duration {
	ttl := remoteTTL
	if hc.config.LocalTTLRatio > 0 && hc.config.LocalTTLRatio < 1.0 {
		ttl = time.Duration(float64(remoteTTL) * hc.config.LocalTTLRatio)
	}
	if ttl <= 0 || ttl > hc.config.LocalMaxTTL {
		ttl = hc.config.LocalMaxTTL
	}
	return ttl
}

func (hc *HybridCache) Get(ctx context.Context, key string) *redis.StringCmd {
	if hc.localEnabled() {
		if cmd := hc.local.Get(ctx, key); cmd.Err() == nil {
			return cmd
		}
	}

	cmd := hc.remote.Get(ctx, key)
	if cmd.Err() != nil {
		if !errors.Is(cmd.Err(), redis.Nil) {
			log.Warnw("hybrid cache remote get failed", "key", key, "error", cmd.Err())
		}
		return cmd
	}
	if hc.localEnabled() {
		hc.local.Set(ctx, key, cmd.Val(), hc.config.LocalMaxTTL)
	}
	return cmd
}

func (hc *HybridCache) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	cmd := hc.remote.Set(ctx, key, value, expiration)
	if cmd.Err() == nil && hc.localEnabled() {
		hc.local.Set(ctx, key, value, hc.getLocalTTL(expiration))
	}
	return cmd
}

func (hc *HybridCache) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	if hc.localEnabled() {
		hc.local.Del(ctx, keys...)
	}
	return hc.remote.Del(ctx, keys...)
}

func (hc *HybridCache) Exists(ctx context.Context, keys ...string) *redis.IntCmd {
	return hc.remote.Exists(ctx, keys...)
}

func (hc *HybridCache) TTL(ctx context.Context, key string) *redis.DurationCmd {
	return hc.remote.TTL(ctx, key)
}
