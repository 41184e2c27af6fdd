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
	"encoding/binary"
	"time"

	"github.com/VictoriaMetrics/fastcache"
	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
)

// FastCacheConfig holds fastcache configuration
type FastCacheConfig struct {
	MaxBytes int // Maximum bytes for fastcache, default 16MB
}

// FastCache is an in-process ICache backed by VictoriaMetrics fastcache.
// Each entry is stored as an 8-byte unix-nano deadline followed by the value,
// a zero deadline means no expiration.
type FastCache struct {
	cache *fastcache.Cache
	now   func() time.Time
}

// NewFastCache creates a new FastCache instance
func NewFastCache(conf FastCacheConfig) *FastCache {
	maxBytes := conf.MaxBytes
	if maxBytes <= 0 {
		maxBytes = 16 * 1024 * 1024
	}
	return &FastCache{
		cache: fastcache.New(maxBytes),
		now:   time.Now,
	}
}

// load returns the live value and its deadline, expired entries are evicted on access
func (fc *FastCache) load(key string) ([]byte, time.Time, bool) {
	raw, ok := fc.cache.HasGet(nil, []byte(key))
	if !ok || len(raw) < 8 {
		return nil, time.Time{}, false
	}
	var deadline time.Time
	if nanos := int64(binary.BigEndian.Uint64(raw[:8])); nanos > 0 {
		deadline = time.Unix(0, nanos)
		if fc.now().After(deadline) {
			fc.cache.Del([]byte(key))
			return nil, time.Time{}, false
		}
	}
	return raw[8:], deadline, true
}

func (fc *FastCache) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx, "get", key)
	value, _, ok := fc.load(key)
	if !ok {
		cmd.SetErr(redis.Nil)
		return cmd
	}
	cmd.SetVal(string(value))
	return cmd
}

func (fc *FastCache) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx, "set", key)

	var valueBytes []byte
	switch v := value.(type) {
	case string:
		valueBytes = []byte(v)
	case []byte:
		valueBytes = v
	default:
		data, err := sonic.Marshal(v)
		if err != nil {
			cmd.SetErr(err)
			return cmd
		}
		valueBytes = data
	}

	entry := make([]byte, 8+len(valueBytes))
	if expiration > 0 {
		binary.BigEndian.PutUint64(entry[:8], uint64(fc.now().Add(expiration).UnixNano()))
	}
	copy(entry[8:], valueBytes)
	fc.cache.Set([]byte(key), entry)

	cmd.SetVal("OK")
	return cmd
}

func (fc *FastCache) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx, "del")
	var count int64
	for _, key := range keys {
		if _, _, ok := fc.load(key); ok {
			count++
		}
		fc.cache.Del([]byte(key))
	}
	cmd.SetVal(count)
	return cmd
}

func (fc *FastCache) Exists(ctx context.Context, keys ...string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx, "exists")
	var count int64
	for _, key := range keys {
		if _, _, ok := fc.load(key); ok {
			count++
		}
	}
	cmd.SetVal(count)
	return cmd
}

// TTL follows redis semantics: -2 for a missing key, -1 for a key without expiration
func (fc *FastCache) TTL(ctx context.Context, key string) *redis.DurationCmd {
	cmd := redis.NewDurationCmd(ctx, time.Second, "ttl", key)
	_, deadline, ok := fc.load(key)
	switch {
	case !ok:
		cmd.SetVal(-2)
	case deadline.IsZero():
		cmd.SetVal(-1)
	default:
		cmd.SetVal(deadline.Sub(fc.now()))
	}
	return cmd
}

// Reset drops every entry
func (fc *FastCache) Reset() {
	fc.cache.Reset()
}
