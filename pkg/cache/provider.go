package cache

import (
	"time"

	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
)

// defaultLocalMaxBytes is the default local cache size (32MB)
const defaultLocalMaxBytes = 32 * 1024 * 1024

// ProviderSet 提供缓存依赖（Redis + 本地 FastCache）
var ProviderSet = wire.NewSet(
	ProvideRedis,
	ProvideICache,
	ProvideFastCache,
	ProvideHybridCache,
)

// ProvideRedis 提供 Redis 客户端
func ProvideRedis(conf Redis) (*redis.Client, error) {
	return NewRedis(conf)
}

// ProvideICache 提供 ICache 接口实例
func ProvideICache(client *redis.Client) ICache {
	return NewRedisCache(client)
}

// ProvideFastCache 提供 FastCache 实例（默认 32MB）
func ProvideFastCache() *FastCache {
	return NewFastCache(FastCacheConfig{MaxBytes: defaultLocalMaxBytes})
}

// ProvideHybridCache 提供混合缓存实例（本地 FastCache + 远程 Redis）
func ProvideHybridCache(local *FastCache, remote ICache) *HybridCache {
	return NewHybridCache(local, remote, HybridCacheConfig{
		LocalEnabled:  true,
		LocalTTLRatio: 0.8,
		LocalMaxTTL:   30 * time.Second,
	})
}
