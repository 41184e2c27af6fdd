package metrics

import (
	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	NewMetricsServer,
)

// NewMetricsServer 创建 metrics server 并注册 cron 与业务指标
func NewMetricsServer(config MetricsConfig) *Server {
	server := NewServer(config)
	SetupCronMetrics(server.GetRegistry())
	RegisterMembershipMetrics(server.GetRegistry())
	return server
}
