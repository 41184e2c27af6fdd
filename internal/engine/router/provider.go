package router

import (
	"github.com/go-arcade/suitx/internal/engine/service"
	"github.com/go-arcade/suitx/pkg/cache"
	"github.com/go-arcade/suitx/pkg/http"
	"github.com/go-arcade/suitx/pkg/metrics"
	"github.com/gofiber/fiber/v2"
	"github.com/google/wire"
)

// ProviderSet 提供路由相关的依赖
var ProviderSet = wire.NewSet(ProvideRouter, ProvideFiberApp)

// ProvideRouter 提供路由实例，session 缓存用于校验登录会话
func ProvideRouter(httpConf *http.Http, services *service.Services, session cache.ICache, metricsServer *metrics.Server) *Router {
	return NewRouter(httpConf, services, session, metricsServer)
}

// ProvideFiberApp 构建挂载全部路由的 fiber app
func ProvideFiberApp(rt *Router) *fiber.App {
	return rt.Router()
}
