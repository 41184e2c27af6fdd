package router

import (
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-arcade/suitx/internal/engine/service"
	"github.com/go-arcade/suitx/pkg/cache"
	"github.com/go-arcade/suitx/pkg/http"
	"github.com/go-arcade/suitx/pkg/http/middleware"
	"github.com/go-arcade/suitx/pkg/metrics"
	"github.com/go-arcade/suitx/pkg/version"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/pprof"
)

/**
 * @author: gagral.x@gmail.com
 * @time: 2024/9/8 15:48
 * @file: router.go
 * @description: setup router
 *  		     internal api router, use by web
 */

type Router struct {
	Http     *http.Http
	Services *service.Services
	Session  cache.ICache
	Metrics  *metrics.Server
}

func NewRouter(httpConf *http.Http, services *service.Services, session cache.ICache, metricsServer *metrics.Server) *Router {
	return &Router{
		Http:     httpConf,
		Services: services,
		Session:  session,
		Metrics:  metricsServer,
	}
}

func (rt *Router) Router() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               version.AppName,
		DisableStartupMessage: true,
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		ReadTimeout:           time.Duration(rt.Http.ReadTimeout) * time.Second,
		WriteTimeout:          time.Duration(rt.Http.WriteTimeout) * time.Second,
		IdleTimeout:           time.Duration(rt.Http.IdleTimeout) * time.Second,
		BodyLimit:             rt.Http.BodyLimit,
	})

	app.Use(
		middleware.RequestMiddleware(),
		middleware.RealIPMiddleware(),
		middleware.AccessLogMiddleware(rt.Http.AccessLog),
		middleware.CorsMiddleware(),
		middleware.ExceptionMiddleware,
	)

	if rt.Http.PProf {
		app.Use(pprof.New())
	}

	if rt.Http.ExposeMetrics && rt.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(rt.Metrics.Handler()))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	app.Get("/version", func(c *fiber.Ctx) error {
		return c.JSON(version.GetVersion())
	})

	// engine router, internal api router
	api := app.Group(rt.Http.InternalContextPath, middleware.UnifiedResponseMiddleware())
	rt.routerGroup(api)

	// 找不到路径时的处理，必须在所有路由注册之后
	app.Use(func(c *fiber.Ctx) error {
		return http.WithRepErr(c, http.NotFound.Code, "request path not found", c.Path())
	})

	return app
}

func (rt *Router) routerGroup(r fiber.Router) {
	auth := middleware.AuthorizationMiddleware(rt.Http.Auth.SecretKey, rt.Session)

	rt.userRouter(r, auth)
	rt.projectRouter(r, auth)
	rt.invitationRouter(r, auth)
	rt.notificationRouter(r, auth)
	rt.taskRouter(r, auth)
	rt.riskRouter(r, auth)
	rt.mitigationRouter(r, auth)
}
