package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/go-arcade/suitx/pkg/log"
	"github.com/gofiber/fiber/v2"
)

/**
 * @author: gagral.x@gmail.com
 * @time: 2024/9/8 15:38
 * @file: http.go
 * @description: http server
 */

type Http struct {
	Host                string
	Port                int
	Mode                string
	InternalContextPath string
	PProf               bool
	ExposeMetrics       bool
	AccessLog           bool
	ReadTimeout         int
	WriteTimeout        int
	IdleTimeout         int
	ShutdownTimeout     int
	BodyLimit           int
	TLS                 TLS
	Auth                Auth
}

type TLS struct {
	CertFile string
	KeyFile  string
}

// Auth 过期时间单位为分钟
type Auth struct {
	SecretKey      string
	AccessExpire   time.Duration
	RefreshExpire  time.Duration
	RedisKeyPrefix string
}

func (h *Http) SetDefaults() {
	if h.Host == "" {
		h.Host = "0.0.0.0"
	}
	if h.Port == 0 {
		h.Port = 8080
	}
	if h.Mode == "" {
		h.Mode = "release"
	}
	if h.InternalContextPath == "" {
		h.InternalContextPath = "/api/v1"
	}
	if h.ReadTimeout == 0 {
		h.ReadTimeout = 30
	}
	if h.WriteTimeout == 0 {
		h.WriteTimeout = 30
	}
	if h.IdleTimeout == 0 {
		h.IdleTimeout = 60
	}
	if h.ShutdownTimeout == 0 {
		h.ShutdownTimeout = 10
	}
	if h.BodyLimit == 0 {
		h.BodyLimit = 4 * 1024 * 1024
	}
	if h.Auth.AccessExpire == 0 {
		h.Auth.AccessExpire = 120
	}
	if h.Auth.RefreshExpire == 0 {
		h.Auth.RefreshExpire = 7 * 24 * 60
	}
}

func (h *Http) Addr() string {
	return net.JoinHostPort(h.Host, fmt.Sprintf("%d", h.Port))
}

// Server 持有 fiber app 与监听配置
type Server struct {
	cfg Http
	app *fiber.App
}

func NewServer(cfg Http, app *fiber.App) *Server {
	return &Server{cfg: cfg, app: app}
}

// Start 异步监听，监听失败只记录日志
func (s *Server) Start() {
	addr := s.cfg.Addr()
	go func() {
		log.Infow("http server listening", "address", addr, "tls", s.cfg.TLS.CertFile != "")
		var err error
		if s.cfg.TLS.CertFile != "" && s.cfg.TLS.KeyFile != "" {
			err = s.app.ListenTLS(addr, s.cfg.TLS.CertFile, s.cfg.TLS.KeyFile)
		} else {
			err = s.app.Listen(addr)
		}
		if err != nil && !errors.Is(err, net.ErrClosed) {
			log.Errorw("http server stopped with error", "error", err)
		}
	}()
}

func (s *Server) Shutdown(ctx context.Context) error {
	timeout := time.Duration(s.cfg.ShutdownTimeout) * time.Second
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	if err := s.app.ShutdownWithTimeout(timeout); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	log.Info("http server shut down gracefully")
	return nil
}
