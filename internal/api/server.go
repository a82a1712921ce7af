package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mattermost/mattermost/server/public/shared/mlog"

	"github.com/yoyo3287258/title-translator/internal/config"
	"github.com/yoyo3287258/title-translator/internal/metrics"
)

// Server HTTP API服务器
type Server struct {
	engine     *gin.Engine
	httpServer *http.Server
	handler    *Handler
	metrics    *metrics.Metrics
	cfg        *config.Config
	log        *mlog.Logger
}

// NewServer 创建HTTP服务器，m 为nil时不暴露 /metrics
func NewServer(handler *Handler, cfg *config.Config, m *metrics.Metrics, log *mlog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()

	// 基础中间件
	engine.Use(RecoveryMiddleware(log))
	engine.Use(TraceIDMiddleware())
	engine.Use(LoggerMiddleware(log))
	engine.Use(CORSMiddleware())

	// 安全中间件
	engine.Use(IPWhitelistMiddleware(&cfg.Security))

	s := &Server{
		engine:  engine,
		handler: handler,
		metrics: m,
		cfg:     cfg,
		log:     log,
	}

	s.setupRoutes()

	return s
}

// setupRoutes 设置路由
func (s *Server) setupRoutes() {
	api := s.engine.Group("/api")
	{
		// 健康检查（不需要认证）
		api.GET("/health", s.handler.Health)

		protected := api.Group("")
		protected.Use(APITokenAuthMiddleware(&s.cfg.Security))
		{
			protected.POST("/translate", s.handler.Translate)
			protected.GET("/translate/models", s.handler.Models)
		}
	}

	if s.metrics != nil {
		s.engine.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	s.engine.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusTemporaryRedirect, "/api/health")
	})
}

// Start 启动服务器，阻塞直到服务器关闭
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	s.log.Info("HTTP服务器启动", mlog.String("addr", addr))

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop 优雅停止服务器
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// Engine 获取Gin引擎（用于测试）
func (s *Server) Engine() *gin.Engine {
	return s.engine
}
