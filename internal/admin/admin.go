package admin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"hakobiya/internal/config"
)

// Server は管理用HTTPサーバーを管理する構造体
type Server struct {
	config     *config.Config
	log        *logrus.Logger
	httpServer *http.Server
	engine     *gin.Engine
}

// New は新しい管理用Serverを作成する
func New(cfg *config.Config, stats StatsSource, log *logrus.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(log))

	h := &Handler{config: cfg, stats: stats}
	engine.GET("/health", h.HealthCheck)
	engine.GET("/api/status", h.GetStatus)

	return &Server{
		config: cfg,
		log:    log,
		engine: engine,
		httpServer: &http.Server{
			Addr:              cfg.Admin.Address,
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Handler はルーティング済みのハンドラを返す
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run は管理用サーバーを起動し、停止されるまで戻らない
func (s *Server) Run() error {
	s.log.Infof("管理用サーバーを起動しています: %s", s.config.Admin.Address)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("管理用サーバーの起動に失敗: %w", err)
	}
	return nil
}

// Shutdown は管理用サーバーをグレースフルにシャットダウンする
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("管理用サーバーのシャットダウンに失敗: %w", err)
	}
	return nil
}

// requestLogger はginのリクエストをlogrusに記録する
func requestLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start),
		}).Debug("admin request")
	}
}
