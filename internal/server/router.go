package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"trending-scout/internal/config"
	"trending-scout/internal/service"
	"trending-scout/internal/session"
)

// 优雅关闭的宽限期
const shutdownTimeout = 10 * time.Second

// Server 对外的 HTTP 服务，把侦察服务暴露成 REST API
type Server struct {
	service *service.ScoutService
	store   *session.Store
	cfg     *config.Config
	engine  *gin.Engine
}

// New 组装路由和中间件
func New(svc *service.ScoutService, store *session.Store, cfg *config.Config) *Server {
	s := &Server{
		service: svc,
		store:   store,
		cfg:     cfg,
	}
	s.engine = s.buildRouter()
	return s
}

func (s *Server) buildRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(corsMiddleware(s.cfg.AllowOrigins))
	r.Use(newIPRateLimiter(s.cfg.RateLimitPerMin).middleware())

	r.GET("/healthz", s.handleHealth)

	api := r.Group("/api/v1")
	{
		api.GET("/categories", s.handleCategories)
		api.POST("/scan", s.handleScan)
		api.POST("/search", s.handleSearch)
		api.GET("/quota", s.handleQuota)
		api.POST("/analyze", s.handleAnalyze)
		api.POST("/export", s.handleExport)
		api.GET("/ideas", s.handleIdeas)
		api.GET("/session", s.handleSession)
		api.DELETE("/session", s.handleClearSession)
	}

	return r
}

// Run 启动 HTTP 服务，收到 SIGINT/SIGTERM 后优雅关闭
func (s *Server) Run(addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		fmt.Printf("🚀 [HTTP] 服务已启动，监听 %s\n", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		fmt.Printf("⏳ [HTTP] 收到信号 %s，正在关闭...\n", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}
