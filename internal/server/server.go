// Package server 提供按需生成主机报告的HTTP服务
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/syslens/sysreport/internal/agent/collector"
	apperrors "github.com/syslens/sysreport/internal/common/errors"
	"github.com/syslens/sysreport/internal/report"
	"github.com/syslens/sysreport/internal/server/middleware"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// ReportServer 每个请求采集一次新快照并渲染返回
type ReportServer struct {
	addr      string
	collector collector.Collector
	logger    *zap.Logger
	router    *gin.Engine
	started   time.Time
}

// NewReportServer 创建报告服务
func NewReportServer(addr string, c collector.Collector, logger *zap.Logger) *ReportServer {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &ReportServer{
		addr:      addr,
		collector: c,
		logger:    logger,
		started:   time.Now(),
	}
	s.initRouter()
	return s
}

// initRouter 配置路由和中间件
func (s *ReportServer) initRouter() {
	router := gin.New()

	// 全局中间件
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logging(s.logger))

	router.GET("/health", s.handleHealth)

	api := router.Group("/api/v1")
	{
		api.GET("/report", s.handleReport)
	}

	s.router = router
}

// Handler 返回HTTP处理器
func (s *ReportServer) Handler() http.Handler {
	return s.router
}

// Run 启动服务并阻塞到 ctx 结束，随后优雅关闭
func (s *ReportServer) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return apperrors.Wrap(apperrors.KindConfig, "serve", fmt.Errorf("监听 %s 失败: %w", s.addr, err))
	}
	return s.Serve(ctx, ln)
}

// Serve 在给定监听器上提供服务
func (s *ReportServer) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Serve(ln)
	}()

	s.logger.Info("报告服务已启动",
		zap.String("listen_addr", ln.Addr().String()),
		zap.String("/api/v1/report", "生成报告"),
		zap.String("/health", "健康检查"))

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP服务器错误: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("正在关闭报告服务...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("关闭HTTP服务器失败: %w", err)
	}
	s.logger.Info("报告服务已关闭")
	return nil
}

// handleHealth 健康检查
func (s *ReportServer) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
		"uptime": time.Since(s.started).Truncate(time.Second).String(),
	})
}

// handleReport 采集并返回报告，format 取 json(默认) 或 text
func (s *ReportServer) handleReport(c *gin.Context) {
	format, err := report.ParseFormat(c.DefaultQuery("format", string(report.FormatJSON)))
	if err != nil {
		RespondWithValidationError(c, "无效的报告格式", gin.H{
			"format":    c.Query("format"),
			"supported": report.SupportedFormats(),
		})
		return
	}

	logger := middleware.GetLogger(c, s.logger)

	snap, err := s.collector.Collect(c.Request.Context())
	if err != nil {
		logger.Error("快照采集失败", zap.Error(err), zap.String("kind", string(apperrors.KindOf(err))))
		RespondWithError(c, http.StatusInternalServerError, err, "快照采集失败")
		return
	}

	data, err := report.Render(snap, format)
	if err != nil {
		RespondWithError(c, http.StatusInternalServerError, err, "报告渲染失败")
		return
	}

	c.Data(http.StatusOK, format.ContentType(), data)
}
