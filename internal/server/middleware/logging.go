package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 报告接口本身包含两个CPU采样窗口
const slowRequestThreshold = 3 * time.Second

// Logging 日志中间件
// 记录请求的结束状态和处理时间，并将带请求ID的日志记录器放入上下文
func Logging(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		reqLogger := logger.With(zap.String("request_id", GetRequestID(c)))
		c.Set("logger", reqLogger)

		reqLogger.Debug("收到HTTP请求",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()))

		// 处理请求
		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", statusCode),
			zap.Duration("latency", duration),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case statusCode >= 500:
			reqLogger.Error("HTTP请求失败", fields...)
		case statusCode >= 400:
			reqLogger.Warn("HTTP请求被拒绝", fields...)
		default:
			reqLogger.Info("HTTP请求完成", fields...)
		}

		if duration > slowRequestThreshold {
			reqLogger.Warn("慢请求",
				zap.String("method", c.Request.Method),
				zap.String("path", path),
				zap.Duration("latency", duration))
		}
	}
}

// GetLogger 从上下文读取日志记录器，没有时返回 fallback
func GetLogger(c *gin.Context, fallback *zap.Logger) *zap.Logger {
	if v, ok := c.Get("logger"); ok {
		if l, ok := v.(*zap.Logger); ok {
			return l
		}
	}
	return fallback
}
