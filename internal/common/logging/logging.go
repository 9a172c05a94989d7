// Package logging 根据配置构建 zap 日志记录器
package logging

import (
	"fmt"

	"github.com/syslens/sysreport/internal/config"
	"go.uber.org/zap"
)

// NewLogger 初始化日志记录器
// 日志默认写到stderr，避免与打印到stdout的报告混在一起
func NewLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	// 创建日志配置
	zapConfig := zap.NewProductionConfig()

	// 设置日志级别
	switch cfg.Level {
	case "debug":
		zapConfig.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapConfig.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapConfig.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapConfig.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		zapConfig.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	// 设置日志输出
	zapConfig.OutputPaths = []string{"stderr"}
	if cfg.File != "" {
		zapConfig.OutputPaths = []string{cfg.File}
	}

	// 创建日志记录器
	logger, err := zapConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("创建日志记录器失败: %w", err)
	}

	return logger, nil
}
