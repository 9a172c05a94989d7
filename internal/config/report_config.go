package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultReportConfig 返回默认配置
func DefaultReportConfig() *ReportConfig {
	cfg := &ReportConfig{}

	// 采集默认配置
	cfg.Collection.CPUIntervalMs = 500
	cfg.Collection.TopProcesses = 8
	cfg.Collection.SensorReadings = 2
	cfg.Collection.Parallel = false

	// 输出默认配置
	cfg.Output.Format = "text"
	cfg.Output.Dir = "."

	// 日志默认配置，命令行工具默认只输出警告以上
	cfg.Logging.Level = "warn"

	// 上报默认配置
	cfg.Reporter.Enabled = false
	cfg.Reporter.Timeout = 10
	cfg.Reporter.RetryCount = 3
	cfg.Reporter.RetryInterval = 1

	// 安全默认配置
	cfg.Security.Encryption.Enabled = false
	cfg.Security.Encryption.Algorithm = "aes-256-gcm"
	cfg.Security.Compression.Enabled = false
	cfg.Security.Compression.Algorithm = "gzip"
	cfg.Security.Compression.Level = 6

	// 按需服务默认配置
	cfg.Serve.ListenAddr = "127.0.0.1:8089"

	return cfg
}

// LoadReportConfig 从文件加载配置
func LoadReportConfig(path string) (*ReportConfig, error) {
	// 读取配置文件
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	// 解析YAML，未出现的字段保留默认值
	cfg := DefaultReportConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 验证配置
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("配置验证失败: %w", err)
	}

	return cfg, nil
}

// FindConfigFile 按默认位置查找配置文件，找不到时返回空字符串
func FindConfigFile() string {
	possiblePaths := []string{
		"configs/sysreport.yaml",
		filepath.Join(os.Getenv("HOME"), ".syslens", "sysreport.yaml"),
		"/etc/syslens/sysreport.yaml",
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Validate 验证配置
func (cfg *ReportConfig) Validate() error {
	// 验证采集配置
	if cfg.Collection.CPUIntervalMs <= 0 {
		return fmt.Errorf("CPU采样间隔必须大于0")
	}

	if cfg.Collection.TopProcesses <= 0 {
		return fmt.Errorf("进程数必须大于0")
	}

	if cfg.Collection.SensorReadings <= 0 {
		return fmt.Errorf("传感器读数必须大于0")
	}

	// 验证输出配置
	switch cfg.Output.Format {
	case "text", "json":
	default:
		return fmt.Errorf("不支持的报告格式: %q", cfg.Output.Format)
	}

	// 验证日志配置
	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("不支持的日志级别: %q", cfg.Logging.Level)
	}

	// 验证上报配置 (如果启用)
	if cfg.Reporter.Enabled {
		if cfg.Reporter.URL == "" {
			return fmt.Errorf("上报已启用，但未配置服务器地址(reporter.url)")
		}
		if cfg.Reporter.RetryCount < 0 {
			return fmt.Errorf("重试次数不能为负数")
		}
		if cfg.Reporter.Timeout <= 0 {
			return fmt.Errorf("超时时间必须大于0")
		}
	}

	// 验证安全配置 (如果启用)
	if cfg.Security.Encryption.Enabled {
		if cfg.Security.Encryption.Key == "" {
			return fmt.Errorf("加密已启用，但未配置密钥(security.encryption.key)")
		}
	}

	return nil
}
