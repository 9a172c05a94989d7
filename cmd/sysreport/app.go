package main

import (
	"fmt"
	"io"
	"strings"

	apperrors "github.com/syslens/sysreport/internal/common/errors"
	"github.com/syslens/sysreport/internal/config"
	"github.com/syslens/sysreport/internal/report"
	"github.com/urfave/cli/v2"
)

const (
	flagFormat   = "format"
	flagOutput   = "output"
	flagPrint    = "print"
	flagConfig   = "config"
	flagLogLevel = "log-level"
	flagServer   = "server"
	flagParallel = "parallel"
	flagAddr     = "addr"
)

// newApp 构建命令行应用，stdout 用于报告输出
func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "sysreport",
		Usage:     "采集本机状态并生成一次性报告",
		Version:   version,
		Writer:    stdout,
		ErrWriter: stderr,
		Description: `采集平台、CPU、内存、磁盘、网络、进程、登录用户、启动时间和温度传感器信息，
生成文本或JSON报告。

默认写入文件 system_report_YYYYMMDD_HHMMSS.txt；--print 输出到控制台，
同时指定 --output 时两者都做。`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  flagFormat,
				Usage: "报告格式 (" + strings.Join(report.SupportedFormats(), ", ") + ")",
				Value: string(report.FormatText),
			},
			&cli.StringFlag{
				Name:    flagOutput,
				Aliases: []string{"o"},
				Usage:   "输出文件名，缺少扩展名时按格式追加",
			},
			&cli.BoolFlag{
				Name:    flagPrint,
				Aliases: []string{"p"},
				Usage:   "将报告输出到控制台",
			},
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "配置文件路径",
				EnvVars: []string{"SYSREPORT_CONFIG"},
			},
			&cli.StringFlag{
				Name:  flagLogLevel,
				Usage: "日志级别 (debug, info, warn, error)",
			},
			&cli.StringFlag{
				Name:    flagServer,
				Usage:   "生成报告后推送到该syslens服务端",
				EnvVars: []string{"SYSREPORT_SERVER"},
			},
			&cli.BoolFlag{
				Name:  flagParallel,
				Usage: "并行执行各采集项",
			},
		},
		Action: reportAction,
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "启动HTTP服务，按请求生成报告",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  flagAddr,
						Usage: "监听地址，默认取配置 serve.listen_addr",
					},
				},
				Action: serveAction,
			},
		},
	}
}

// loadConfig 加载配置文件并应用命令行覆盖
// 未指定配置文件且默认位置都不存在时使用默认配置
func loadConfig(c *cli.Context) (*config.ReportConfig, error) {
	path := c.String(flagConfig)
	if path == "" {
		path = config.FindConfigFile()
	}

	cfg := config.DefaultReportConfig()
	if path != "" {
		loaded, err := config.LoadReportConfig(path)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.KindConfig, "config", err)
		}
		cfg = loaded
	}

	if c.IsSet(flagFormat) {
		cfg.Output.Format = c.String(flagFormat)
	}
	cfg.Output.Format = strings.ToLower(strings.TrimSpace(cfg.Output.Format))
	if c.IsSet(flagLogLevel) {
		cfg.Logging.Level = c.String(flagLogLevel)
	}
	if c.IsSet(flagPrint) {
		cfg.Output.Print = c.Bool(flagPrint)
	}
	if c.IsSet(flagParallel) {
		cfg.Collection.Parallel = c.Bool(flagParallel)
	}
	if server := c.String(flagServer); server != "" {
		cfg.Reporter.Enabled = true
		cfg.Reporter.URL = server
	}

	if err := cfg.Validate(); err != nil {
		return nil, apperrors.Wrap(apperrors.KindConfig, "config", fmt.Errorf("配置验证失败: %w", err))
	}
	return cfg, nil
}
