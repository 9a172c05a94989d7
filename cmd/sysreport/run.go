package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/syslens/sysreport/internal/agent/collector"
	"github.com/syslens/sysreport/internal/agent/reporter"
	"github.com/syslens/sysreport/internal/common/logging"
	"github.com/syslens/sysreport/internal/config"
	"github.com/syslens/sysreport/internal/report"
	"github.com/syslens/sysreport/internal/server"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// reportJob 一次报告生成所需的全部依赖
type reportJob struct {
	collector collector.Collector
	reporter  reporter.Reporter // 未启用推送时为nil
	format    report.Format
	print     bool
	output    string // --output 指定的文件名
	dir       string // 默认文件名所在目录
	stdout    io.Writer
	logger    *zap.Logger
}

// run 采集、渲染，然后按需打印、保存和推送
// 有 --print 时打印；指定了 --output 或没有 --print 时保存文件
func (j *reportJob) run(ctx context.Context) error {
	snap, err := j.collector.Collect(ctx)
	if err != nil {
		return err
	}

	data, err := report.Render(snap, j.format)
	if err != nil {
		return err
	}

	if j.print {
		if err := report.Print(j.stdout, data); err != nil {
			return err
		}
	}

	if j.output != "" || !j.print {
		if j.output == "" {
			j.logger.Info("未指定 --print 或 --output，报告仅写入文件")
		}
		path := report.OutputPath(j.dir, j.output, j.format, snap.Time)
		if err := report.Save(path, data); err != nil {
			return err
		}
		fmt.Fprintf(j.stdout, "Report saved: %s\n", path)
	}

	if j.reporter != nil {
		if err := j.reporter.Report(ctx, snap); err != nil {
			return err
		}
	}

	return nil
}

// newCollector 按配置选择顺序或并行收集器
func newCollector(cfg *config.ReportConfig, logger *zap.Logger) collector.Collector {
	options := []func(*collector.SystemCollector){
		collector.WithLogger(logger),
		collector.WithCPUInterval(time.Duration(cfg.Collection.CPUIntervalMs) * time.Millisecond),
		collector.WithTopProcesses(cfg.Collection.TopProcesses),
		collector.WithSensorReadings(cfg.Collection.SensorReadings),
	}
	if cfg.Collection.Parallel {
		return collector.NewParallelCollector(options...)
	}
	return collector.NewSystemCollector(options...)
}

// setup 加载配置并初始化日志
func setup(c *cli.Context) (*config.ReportConfig, *zap.Logger, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, nil, err
	}

	logger, err := logging.NewLogger(cfg.Logging)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func reportAction(c *cli.Context) error {
	cfg, logger, err := setup(c)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	format, err := report.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}

	job := &reportJob{
		collector: newCollector(cfg, logger),
		format:    format,
		print:     cfg.Output.Print,
		output:    c.String(flagOutput),
		dir:       cfg.Output.Dir,
		stdout:    c.App.Writer,
		logger:    logger,
	}

	if cfg.Reporter.Enabled {
		r, err := reporter.NewFromConfig(cfg.Reporter, cfg.Security, logger)
		if err != nil {
			return err
		}
		job.reporter = r
	}

	return job.run(c.Context)
}

func serveAction(c *cli.Context) error {
	cfg, logger, err := setup(c)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	addr := cfg.Serve.ListenAddr
	if c.IsSet(flagAddr) {
		addr = c.String(flagAddr)
	}

	// 发布模式，减少gin自身的调试输出
	gin.SetMode(gin.ReleaseMode)
	srv := server.NewReportServer(addr, newCollector(cfg, logger), logger)
	return srv.Run(c.Context)
}
