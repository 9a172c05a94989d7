package collector

import (
	"context"
	"fmt"
	"time"

	apperrors "github.com/syslens/sysreport/internal/common/errors"
	"go.uber.org/zap"
)

const (
	defaultCPUInterval    = 500 * time.Millisecond
	defaultTopProcesses   = 8
	defaultSensorReadings = 2
)

// Collector 主机快照收集器接口
type Collector interface {
	Collect(ctx context.Context) (*Snapshot, error)
}

// SystemCollector 按顺序执行各采集项的快照收集器
type SystemCollector struct {
	source         Source
	logger         *zap.Logger
	cpuInterval    time.Duration
	topProcesses   int
	sensorReadings int
	now            func() time.Time
}

// NewSystemCollector 创建新的快照收集器
func NewSystemCollector(options ...func(*SystemCollector)) *SystemCollector {
	sc := &SystemCollector{
		source:         NewSource(),
		logger:         zap.NewNop(),
		cpuInterval:    defaultCPUInterval,
		topProcesses:   defaultTopProcesses,
		sensorReadings: defaultSensorReadings,
		now:            time.Now,
	}

	// 应用可选配置
	for _, option := range options {
		option(sc)
	}

	return sc
}

// WithSource 设置系统查询实现
func WithSource(src Source) func(*SystemCollector) {
	return func(sc *SystemCollector) {
		if src != nil {
			sc.source = src
		}
	}
}

// WithLogger 设置日志记录器
func WithLogger(logger *zap.Logger) func(*SystemCollector) {
	return func(sc *SystemCollector) {
		if logger != nil {
			sc.logger = logger
		}
	}
}

// WithCPUInterval 设置CPU使用率采样窗口
func WithCPUInterval(interval time.Duration) func(*SystemCollector) {
	return func(sc *SystemCollector) {
		if interval > 0 {
			sc.cpuInterval = interval
		}
	}
}

// WithTopProcesses 设置保留的进程数
func WithTopProcesses(n int) func(*SystemCollector) {
	return func(sc *SystemCollector) {
		if n > 0 {
			sc.topProcesses = n
		}
	}
}

// WithSensorReadings 设置每组传感器保留的读数
func WithSensorReadings(n int) func(*SystemCollector) {
	return func(sc *SystemCollector) {
		if n > 0 {
			sc.sensorReadings = n
		}
	}
}

// WithClock 设置快照时间来源
func WithClock(now func() time.Time) func(*SystemCollector) {
	return func(sc *SystemCollector) {
		if now != nil {
			sc.now = now
		}
	}
}

// Collect 依次执行各采集项，任一致命错误都会中止整个快照
func (sc *SystemCollector) Collect(ctx context.Context) (*Snapshot, error) {
	start := sc.now()
	snap := &Snapshot{
		Time: start.Truncate(time.Second),
	}

	var err error

	// 收集平台信息
	if snap.Platform, err = sc.collectPlatform(ctx); err != nil {
		return nil, err
	}

	// 收集CPU信息（阻塞两个采样窗口）
	if snap.CPU, err = sc.collectCPU(ctx); err != nil {
		return nil, err
	}

	// 收集内存信息
	if snap.Memory, err = sc.collectMemory(ctx); err != nil {
		return nil, err
	}

	// 收集磁盘信息
	if snap.Disks, err = sc.collectDisks(ctx); err != nil {
		return nil, err
	}

	// 收集网络信息
	if snap.Network, err = sc.collectNetwork(ctx); err != nil {
		return nil, err
	}

	// 收集进程信息
	if snap.Processes, err = sc.collectProcesses(ctx); err != nil {
		return nil, err
	}

	// 收集登录用户、启动时间和传感器
	snap.Users = sc.collectUsers(ctx)
	if snap.Boot, err = sc.collectBootTime(ctx); err != nil {
		return nil, err
	}
	snap.Sensors = sc.collectSensors(ctx)

	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.KindCollect, "snapshot", fmt.Errorf("快照采集被取消: %w", err))
	}

	sc.logger.Info("快照采集完成",
		zap.Int("disks", len(snap.Disks)),
		zap.Int("interfaces", len(snap.Network.Interfaces)),
		zap.Int("processes", len(snap.Processes)),
		zap.Duration("elapsed", sc.now().Sub(start)))

	return snap, nil
}
