package collector

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ParallelCollector 并行执行各采集项的快照收集器
// 各采集项互不共享状态，结果在全部完成后一次性组装
type ParallelCollector struct {
	// 继承SystemCollector的所有字段
	SystemCollector
}

// NewParallelCollector 创建一个新的并行收集器
func NewParallelCollector(options ...func(*SystemCollector)) *ParallelCollector {
	baseCollector := NewSystemCollector(options...)
	return &ParallelCollector{
		SystemCollector: *baseCollector,
	}
}

// Collect 并行收集快照，第一个致命错误会取消其余采集项
func (pc *ParallelCollector) Collect(ctx context.Context) (*Snapshot, error) {
	start := pc.now()

	var (
		platform  Platform
		cpuInfo   CPU
		memory    Memory
		disks     []Disk
		network   Network
		processes []Process
		users     []User
		boot      time.Time
		sensors   Sensors
	)

	g, gctx := errgroup.WithContext(ctx)

	// 1. 平台信息
	g.Go(func() error {
		var err error
		platform, err = pc.collectPlatform(gctx)
		return err
	})

	// 2. CPU信息（最耗时，两个采样窗口）
	g.Go(func() error {
		var err error
		cpuInfo, err = pc.collectCPU(gctx)
		return err
	})

	// 3. 内存信息
	g.Go(func() error {
		var err error
		memory, err = pc.collectMemory(gctx)
		return err
	})

	// 4. 磁盘信息
	g.Go(func() error {
		var err error
		disks, err = pc.collectDisks(gctx)
		return err
	})

	// 5. 网络信息
	g.Go(func() error {
		var err error
		network, err = pc.collectNetwork(gctx)
		return err
	})

	// 6. 进程信息
	g.Go(func() error {
		var err error
		processes, err = pc.collectProcesses(gctx)
		return err
	})

	// 7. 登录用户、启动时间、传感器
	g.Go(func() error {
		var err error
		users = pc.collectUsers(gctx)
		if boot, err = pc.collectBootTime(gctx); err != nil {
			return err
		}
		sensors = pc.collectSensors(gctx)
		return nil
	})

	// 等待所有采集任务完成
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Time:      start.Truncate(time.Second),
		Platform:  platform,
		CPU:       cpuInfo,
		Memory:    memory,
		Disks:     disks,
		Network:   network,
		Processes: processes,
		Users:     users,
		Boot:      boot,
		Sensors:   sensors,
	}

	pc.logger.Info("并行快照采集完成",
		zap.Int("disks", len(snap.Disks)),
		zap.Int("processes", len(snap.Processes)),
		zap.Duration("elapsed", pc.now().Sub(start)))

	return snap, nil
}
