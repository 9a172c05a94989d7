package collector

import (
	"context"
	"fmt"
	"sort"

	apperrors "github.com/syslens/sysreport/internal/common/errors"
	"go.uber.org/zap"
)

// collectProcesses 按内存占用收集前N个进程
// 查询过程中退出或无权访问的进程直接跳过
func (sc *SystemCollector) collectProcesses(ctx context.Context) ([]Process, error) {
	procs, err := sc.source.Processes(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindCollect, "processes", fmt.Errorf("获取进程列表失败: %w", err))
	}

	result := make([]Process, 0, len(procs))
	skipped := 0
	for _, p := range procs {
		entry, err := readProcess(ctx, p)
		if err != nil {
			skipped++
			continue
		}
		result = append(result, entry)
	}
	if skipped > 0 {
		sc.logger.Debug("跳过不可访问的进程", zap.Int("count", skipped))
	}

	// 稳定排序，内存占用相同时保持枚举顺序
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].MemoryPercent > result[j].MemoryPercent
	})

	if len(result) > sc.topProcesses {
		result = result[:sc.topProcesses]
	}
	return result, nil
}

// readProcess 读取单个进程的名称、CPU、内存占用，任一项失败即返回错误
func readProcess(ctx context.Context, p Proc) (Process, error) {
	name, err := p.Name(ctx)
	if err != nil {
		return Process{}, err
	}
	cpuPercent, err := p.CPUPercent(ctx)
	if err != nil {
		return Process{}, err
	}
	memPercent, err := p.MemoryPercent(ctx)
	if err != nil {
		return Process{}, err
	}
	rss, err := p.RSS(ctx)
	if err != nil {
		return Process{}, err
	}

	return Process{
		PID:  p.PID(),
		Name: name,
		// 多核进程的CPU占用可能超过100，这里按单个快照口径截断
		CPUPercent:    round1(clampPercent(cpuPercent)),
		MemoryPercent: clampPercent(float64(memPercent)),
		MemoryMB:      toMB(rss),
	}, nil
}
