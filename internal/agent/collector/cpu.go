package collector

import (
	"context"
	"fmt"

	apperrors "github.com/syslens/sysreport/internal/common/errors"
	"go.uber.org/zap"
)

// collectCPU 收集CPU核心数、频率和使用率
// 使用率先后采样两次(总体、每核)，各阻塞一个采样窗口
func (sc *SystemCollector) collectCPU(ctx context.Context) (CPU, error) {
	var info CPU

	if n, err := sc.source.CPUCounts(ctx, false); err == nil {
		info.PhysicalCores = n
	} else {
		sc.logger.Debug("获取物理核心数失败", zap.Error(err))
	}
	if n, err := sc.source.CPUCounts(ctx, true); err == nil {
		info.LogicalCores = n
	} else {
		sc.logger.Debug("获取逻辑核心数失败", zap.Error(err))
	}

	// 频率为可选项，拿不到时报告显示N/A
	if infos, err := sc.source.CPUInfo(ctx); err == nil && len(infos) > 0 && infos[0].Mhz > 0 {
		mhz := infos[0].Mhz
		info.FrequencyMHz = &mhz
	}

	total, err := sc.source.CPUPercent(ctx, sc.cpuInterval, false)
	if err != nil {
		return CPU{}, apperrors.Wrap(apperrors.KindCollect, "cpu", fmt.Errorf("采样CPU使用率失败: %w", err))
	}
	if len(total) > 0 {
		info.Usage = round1(clampPercent(total[0]))
	}

	perCPU, err := sc.source.CPUPercent(ctx, sc.cpuInterval, true)
	if err != nil {
		return CPU{}, apperrors.Wrap(apperrors.KindCollect, "cpu", fmt.Errorf("采样每核使用率失败: %w", err))
	}
	info.PerCPU = make([]float64, 0, len(perCPU))
	for _, p := range perCPU {
		info.PerCPU = append(info.PerCPU, round1(clampPercent(p)))
	}

	return info, nil
}
