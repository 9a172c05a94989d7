package collector

import (
	"context"
	"fmt"

	apperrors "github.com/syslens/sysreport/internal/common/errors"
)

// collectMemory 收集内存和交换分区信息
func (sc *SystemCollector) collectMemory(ctx context.Context) (Memory, error) {
	vm, err := sc.source.VirtualMemory(ctx)
	if err != nil {
		return Memory{}, apperrors.Wrap(apperrors.KindCollect, "memory", fmt.Errorf("获取内存信息失败: %w", err))
	}

	swap, err := sc.source.SwapMemory(ctx)
	if err != nil {
		return Memory{}, apperrors.Wrap(apperrors.KindCollect, "memory", fmt.Errorf("获取交换分区信息失败: %w", err))
	}

	return Memory{
		TotalRAMGB:  toGB(vm.Total),
		UsedRAMGB:   toGB(vm.Used),
		RAMPercent:  round1(clampPercent(vm.UsedPercent)),
		SwapUsedGB:  toGB(swap.Used),
		SwapTotalGB: toGB(swap.Total),
	}, nil
}
