package collector

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v3/disk"
	apperrors "github.com/syslens/sysreport/internal/common/errors"
	"go.uber.org/zap"
)

// collectDisks 收集各分区使用情况
// 无法读取使用量的分区直接跳过；IO计数尽力而为，失败时不附带
func (sc *SystemCollector) collectDisks(ctx context.Context) ([]Disk, error) {
	partitions, err := sc.source.Partitions(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindCollect, "disks", fmt.Errorf("获取分区列表失败: %w", err))
	}

	ioCounters := sc.diskIOCounters(ctx)

	disks := make([]Disk, 0, len(partitions))
	for _, part := range partitions {
		usage, err := sc.source.DiskUsage(ctx, part.Mountpoint)
		if err != nil {
			sc.logger.Debug("跳过无法访问的分区",
				zap.String("device", part.Device),
				zap.String("mountpoint", part.Mountpoint),
				zap.Error(err))
			continue
		}

		d := Disk{
			Device:     part.Device,
			Mountpoint: part.Mountpoint,
			FSType:     part.Fstype,
			TotalGB:    toGB(usage.Total),
			UsedGB:     toGB(usage.Used),
			FreeGB:     toGB(usage.Free),
			Percent:    round1(clampPercent(usage.UsedPercent)),
		}

		if io, ok := ioCounters[deviceKey(part.Device)]; ok {
			readMB, writeMB := toMB(io.ReadBytes), toMB(io.WriteBytes)
			d.ReadMB = &readMB
			d.WriteMB = &writeMB
		}

		disks = append(disks, d)
	}

	return disks, nil
}

// diskIOCounters 获取每个设备的IO计数，任何错误都返回nil
func (sc *SystemCollector) diskIOCounters(ctx context.Context) (counters map[string]disk.IOCountersStat) {
	defer func() {
		if r := recover(); r != nil {
			sc.logger.Debug("读取磁盘IO计数异常", zap.Any("panic", r))
			counters = nil
		}
	}()

	counters, err := sc.source.DiskIOCounters(ctx)
	if err != nil {
		sc.logger.Debug("磁盘IO计数不可用", zap.Error(err))
		return nil
	}
	return counters
}

// deviceKey 将分区设备路径转换为IO计数中的设备名，例如 /dev/sda1 -> sda1
func deviceKey(device string) string {
	device = strings.TrimRight(device, `/\`)
	if device == "" {
		return ""
	}
	return filepath.Base(strings.ReplaceAll(device, `\`, "/"))
}
