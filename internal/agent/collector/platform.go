package collector

import (
	"context"
	"fmt"

	apperrors "github.com/syslens/sysreport/internal/common/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// collectPlatform 收集操作系统和主机信息
// 主机名解析失败属于致命错误，不做降级
func (sc *SystemCollector) collectPlatform(ctx context.Context) (Platform, error) {
	info, err := sc.source.HostInfo(ctx)
	if err != nil {
		return Platform{}, apperrors.Wrap(apperrors.KindCollect, "platform", fmt.Errorf("获取主机信息失败: %w", err))
	}

	ip, err := sc.source.LookupIP(ctx, info.Hostname)
	if err != nil {
		return Platform{}, apperrors.Wrap(apperrors.KindHostResolution, "platform",
			fmt.Errorf("解析主机名 %s 失败: %w", info.Hostname, err))
	}

	version := info.Platform
	if info.PlatformVersion != "" {
		version += " " + info.PlatformVersion
	}

	return Platform{
		System:  cases.Title(language.English).String(info.OS),
		Release: info.KernelVersion,
		Version: version,
		Host:    info.Hostname,
		IP:      ip,
	}, nil
}
