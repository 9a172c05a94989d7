package collector

import (
	"context"
	"fmt"
	"net"

	apperrors "github.com/syslens/sysreport/internal/common/errors"
	"go.uber.org/zap"
)

// collectNetwork 收集累计流量和各接口信息
// 接口列表以地址表为准，统计表中缺少的接口得到空的链路记录
func (sc *SystemCollector) collectNetwork(ctx context.Context) (Network, error) {
	var info Network

	counters, err := sc.source.NetIOCounters(ctx)
	if err != nil {
		return Network{}, apperrors.Wrap(apperrors.KindCollect, "network", fmt.Errorf("获取网络流量失败: %w", err))
	}
	if len(counters) > 0 {
		info.BytesSentMB = toMB(counters[0].BytesSent)
		info.BytesRecvMB = toMB(counters[0].BytesRecv)
		info.PacketsSent = counters[0].PacketsSent
		info.PacketsRecv = counters[0].PacketsRecv
	}

	addrTable, err := sc.source.InterfaceAddrs(ctx)
	if err != nil {
		return Network{}, apperrors.Wrap(apperrors.KindCollect, "network", fmt.Errorf("获取接口地址失败: %w", err))
	}

	links, err := sc.source.InterfaceLinks(ctx)
	if err != nil {
		sc.logger.Debug("接口链路状态不可用", zap.Error(err))
		links = nil
	}

	info.Interfaces = make(map[string]Interface, len(addrTable))
	for _, iface := range addrTable {
		entry := Interface{
			IPAddresses: []string{},
			MAC:         iface.HardwareAddr,
		}

		for _, addr := range iface.Addrs {
			if formatted, ok := formatAddr(addr.Addr); ok {
				entry.IPAddresses = append(entry.IPAddresses, formatted)
			} else {
				sc.logger.Debug("跳过无法解析的地址",
					zap.String("interface", iface.Name),
					zap.String("addr", addr.Addr))
			}
		}

		if link, ok := links[iface.Name]; ok {
			state := "DOWN"
			if link.Up {
				state = "UP"
			}
			entry.Stats = LinkStats{
				State:     state,
				SpeedMbps: link.SpeedMbps,
				MTU:       link.MTU,
			}
		}

		info.Interfaces[iface.Name] = entry
	}

	return info, nil
}

// formatAddr 将CIDR地址格式化为 "IPv4: a/掩码" 或 "IPv6: a"
func formatAddr(cidr string) (string, bool) {
	ip, ipnet, err := net.ParseCIDR(cidr)
	if err != nil {
		ip = net.ParseIP(cidr)
		if ip == nil {
			return "", false
		}
	}

	if ip4 := ip.To4(); ip4 != nil {
		if ipnet == nil {
			return "IPv4: " + ip4.String(), true
		}
		return fmt.Sprintf("IPv4: %s/%s", ip4, net.IP(ipnet.Mask).String()), true
	}
	return "IPv6: " + ip.String(), true
}
