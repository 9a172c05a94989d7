package collector

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	psnet "github.com/shirou/gopsutil/v3/net"
	"github.com/shirou/gopsutil/v3/process"
)

// Source 操作系统查询接口，每个方法对应一次系统调用或一组/proc读取
// 默认实现基于gopsutil，测试中可替换为假数据
type Source interface {
	HostInfo(ctx context.Context) (*host.InfoStat, error)
	LookupIP(ctx context.Context, hostname string) (string, error)

	CPUCounts(ctx context.Context, logical bool) (int, error)
	CPUInfo(ctx context.Context) ([]cpu.InfoStat, error)
	CPUPercent(ctx context.Context, interval time.Duration, perCPU bool) ([]float64, error)

	VirtualMemory(ctx context.Context) (*mem.VirtualMemoryStat, error)
	SwapMemory(ctx context.Context) (*mem.SwapMemoryStat, error)

	Partitions(ctx context.Context) ([]disk.PartitionStat, error)
	DiskUsage(ctx context.Context, path string) (*disk.UsageStat, error)
	DiskIOCounters(ctx context.Context) (map[string]disk.IOCountersStat, error)

	NetIOCounters(ctx context.Context) ([]psnet.IOCountersStat, error)
	InterfaceAddrs(ctx context.Context) ([]psnet.InterfaceStat, error)
	InterfaceLinks(ctx context.Context) (map[string]LinkStat, error)

	Processes(ctx context.Context) ([]Proc, error)

	Users(ctx context.Context) ([]host.UserStat, error)
	BootTime(ctx context.Context) (uint64, error)
	Temperatures(ctx context.Context) ([]host.TemperatureStat, error)
}

// LinkStat 接口链路统计
type LinkStat struct {
	Up        bool
	SpeedMbps int
	MTU       int
}

// Proc 单个进程的查询接口，进程可能在查询之间退出
type Proc interface {
	PID() int32
	Name(ctx context.Context) (string, error)
	CPUPercent(ctx context.Context) (float64, error)
	MemoryPercent(ctx context.Context) (float32, error)
	RSS(ctx context.Context) (uint64, error)
}

// NewSource 创建基于gopsutil的查询实现
func NewSource() Source {
	return gopsutilSource{}
}

type gopsutilSource struct{}

func (gopsutilSource) HostInfo(ctx context.Context) (*host.InfoStat, error) {
	return host.InfoWithContext(ctx)
}

// LookupIP 解析主机名对应的地址，优先返回IPv4
func (gopsutilSource) LookupIP(ctx context.Context, hostname string) (string, error) {
	addrs, err := net.DefaultResolver.LookupIPAddr(ctx, hostname)
	if err != nil {
		return "", err
	}
	if len(addrs) == 0 {
		return "", fmt.Errorf("主机名 %s 没有可用地址", hostname)
	}
	for _, addr := range addrs {
		if ip4 := addr.IP.To4(); ip4 != nil {
			return ip4.String(), nil
		}
	}
	return addrs[0].IP.String(), nil
}

func (gopsutilSource) CPUCounts(ctx context.Context, logical bool) (int, error) {
	return cpu.CountsWithContext(ctx, logical)
}

func (gopsutilSource) CPUInfo(ctx context.Context) ([]cpu.InfoStat, error) {
	return cpu.InfoWithContext(ctx)
}

func (gopsutilSource) CPUPercent(ctx context.Context, interval time.Duration, perCPU bool) ([]float64, error) {
	return cpu.PercentWithContext(ctx, interval, perCPU)
}

func (gopsutilSource) VirtualMemory(ctx context.Context) (*mem.VirtualMemoryStat, error) {
	return mem.VirtualMemoryWithContext(ctx)
}

func (gopsutilSource) SwapMemory(ctx context.Context) (*mem.SwapMemoryStat, error) {
	return mem.SwapMemoryWithContext(ctx)
}

func (gopsutilSource) Partitions(ctx context.Context) ([]disk.PartitionStat, error) {
	return disk.PartitionsWithContext(ctx, false)
}

func (gopsutilSource) DiskUsage(ctx context.Context, path string) (*disk.UsageStat, error) {
	return disk.UsageWithContext(ctx, path)
}

func (gopsutilSource) DiskIOCounters(ctx context.Context) (map[string]disk.IOCountersStat, error) {
	return disk.IOCountersWithContext(ctx)
}

func (gopsutilSource) NetIOCounters(ctx context.Context) ([]psnet.IOCountersStat, error) {
	return psnet.IOCountersWithContext(ctx, false)
}

func (gopsutilSource) InterfaceAddrs(ctx context.Context) ([]psnet.InterfaceStat, error) {
	return psnet.InterfacesWithContext(ctx)
}

// InterfaceLinks 链路状态与MTU取自标准库，速率取自sysfs(仅Linux)
func (gopsutilSource) InterfaceLinks(ctx context.Context) (map[string]LinkStat, error) {
	interfaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	links := make(map[string]LinkStat, len(interfaces))
	for _, iface := range interfaces {
		links[iface.Name] = LinkStat{
			Up:        iface.Flags&net.FlagUp != 0,
			SpeedMbps: readLinkSpeed(iface.Name),
			MTU:       iface.MTU,
		}
	}
	return links, nil
}

// readLinkSpeed 读取 /sys/class/net/<iface>/speed，未知或链路断开时返回0
func readLinkSpeed(name string) int {
	data, err := os.ReadFile(filepath.Join("/sys/class/net", name, "speed"))
	if err != nil {
		return 0
	}
	speed, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || speed < 0 {
		return 0
	}
	return speed
}

func (gopsutilSource) Processes(ctx context.Context) ([]Proc, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]Proc, 0, len(procs))
	for _, p := range procs {
		result = append(result, gopsutilProc{p: p})
	}
	return result, nil
}

func (gopsutilSource) Users(ctx context.Context) ([]host.UserStat, error) {
	return host.UsersWithContext(ctx)
}

func (gopsutilSource) BootTime(ctx context.Context) (uint64, error) {
	return host.BootTimeWithContext(ctx)
}

func (gopsutilSource) Temperatures(ctx context.Context) ([]host.TemperatureStat, error) {
	return host.SensorsTemperaturesWithContext(ctx)
}

// gopsutilProc 包装 *process.Process
type gopsutilProc struct {
	p *process.Process
}

func (g gopsutilProc) PID() int32 {
	return g.p.Pid
}

func (g gopsutilProc) Name(ctx context.Context) (string, error) {
	return g.p.NameWithContext(ctx)
}

func (g gopsutilProc) CPUPercent(ctx context.Context) (float64, error) {
	return g.p.CPUPercentWithContext(ctx)
}

func (g gopsutilProc) MemoryPercent(ctx context.Context) (float32, error) {
	return g.p.MemoryPercentWithContext(ctx)
}

func (g gopsutilProc) RSS(ctx context.Context) (uint64, error) {
	info, err := g.p.MemoryInfoWithContext(ctx)
	if err != nil {
		return 0, err
	}
	return info.RSS, nil
}
