package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	psnet "github.com/shirou/gopsutil/v3/net"
)

var errNotImplemented = errors.New("not implemented yet")

// fakeSource 可控的系统查询实现
type fakeSource struct {
	hostInfo  *host.InfoStat
	hostErr   error
	ip        string
	lookupErr error

	physical, logical int
	cpuInfo           []cpu.InfoStat
	cpuInfoErr        error
	total, perCPU     []float64
	percentErr        error
	percentCalls      []bool

	vm   *mem.VirtualMemoryStat
	swap *mem.SwapMemoryStat

	partitions []disk.PartitionStat
	usage      map[string]*disk.UsageStat
	usageErr   map[string]error
	ioCounters map[string]disk.IOCountersStat
	ioErr      error

	netIO     []psnet.IOCountersStat
	addrs     []psnet.InterfaceStat
	links     map[string]LinkStat
	linksErr  error
	procs     []Proc
	users     []host.UserStat
	usersErr  error
	bootTime  uint64
	bootErr   error
	temps     []host.TemperatureStat
	tempsErr  error
	ctxChecks bool
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		hostInfo: &host.InfoStat{
			Hostname:        "testhost",
			OS:              "linux",
			Platform:        "ubuntu",
			PlatformVersion: "22.04",
			KernelVersion:   "5.15.0-91-generic",
		},
		ip:       "192.168.1.20",
		physical: 4,
		logical:  8,
		cpuInfo:  []cpu.InfoStat{{Mhz: 3400}},
		total:    []float64{12.5},
		perCPU:   []float64{10, 20, 5, 15, 0, 30, 12, 8},
		vm: &mem.VirtualMemoryStat{
			Total:       16 * bytesPerGB,
			Used:        6 * bytesPerGB,
			UsedPercent: 37.5,
		},
		swap: &mem.SwapMemoryStat{
			Total: 2 * bytesPerGB,
			Used:  bytesPerGB / 2,
		},
		partitions: []disk.PartitionStat{
			{Device: "/dev/sda1", Mountpoint: "/", Fstype: "ext4"},
			{Device: "/dev/sda2", Mountpoint: "/home", Fstype: "ext4"},
		},
		usage: map[string]*disk.UsageStat{
			"/":     {Total: 100 * bytesPerGB, Used: 40 * bytesPerGB, Free: 60 * bytesPerGB, UsedPercent: 40},
			"/home": {Total: 200 * bytesPerGB, Used: 50 * bytesPerGB, Free: 150 * bytesPerGB, UsedPercent: 25},
		},
		ioCounters: map[string]disk.IOCountersStat{
			"sda1": {ReadBytes: 512 * bytesPerMB, WriteBytes: 256 * bytesPerMB},
		},
		netIO: []psnet.IOCountersStat{{
			Name:        "all",
			BytesSent:   10 * bytesPerMB,
			BytesRecv:   20 * bytesPerMB,
			PacketsSent: 1000,
			PacketsRecv: 2000,
		}},
		addrs: []psnet.InterfaceStat{
			{
				Name:         "eth0",
				HardwareAddr: "00:11:22:33:44:55",
				Addrs: []psnet.InterfaceAddr{
					{Addr: "192.168.1.20/24"},
					{Addr: "fe80::211:22ff:fe33:4455/64"},
				},
			},
			{
				Name:  "lo",
				Addrs: []psnet.InterfaceAddr{{Addr: "127.0.0.1/8"}},
			},
		},
		links: map[string]LinkStat{
			"eth0": {Up: true, SpeedMbps: 1000, MTU: 1500},
		},
		procs: []Proc{
			fakeProc{pid: 1, name: "init", mem: 0.5, rss: 10 * bytesPerMB},
			fakeProc{pid: 2, name: "postgres", cpu: 3, mem: 12.5, rss: 2000 * bytesPerMB},
		},
		users: []host.UserStat{
			{User: "alice", Host: "10.0.0.5", Started: 1700000000},
		},
		bootTime: 1699990000,
		temps: []host.TemperatureStat{
			{SensorKey: "coretemp_core_0", Temperature: 45},
		},
	}
}

func (f *fakeSource) check(ctx context.Context) error {
	if f.ctxChecks {
		return ctx.Err()
	}
	return nil
}

func (f *fakeSource) HostInfo(ctx context.Context) (*host.InfoStat, error) {
	if err := f.check(ctx); err != nil {
		return nil, err
	}
	return f.hostInfo, f.hostErr
}

func (f *fakeSource) LookupIP(ctx context.Context, hostname string) (string, error) {
	if f.lookupErr != nil {
		return "", f.lookupErr
	}
	return f.ip, nil
}

func (f *fakeSource) CPUCounts(ctx context.Context, logical bool) (int, error) {
	if logical {
		return f.logical, nil
	}
	return f.physical, nil
}

func (f *fakeSource) CPUInfo(ctx context.Context) ([]cpu.InfoStat, error) {
	return f.cpuInfo, f.cpuInfoErr
}

func (f *fakeSource) CPUPercent(ctx context.Context, interval time.Duration, perCPU bool) ([]float64, error) {
	f.percentCalls = append(f.percentCalls, perCPU)
	if f.percentErr != nil {
		return nil, f.percentErr
	}
	if perCPU {
		return f.perCPU, nil
	}
	return f.total, nil
}

func (f *fakeSource) VirtualMemory(ctx context.Context) (*mem.VirtualMemoryStat, error) {
	return f.vm, nil
}

func (f *fakeSource) SwapMemory(ctx context.Context) (*mem.SwapMemoryStat, error) {
	return f.swap, nil
}

func (f *fakeSource) Partitions(ctx context.Context) ([]disk.PartitionStat, error) {
	return f.partitions, nil
}

func (f *fakeSource) DiskUsage(ctx context.Context, path string) (*disk.UsageStat, error) {
	if err, ok := f.usageErr[path]; ok {
		return nil, err
	}
	if u, ok := f.usage[path]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("no such mountpoint: %s", path)
}

func (f *fakeSource) DiskIOCounters(ctx context.Context) (map[string]disk.IOCountersStat, error) {
	return f.ioCounters, f.ioErr
}

func (f *fakeSource) NetIOCounters(ctx context.Context) ([]psnet.IOCountersStat, error) {
	return f.netIO, nil
}

func (f *fakeSource) InterfaceAddrs(ctx context.Context) ([]psnet.InterfaceStat, error) {
	return f.addrs, nil
}

func (f *fakeSource) InterfaceLinks(ctx context.Context) (map[string]LinkStat, error) {
	return f.links, f.linksErr
}

func (f *fakeSource) Processes(ctx context.Context) ([]Proc, error) {
	return f.procs, nil
}

func (f *fakeSource) Users(ctx context.Context) ([]host.UserStat, error) {
	return f.users, f.usersErr
}

func (f *fakeSource) BootTime(ctx context.Context) (uint64, error) {
	return f.bootTime, f.bootErr
}

func (f *fakeSource) Temperatures(ctx context.Context) ([]host.TemperatureStat, error) {
	return f.temps, f.tempsErr
}

// fakeProc 可控的进程，err 非nil时模拟进程已退出或无权访问
type fakeProc struct {
	pid    int32
	name   string
	cpu    float64
	mem    float32
	rss    uint64
	err    error
	rssErr error
}

func (p fakeProc) PID() int32 { return p.pid }

func (p fakeProc) Name(ctx context.Context) (string, error) {
	return p.name, p.err
}

func (p fakeProc) CPUPercent(ctx context.Context) (float64, error) {
	return p.cpu, p.err
}

func (p fakeProc) MemoryPercent(ctx context.Context) (float32, error) {
	return p.mem, p.err
}

func (p fakeProc) RSS(ctx context.Context) (uint64, error) {
	if p.rssErr != nil {
		return 0, p.rssErr
	}
	return p.rss, p.err
}
