package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/syslens/sysreport/internal/agent/collector"
)

const (
	timeLayout      = "2006-01-02 15:04:05"
	clockLayout     = "15:04:05"
	maxIfaceAddrs   = 2
	processNameCols = 20
)

var (
	heavyRule = strings.Repeat("=", 60)
	lightRule = strings.Repeat("-", 40)
)

// textWriter 逐行拼接报告
type textWriter struct {
	sb strings.Builder
}

func (w *textWriter) line(format string, args ...interface{}) {
	fmt.Fprintf(&w.sb, format, args...)
	w.sb.WriteByte('\n')
}

// section 写入空行、标题和分隔线
func (w *textWriter) section(title string) {
	w.sb.WriteByte('\n')
	w.line("%s", title)
	w.line("%s", lightRule)
}

// RenderText 按固定版式渲染文本报告
func RenderText(snap *collector.Snapshot) string {
	w := &textWriter{}

	w.line("%s", heavyRule)
	w.line("SYSTEM REPORT - %s", snap.Time.Format(timeLayout))
	w.line("%s", heavyRule)

	p := snap.Platform
	w.section("PLATFORM:")
	w.line("System: %s %s", p.System, p.Release)
	w.line("Version: %s", p.Version)
	w.line("Host: %s", p.Host)
	w.line("IP address: %s", p.IP)

	writeCPU(w, snap.CPU)

	m := snap.Memory
	w.section("MEMORY:")
	w.line("RAM: %.1f GB / %.1f GB (%.1f%%)", m.UsedRAMGB, m.TotalRAMGB, m.RAMPercent)
	w.line("SWAP: %.1f/%.1f GB", m.SwapUsedGB, m.SwapTotalGB)

	writeDisks(w, snap.Disks)
	writeNetwork(w, snap.Network)
	writeProcesses(w, snap.Processes)

	// 没有登录会话时整段省略
	if len(snap.Users) > 0 {
		w.section("ACTIVE USERS:")
		for _, u := range snap.Users {
			w.line("%s from %s (since %s)", u.Name, u.Host, u.Started.Format(clockLayout))
		}
	}

	w.sb.WriteByte('\n')
	w.line("BOOT TIME: %s", snap.Boot.Format(timeLayout))
	w.line("%s", heavyRule)

	return w.sb.String()
}

func writeCPU(w *textWriter, c collector.CPU) {
	freq := "N/A"
	if c.FrequencyMHz != nil {
		freq = fmt.Sprintf("%.0f MHz", *c.FrequencyMHz)
	}

	perCPU := make([]string, 0, len(c.PerCPU))
	for _, p := range c.PerCPU {
		perCPU = append(perCPU, fmt.Sprintf("%.1f%%", p))
	}

	w.section("CPU:")
	w.line("Cores: %d physical, %d logical", c.PhysicalCores, c.LogicalCores)
	w.line("Frequency: %s", freq)
	w.line("Usage: %.1f%%", c.Usage)
	w.line("Per core: %s", strings.Join(perCPU, ", "))
}

func writeDisks(w *textWriter, disks []collector.Disk) {
	w.section("DISKS:")
	for i, d := range disks {
		w.line("%d. %s -> %s", i+1, d.Device, d.Mountpoint)
		w.line("   Type: %s, Total: %.1f GB", d.FSType, d.TotalGB)
		w.line("   Used: %.1f GB (%.1f%%), Free: %.1f GB", d.UsedGB, d.Percent, d.FreeGB)
		if d.ReadMB != nil && d.WriteMB != nil {
			w.line("   Read: %.1f MB, Write: %.1f MB", *d.ReadMB, *d.WriteMB)
		}
	}
}

func writeNetwork(w *textWriter, n collector.Network) {
	w.section("NETWORK:")
	w.line("Sent: %.1f MB, Received: %.1f MB", n.BytesSentMB, n.BytesRecvMB)
	w.line("Packets: sent %d, received %d", n.PacketsSent, n.PacketsRecv)

	names := make([]string, 0, len(n.Interfaces))
	for name := range n.Interfaces {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		iface := n.Interfaces[name]
		if len(iface.IPAddresses) == 0 {
			continue
		}

		w.sb.WriteByte('\n')
		w.line("%s:", name)
		if iface.MAC != "" {
			w.line("  MAC: %s", iface.MAC)
		}
		addrs := iface.IPAddresses
		if len(addrs) > maxIfaceAddrs {
			addrs = addrs[:maxIfaceAddrs]
		}
		for _, addr := range addrs {
			w.line("  %s", addr)
		}
		if !iface.Stats.Empty() {
			w.line("  Status: %s, Speed: %s", iface.Stats.State, formatSpeed(iface.Stats.SpeedMbps))
		}
	}
}

func formatSpeed(mbps int) string {
	if mbps <= 0 {
		return "N/A"
	}
	return fmt.Sprintf("%d Mbps", mbps)
}

func writeProcesses(w *textWriter, procs []collector.Process) {
	w.section("TOP PROCESSES:")
	for i, p := range procs {
		w.line("%d. %-*s PID:%6d CPU:%5.1f%% MEM:%5.1f%%",
			i+1, processNameCols, truncate(p.Name, processNameCols), p.PID, p.CPUPercent, p.MemoryPercent)
	}
}

// truncate 按字符截断，避免切断多字节字符
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
