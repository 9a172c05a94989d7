package collector

import (
	"encoding/json"
	"time"
)

// Snapshot 一次完整的主机状态采集结果，Collect 返回后不再修改
type Snapshot struct {
	Time      time.Time `json:"time"`
	Platform  Platform  `json:"platform"`
	CPU       CPU       `json:"cpu"`
	Memory    Memory    `json:"memory"`
	Disks     []Disk    `json:"disks"`
	Network   Network   `json:"network"`
	Processes []Process `json:"processes"`
	Users     []User    `json:"users"`
	Boot      time.Time `json:"boot"`
	Sensors   Sensors   `json:"sensors"`
}

// Platform 操作系统与主机标识
type Platform struct {
	System  string `json:"system"`
	Release string `json:"release"`
	Version string `json:"version"`
	Host    string `json:"host"`
	IP      string `json:"ip"`
}

// CPU 处理器核心数、频率与使用率
type CPU struct {
	PhysicalCores int `json:"physical_cores"`
	LogicalCores  int `json:"logical_cores"`
	// 系统不提供频率时为nil
	FrequencyMHz *float64  `json:"freq_mhz,omitempty"`
	Usage        float64   `json:"usage"`
	PerCPU       []float64 `json:"per_cpu"`
}

// Memory 内存与交换分区，单位GB(1024³)，保留一位小数
type Memory struct {
	TotalRAMGB  float64 `json:"total_ram_gb"`
	UsedRAMGB   float64 `json:"used_ram_gb"`
	RAMPercent  float64 `json:"ram_percent"`
	SwapUsedGB  float64 `json:"swap_used_gb"`
	SwapTotalGB float64 `json:"swap_total_gb"`
}

// Disk 单个分区的使用情况
type Disk struct {
	Device     string  `json:"device"`
	Mountpoint string  `json:"mountpoint"`
	FSType     string  `json:"fstype"`
	TotalGB    float64 `json:"total_gb"`
	UsedGB     float64 `json:"used_gb"`
	FreeGB     float64 `json:"free_gb"`
	Percent    float64 `json:"percent"`
	// IO累计读写(MB)，拿不到时省略
	ReadMB  *float64 `json:"read_mb,omitempty"`
	WriteMB *float64 `json:"write_mb,omitempty"`
}

// Network 网络累计流量与各接口信息
type Network struct {
	BytesSentMB float64              `json:"bytes_sent_mb"`
	BytesRecvMB float64              `json:"bytes_recv_mb"`
	PacketsSent uint64               `json:"packets_sent"`
	PacketsRecv uint64               `json:"packets_recv"`
	Interfaces  map[string]Interface `json:"interfaces"`
}

// Interface 网络接口地址与链路状态
type Interface struct {
	IPAddresses []string  `json:"ip_addresses"`
	MAC         string    `json:"mac,omitempty"`
	Stats       LinkStats `json:"stats"`
}

// LinkStats 链路状态，接口没有统计信息时为空记录
type LinkStats struct {
	State     string `json:"is_up,omitempty"`
	SpeedMbps int    `json:"speed_mbps,omitempty"`
	MTU       int    `json:"mtu,omitempty"`
}

// Empty 是否为空记录
func (s LinkStats) Empty() bool {
	return s == LinkStats{}
}

// Process 进程资源占用
type Process struct {
	PID           int32   `json:"pid"`
	Name          string  `json:"name"`
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	MemoryMB      float64 `json:"memory_mb"`
}

// User 活动登录会话
type User struct {
	Name    string    `json:"name"`
	Host    string    `json:"host"`
	Started time.Time `json:"started"`
}

// SensorReading 单个温度读数
type SensorReading struct {
	Current float64 `json:"current"`
}

// Sensors 温度传感器读数，按芯片分组
//
// 平台不支持传感器时 Info 为 "N/A" 且 Groups 为nil，序列化为 {"info":"N/A"}；
// 否则序列化为 {"芯片名": [{"current": ...}]}。
type Sensors struct {
	Info   string
	Groups map[string][]SensorReading
}

// SensorsUnavailable 平台不支持传感器时的占位值
func SensorsUnavailable() Sensors {
	return Sensors{Info: "N/A"}
}

// Available 是否拿到了传感器数据
func (s Sensors) Available() bool {
	return s.Info == ""
}

// MarshalJSON 实现 json.Marshaler
func (s Sensors) MarshalJSON() ([]byte, error) {
	if !s.Available() {
		return json.Marshal(map[string]string{"info": s.Info})
	}
	groups := s.Groups
	if groups == nil {
		groups = map[string][]SensorReading{}
	}
	return json.Marshal(groups)
}

// UnmarshalJSON 实现 json.Unmarshaler
func (s *Sensors) UnmarshalJSON(data []byte) error {
	var placeholder map[string]json.RawMessage
	if err := json.Unmarshal(data, &placeholder); err != nil {
		return err
	}
	if raw, ok := placeholder["info"]; ok && len(placeholder) == 1 {
		var info string
		if err := json.Unmarshal(raw, &info); err == nil {
			*s = Sensors{Info: info}
			return nil
		}
	}

	groups := make(map[string][]SensorReading, len(placeholder))
	if err := json.Unmarshal(data, &groups); err != nil {
		return err
	}
	*s = Sensors{Groups: groups}
	return nil
}
