package config

// ReportConfig 报告生成器配置结构
type ReportConfig struct {
	Collection CollectionConfig `yaml:"collection"`
	Output     OutputConfig     `yaml:"output"`
	Logging    LoggingConfig    `yaml:"logging"`
	Reporter   ReporterConfig   `yaml:"reporter"`
	Security   SecurityConfig   `yaml:"security"`
	Serve      ServeConfig      `yaml:"serve"`
}

// CollectionConfig 采集配置
type CollectionConfig struct {
	// CPU使用率采样窗口(毫秒)，总体和每核各采样一次
	CPUIntervalMs int `yaml:"cpu_interval_ms"`
	// 按内存占用排序后保留的进程数
	TopProcesses int `yaml:"top_processes"`
	// 每组温度传感器最多保留的读数
	SensorReadings int `yaml:"sensor_readings"`
	// 是否并行执行各采集项
	Parallel bool `yaml:"parallel"`
}

// OutputConfig 输出配置
type OutputConfig struct {
	// 报告格式: text 或 json
	Format string `yaml:"format"`
	// 默认文件名所在目录
	Dir string `yaml:"dir"`
	// 是否同时输出到控制台
	Print bool `yaml:"print"`
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ReporterConfig 报告上报配置
type ReporterConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	NodeID        string `yaml:"node_id"`
	Token         string `yaml:"token"`
	Timeout       int    `yaml:"timeout"`        // 秒
	RetryCount    int    `yaml:"retry_count"`    // 次
	RetryInterval int    `yaml:"retry_interval"` // 秒
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	Encryption  EncryptionConfig  `yaml:"encryption"`
	Compression CompressionConfig `yaml:"compression"`
}

// EncryptionConfig 加密配置
type EncryptionConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Algorithm string `yaml:"algorithm"`
	Key       string `yaml:"key"`
}

// CompressionConfig 压缩配置
type CompressionConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Algorithm string `yaml:"algorithm"`
	Level     int    `yaml:"level"`
}

// ServeConfig 按需HTTP报告服务配置
type ServeConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}
