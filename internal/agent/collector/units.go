package collector

import "math"

const (
	bytesPerMB = 1024 * 1024
	bytesPerGB = 1024 * 1024 * 1024
)

// toGB 字节转GB，保留一位小数
func toGB(b uint64) float64 {
	return round1(float64(b) / bytesPerGB)
}

// toMB 字节转MB，保留一位小数
func toMB(b uint64) float64 {
	return round1(float64(b) / bytesPerMB)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// clampPercent 将百分比限制在[0,100]，NaN视为0
func clampPercent(p float64) float64 {
	switch {
	case math.IsNaN(p), p < 0:
		return 0
	case p > 100:
		return 100
	default:
		return p
	}
}
