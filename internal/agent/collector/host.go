package collector

import (
	"context"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/syslens/sysreport/internal/common/errors"
	"go.uber.org/zap"
)

// collectUsers 收集活动登录会话
// 容器等环境下没有utmp文件，此时视为没有会话
func (sc *SystemCollector) collectUsers(ctx context.Context) []User {
	stats, err := sc.source.Users(ctx)
	if err != nil {
		sc.logger.Debug("读取登录会话失败", zap.Error(err))
		return []User{}
	}

	users := make([]User, 0, len(stats))
	for _, u := range stats {
		users = append(users, User{
			Name:    u.User,
			Host:    u.Host,
			Started: time.Unix(int64(u.Started), 0),
		})
	}
	return users
}

// collectBootTime 获取最近一次启动时间
func (sc *SystemCollector) collectBootTime(ctx context.Context) (time.Time, error) {
	boot, err := sc.source.BootTime(ctx)
	if err != nil {
		return time.Time{}, apperrors.Wrap(apperrors.KindCollect, "boot", fmt.Errorf("获取启动时间失败: %w", err))
	}
	return time.Unix(int64(boot), 0), nil
}

// collectSensors 尽力获取温度传感器读数，不返回错误
// 没有任何读数且查询报错时视为平台不支持，返回占位值
func (sc *SystemCollector) collectSensors(ctx context.Context) Sensors {
	temps, err := sc.source.Temperatures(ctx)
	if err != nil && len(temps) == 0 {
		sc.logger.Debug("温度传感器不可用", zap.Error(err))
		return SensorsUnavailable()
	}
	if err != nil {
		// 部分传感器读取失败时仍保留已拿到的读数
		sc.logger.Debug("部分温度传感器读取失败", zap.Error(err))
	}

	groups := make(map[string][]SensorReading)
	for _, t := range temps {
		group := sensorGroup(t.SensorKey)
		if len(groups[group]) >= sc.sensorReadings {
			continue
		}
		groups[group] = append(groups[group], SensorReading{Current: t.Temperature})
	}
	return Sensors{Groups: groups}
}

// sensorGroup 取传感器键的芯片部分，例如 coretemp_core_0 -> coretemp
func sensorGroup(key string) string {
	if i := strings.Index(key, "_"); i > 0 {
		return key[:i]
	}
	return key
}
