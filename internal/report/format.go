// Package report 将主机快照渲染为文本或JSON报告，并负责报告文件的命名与保存
package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/syslens/sysreport/internal/agent/collector"
	apperrors "github.com/syslens/sysreport/internal/common/errors"
)

// Format 报告格式
type Format string

const (
	// FormatText 人类可读的固定版式文本
	FormatText Format = "text"
	// FormatJSON 带两个空格缩进的JSON
	FormatJSON Format = "json"
)

// IsUnknown 是否为不支持的格式
func (f Format) IsUnknown() bool {
	switch f {
	case FormatText, FormatJSON:
		return false
	default:
		return true
	}
}

// Extension 报告文件扩展名
func (f Format) Extension() string {
	if f == FormatJSON {
		return ".json"
	}
	return ".txt"
}

// ContentType HTTP响应使用的内容类型
func (f Format) ContentType() string {
	if f == FormatJSON {
		return "application/json; charset=utf-8"
	}
	return "text/plain; charset=utf-8"
}

// SupportedFormats 返回所有支持的格式
func SupportedFormats() []string {
	return []string{string(FormatText), string(FormatJSON)}
}

// ParseFormat 解析格式名，大小写不敏感
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f.IsUnknown() {
		return "", apperrors.Wrap(apperrors.KindConfig, "format",
			fmt.Errorf("不支持的报告格式 %q，可选值: %s", s, strings.Join(SupportedFormats(), ", ")))
	}
	return f, nil
}

// RenderJSON 将快照序列化为缩进的JSON
func RenderJSON(snap *collector.Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindRender, "json", fmt.Errorf("序列化快照失败: %w", err))
	}
	return data, nil
}

// Render 按格式渲染快照，同一快照多次渲染结果完全相同
func Render(snap *collector.Snapshot, format Format) ([]byte, error) {
	if snap == nil {
		return nil, apperrors.Wrap(apperrors.KindRender, "render", fmt.Errorf("快照为空"))
	}
	switch format {
	case FormatJSON:
		return RenderJSON(snap)
	case FormatText:
		return []byte(RenderText(snap)), nil
	default:
		return nil, apperrors.Wrap(apperrors.KindRender, "render", fmt.Errorf("不支持的报告格式: %s", format))
	}
}
