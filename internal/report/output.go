package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	apperrors "github.com/syslens/sysreport/internal/common/errors"
)

const filenamePrefix = "system_report_"

// DefaultFilename 以采集时间命名的报告文件名，不含扩展名
func DefaultFilename(t time.Time) string {
	return filenamePrefix + t.Format("20060102_150405")
}

// OutputPath 计算报告文件路径
// name 为空时在 dir 下使用默认文件名；扩展名已存在时不再重复追加
func OutputPath(dir, name string, format Format, t time.Time) string {
	if name == "" {
		name = DefaultFilename(t)
		if dir != "" {
			name = filepath.Join(dir, name)
		}
	}

	ext := format.Extension()
	if !strings.EqualFold(filepath.Ext(name), ext) {
		name += ext
	}
	return name
}

// Save 将报告写入文件，文件已存在时覆盖
func Save(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return apperrors.Wrap(apperrors.KindOutput, "save", fmt.Errorf("创建目录 %s 失败: %w", dir, err))
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return apperrors.Wrap(apperrors.KindOutput, "save", fmt.Errorf("写入报告文件 %s 失败: %w", path, err))
	}
	return nil
}

// Print 将报告输出到 w，末尾保证有换行
func Print(w io.Writer, data []byte) error {
	_, err := w.Write(data)
	if err == nil && (len(data) == 0 || data[len(data)-1] != '\n') {
		_, err = io.WriteString(w, "\n")
	}
	if err != nil {
		return apperrors.Wrap(apperrors.KindOutput, "print", fmt.Errorf("输出报告失败: %w", err))
	}
	return nil
}
