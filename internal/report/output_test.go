package report

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/syslens/sysreport/internal/common/errors"
)

func TestOutputPath(t *testing.T) {
	captured := time.Date(2026, 10, 19, 14, 30, 15, 0, time.Local)

	tests := []struct {
		name   string
		dir    string
		file   string
		format Format
		want   string
	}{
		{name: "默认文本文件名", format: FormatText, want: "system_report_20261019_143015.txt"},
		{name: "默认JSON文件名", format: FormatJSON, want: "system_report_20261019_143015.json"},
		{name: "默认文件名带目录", dir: "reports", format: FormatJSON, want: filepath.Join("reports", "system_report_20261019_143015.json")},
		{name: "指定文件名追加扩展名", file: "host", format: FormatText, want: "host.txt"},
		{name: "已有扩展名不重复追加", file: "host.json", format: FormatJSON, want: "host.json"},
		{name: "扩展名大小写不敏感", file: "HOST.TXT", format: FormatText, want: "HOST.TXT"},
		{name: "其他扩展名仍追加", file: "host.txt", format: FormatJSON, want: "host.txt.json"},
		{name: "指定文件名忽略目录", dir: "reports", file: "host", format: FormatText, want: "host.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OutputPath(tt.dir, tt.file, tt.format, captured))
		})
	}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()

	t.Run("写入并创建目录", func(t *testing.T) {
		path := filepath.Join(dir, "nested", "report.txt")
		require.NoError(t, Save(path, []byte(expectedText)))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, expectedText, string(data))
	})

	t.Run("路径是目录时返回输出错误", func(t *testing.T) {
		err := Save(dir, []byte("x"))
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrOutput)
	})
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 0, errors.New("broken pipe") }

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Print(&buf, []byte(`{"a":1}`)))
	assert.Equal(t, "{\"a\":1}\n", buf.String())

	buf.Reset()
	require.NoError(t, Print(&buf, []byte(expectedText)))
	assert.Equal(t, expectedText, buf.String())

	assert.ErrorIs(t, Print(failingWriter{}, []byte("x")), apperrors.ErrOutput)
}
