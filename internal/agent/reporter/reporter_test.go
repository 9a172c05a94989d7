package reporter

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/syslens/sysreport/internal/agent/collector"
	apperrors "github.com/syslens/sysreport/internal/common/errors"
	"github.com/syslens/sysreport/internal/common/security"
	"github.com/syslens/sysreport/internal/config"
)

func testSnapshot() *collector.Snapshot {
	return &collector.Snapshot{
		Time:     time.Date(2026, 10, 19, 14, 30, 15, 0, time.UTC),
		Platform: collector.Platform{System: "Linux", Host: "testhost", IP: "192.168.1.20"},
		CPU:      collector.CPU{LogicalCores: 8, Usage: 12.5, PerCPU: []float64{12.5}},
		Sensors:  collector.SensorsUnavailable(),
	}
}

func TestHTTPReporterReport(t *testing.T) {
	var received collector.Snapshot
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/nodes/node-1/reports", r.URL.Path)
		assert.Equal(t, "node-1", r.Header.Get("X-Node-ID"))
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		assert.Equal(t, security.ContentTypeJSON, r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get("X-Compressed"))
		assert.Empty(t, r.Header.Get("X-Encrypted"))

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.NoError(t, json.Unmarshal(body, &received))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	r := NewHTTPReporter(server.URL+"/", "node-1", WithAuthToken("secret-token"))
	require.NoError(t, r.Report(context.Background(), testSnapshot()))
	assert.Equal(t, "testhost", received.Platform.Host)
	assert.Equal(t, 12.5, received.CPU.Usage)
}

func TestHTTPReporterSecurePayload(t *testing.T) {
	secCfg := config.SecurityConfig{
		Encryption:  config.EncryptionConfig{Enabled: true, Algorithm: "aes-256-gcm", Key: "shared-key"},
		Compression: config.CompressionConfig{Enabled: true, Algorithm: "gzip", Level: 6},
	}
	codec, err := security.NewCodec(secCfg)
	require.NoError(t, err)

	var decoded collector.Snapshot
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "gzip", r.Header.Get("X-Compressed"))
		assert.Equal(t, "true", r.Header.Get("X-Encrypted"))
		assert.Equal(t, security.ContentTypeBinary, r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		plain, err := codec.Decode(body)
		if !assert.NoError(t, err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		assert.NoError(t, json.Unmarshal(plain, &decoded))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	r, err := NewFromConfig(config.ReporterConfig{
		Enabled:    true,
		URL:        server.URL,
		NodeID:     "node-2",
		Timeout:    5,
		RetryCount: 0,
	}, secCfg, nil)
	require.NoError(t, err)

	require.NoError(t, r.Report(context.Background(), testSnapshot()))
	assert.Equal(t, "192.168.1.20", decoded.Platform.IP)
	assert.False(t, decoded.Sensors.Available())
}

func TestHTTPReporterRetry(t *testing.T) {
	t.Run("失败后重试成功", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&calls, 1) < 3 {
				http.Error(w, "busy", http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		r := NewHTTPReporter(server.URL, "node-1",
			WithRetryCount(3),
			WithRetryInterval(time.Millisecond))
		require.NoError(t, r.Report(context.Background(), testSnapshot()))
		assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	})

	t.Run("重试耗尽返回上报错误", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
		}))
		defer server.Close()

		r := NewHTTPReporter(server.URL, "node-1",
			WithRetryCount(2),
			WithRetryInterval(time.Millisecond))
		err := r.Report(context.Background(), testSnapshot())
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrReport)
		assert.Contains(t, err.Error(), "401")
		assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	})

	t.Run("等待重试时取消", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "busy", http.StatusServiceUnavailable)
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		r := NewHTTPReporter(server.URL, "node-1",
			WithRetryCount(5),
			WithRetryInterval(time.Hour))

		go func() {
			time.Sleep(50 * time.Millisecond)
			cancel()
		}()

		err := r.Report(ctx, testSnapshot())
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		assert.ErrorIs(t, err, apperrors.ErrReport)
	})
}

func TestNewFromConfigInvalidURL(t *testing.T) {
	_, err := NewFromConfig(config.ReporterConfig{URL: "not a url"}, config.SecurityConfig{}, nil)
	assert.ErrorIs(t, err, apperrors.ErrConfig)
}

func TestDefaultNodeID(t *testing.T) {
	r := NewHTTPReporter("http://localhost:8080", "")
	assert.NotEmpty(t, r.NodeID())
}
