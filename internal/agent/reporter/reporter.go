package reporter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/syslens/sysreport/internal/agent/collector"
	apperrors "github.com/syslens/sysreport/internal/common/errors"
	"github.com/syslens/sysreport/internal/common/security"
	"github.com/syslens/sysreport/internal/config"
	"go.uber.org/zap"
)

// Reporter 快照上报器接口
type Reporter interface {
	Report(ctx context.Context, snap *collector.Snapshot) error
}

// HTTPReporter 通过HTTP把单个快照推送到syslens服务端
type HTTPReporter struct {
	serverURL     string        // 服务端地址
	nodeID        string        // 节点ID
	client        *http.Client  // HTTP客户端
	retryCount    int           // 重试次数
	retryInterval time.Duration // 重试间隔
	authToken     string        // 认证令牌
	codec         *security.Codec
	logger        *zap.Logger
}

// NewHTTPReporter 创建HTTP上报器，nodeID 为空时使用主机名
func NewHTTPReporter(serverURL string, nodeID string, options ...func(*HTTPReporter)) *HTTPReporter {
	r := &HTTPReporter{
		serverURL:     strings.TrimRight(serverURL, "/"),
		nodeID:        nodeID,
		retryCount:    3,
		retryInterval: 1 * time.Second,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: zap.NewNop(),
	}

	// 应用选项
	for _, option := range options {
		option(r)
	}

	if r.codec == nil {
		r.codec, _ = security.NewCodec(config.SecurityConfig{})
	}
	if r.nodeID == "" {
		r.nodeID = defaultNodeID()
	}

	return r
}

// NewFromConfig 根据上报和安全配置创建上报器
func NewFromConfig(rc config.ReporterConfig, sc config.SecurityConfig, logger *zap.Logger) (*HTTPReporter, error) {
	if _, err := url.ParseRequestURI(rc.URL); err != nil {
		return nil, apperrors.Wrap(apperrors.KindConfig, "reporter", fmt.Errorf("无效的服务端地址 %q: %w", rc.URL, err))
	}
	codec, err := security.NewCodec(sc)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindConfig, "reporter", err)
	}

	return NewHTTPReporter(rc.URL, rc.NodeID,
		WithRetryCount(rc.RetryCount),
		WithRetryInterval(time.Duration(rc.RetryInterval)*time.Second),
		WithTimeout(time.Duration(rc.Timeout)*time.Second),
		WithAuthToken(rc.Token),
		WithCodec(codec),
		WithLogger(logger),
	), nil
}

// WithRetryCount 设置重试次数
func WithRetryCount(count int) func(*HTTPReporter) {
	return func(r *HTTPReporter) {
		if count >= 0 {
			r.retryCount = count
		}
	}
}

// WithRetryInterval 设置重试间隔
func WithRetryInterval(interval time.Duration) func(*HTTPReporter) {
	return func(r *HTTPReporter) {
		if interval > 0 {
			r.retryInterval = interval
		}
	}
}

// WithTimeout 设置单次请求超时时间
func WithTimeout(timeout time.Duration) func(*HTTPReporter) {
	return func(r *HTTPReporter) {
		if timeout > 0 {
			r.client.Timeout = timeout
		}
	}
}

// WithCodec 设置负载编解码器
func WithCodec(codec *security.Codec) func(*HTTPReporter) {
	return func(r *HTTPReporter) {
		if codec != nil {
			r.codec = codec
		}
	}
}

// WithAuthToken 设置认证令牌
func WithAuthToken(token string) func(*HTTPReporter) {
	return func(r *HTTPReporter) {
		r.authToken = token
	}
}

// WithLogger 设置日志记录器
func WithLogger(logger *zap.Logger) func(*HTTPReporter) {
	return func(r *HTTPReporter) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NodeID 返回实际使用的节点ID
func (r *HTTPReporter) NodeID() string {
	return r.nodeID
}

// Report 将快照推送到服务端，失败时按配置重试
func (r *HTTPReporter) Report(ctx context.Context, snap *collector.Snapshot) error {
	jsonData, err := json.Marshal(snap)
	if err != nil {
		return apperrors.Wrap(apperrors.KindReport, "report", fmt.Errorf("快照序列化失败: %w", err))
	}

	// 压缩和加密数据
	payload, contentType, err := r.codec.Encode(jsonData)
	if err != nil {
		return apperrors.Wrap(apperrors.KindReport, "report", fmt.Errorf("数据处理失败: %w", err))
	}

	endpoint := fmt.Sprintf("%s/api/v1/nodes/%s/reports", r.serverURL, url.PathEscape(r.nodeID))

	var lastErr error
	for i := 0; i <= r.retryCount; i++ {
		if i > 0 {
			r.logger.Warn("上报重试",
				zap.Int("attempt", i),
				zap.Int("retry_count", r.retryCount),
				zap.Duration("delay", r.retryInterval),
				zap.Error(lastErr))

			select {
			case <-ctx.Done():
				return apperrors.Wrap(apperrors.KindReport, "report", fmt.Errorf("上报被取消: %w", ctx.Err()))
			case <-time.After(r.retryInterval):
			}
		}

		if lastErr = r.send(ctx, endpoint, payload, contentType); lastErr == nil {
			return nil
		}
	}

	return apperrors.Wrap(apperrors.KindReport, "report",
		fmt.Errorf("快照上报失败，已重试%d次，服务端地址: %s，最后错误: %w", r.retryCount, r.serverURL, lastErr))
}

// send 发送一次上报请求
func (r *HTTPReporter) send(ctx context.Context, endpoint string, payload []byte, contentType string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("创建HTTP请求失败: %w", err)
	}

	req.Header.Set("Content-Type", contentType)
	req.Header.Set("User-Agent", "SysLens-Report")
	req.Header.Set("X-Node-ID", r.nodeID)
	if r.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+r.authToken)
	}
	if r.codec.Compressed() {
		req.Header.Set("X-Compressed", "gzip")
	}
	if r.codec.Encrypted() {
		req.Header.Set("X-Encrypted", "true")
	}

	startTime := time.Now()
	resp, err := r.client.Do(req)
	requestTime := time.Since(startTime)
	if err != nil {
		return fmt.Errorf("HTTP请求失败 (耗时: %v): %w", requestTime, err)
	}
	defer resp.Body.Close()

	// 读取响应内容，用于错误信息
	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		r.logger.Info("快照上报成功",
			zap.String("node_id", r.nodeID),
			zap.Int("status", resp.StatusCode),
			zap.Duration("elapsed", requestTime))
		return nil
	}

	return fmt.Errorf("服务器返回错误状态码: %d，响应: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
}

// defaultNodeID 主机名不可用时生成随机ID
func defaultNodeID() string {
	if hostname, err := os.Hostname(); err == nil && hostname != "" {
		return hostname
	}
	return "node-" + uuid.NewString()
}
