// Package security 负责上报负载的压缩与加密
//
// 处理顺序固定为先gzip压缩再AES-256-GCM加密，密文带随机nonce前缀并做base64编码；
// 接收端按相反顺序还原。
package security

import (
	"bytes"
	"compress/gzip"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"github.com/syslens/sysreport/internal/config"
)

const (
	keySize          = 32
	defaultGzipLevel = 6
)

// 内容类型
const (
	ContentTypeJSON   = "application/json"
	ContentTypeBinary = "application/octet-stream"
)

// ErrCiphertextTooShort 密文短于nonce长度
var ErrCiphertextTooShort = errors.New("密文太短")

// Codec 按安全配置编码和解码上报负载
type Codec struct {
	compress bool
	level    int
	aead     cipher.AEAD
}

// NewCodec 根据安全配置创建编解码器
// 开启加密但没有密钥时等同于不加密
func NewCodec(cfg config.SecurityConfig) (*Codec, error) {
	c := &Codec{
		compress: cfg.Compression.Enabled,
		level:    cfg.Compression.Level,
	}
	if c.level < gzip.BestSpeed || c.level > gzip.BestCompression {
		c.level = defaultGzipLevel
	}

	if cfg.Encryption.Enabled && cfg.Encryption.Key != "" {
		if alg := cfg.Encryption.Algorithm; alg != "" && alg != "aes-256-gcm" {
			return nil, fmt.Errorf("不支持的加密算法: %s", alg)
		}
		block, err := aes.NewCipher(normalizeKey(cfg.Encryption.Key))
		if err != nil {
			return nil, fmt.Errorf("初始化AES失败: %w", err)
		}
		if c.aead, err = cipher.NewGCM(block); err != nil {
			return nil, fmt.Errorf("初始化GCM失败: %w", err)
		}
	}
	return c, nil
}

// Compressed 是否压缩
func (c *Codec) Compressed() bool { return c.compress }

// Encrypted 是否加密
func (c *Codec) Encrypted() bool { return c.aead != nil }

// Encode 压缩并加密负载，返回处理后的数据及其内容类型
func (c *Codec) Encode(data []byte) ([]byte, string, error) {
	out := data
	contentType := ContentTypeJSON

	if c.compress {
		var err error
		if out, err = compress(out, c.level); err != nil {
			return nil, "", fmt.Errorf("压缩失败: %w", err)
		}
		contentType = ContentTypeBinary
	}

	if c.aead != nil {
		nonce := make([]byte, c.aead.NonceSize())
		if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
			return nil, "", fmt.Errorf("生成nonce失败: %w", err)
		}
		sealed := c.aead.Seal(nonce, nonce, out, nil)
		out = []byte(base64.StdEncoding.EncodeToString(sealed))
		contentType = ContentTypeBinary
	}

	return out, contentType, nil
}

// Decode 还原 Encode 的结果
func (c *Codec) Decode(data []byte) ([]byte, error) {
	out := data

	if c.aead != nil {
		sealed, err := base64.StdEncoding.DecodeString(string(out))
		if err != nil {
			return nil, fmt.Errorf("base64解码失败: %w", err)
		}
		n := c.aead.NonceSize()
		if len(sealed) < n {
			return nil, ErrCiphertextTooShort
		}
		if out, err = c.aead.Open(nil, sealed[:n], sealed[n:], nil); err != nil {
			return nil, fmt.Errorf("解密失败: %w", err)
		}
	}

	if c.compress {
		r, err := gzip.NewReader(bytes.NewReader(out))
		if err != nil {
			return nil, fmt.Errorf("解压失败: %w", err)
		}
		defer r.Close()
		if out, err = io.ReadAll(r); err != nil {
			return nil, fmt.Errorf("解压失败: %w", err)
		}
	}

	return out, nil
}

func compress(data []byte, level int) ([]byte, error) {
	var buf bytes.Buffer
	w, err := gzip.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// normalizeKey 将密钥补零或截断到32字节，与服务端的处理方式一致
func normalizeKey(key string) []byte {
	k := make([]byte, keySize)
	copy(k, key)
	return k
}
