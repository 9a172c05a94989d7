// Package errors 定义报告生成过程中的错误类别
//
// 单项跳过（分区、进程、网卡不可访问）和可选数据缺失（频率、传感器、IO计数）
// 不会产生错误；只有致命错误才会用这里的类别包装后返回到命令行入口。
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind 错误类别
type Kind string

const (
	KindConfig         Kind = "config"
	KindHostResolution Kind = "host_resolution"
	KindCollect        Kind = "collect"
	KindRender         Kind = "render"
	KindOutput         Kind = "output"
	KindReport         Kind = "report"
)

// 各类别对应的哨兵错误，配合 errors.Is 使用
var (
	ErrConfig         = &Error{Kind: KindConfig}
	ErrHostResolution = &Error{Kind: KindHostResolution}
	ErrCollect        = &Error{Kind: KindCollect}
	ErrRender         = &Error{Kind: KindRender}
	ErrOutput         = &Error{Kind: KindOutput}
	ErrReport         = &Error{Kind: KindReport}
)

// Error 带类别的错误
type Error struct {
	Kind Kind
	Op   string // 出错的操作，例如 "platform"、"write"
	Err  error
}

// Error 实现 error 接口
func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Err != nil:
		return e.Err.Error()
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	default:
		return string(e.Kind)
	}
}

// Unwrap 返回底层错误
func (e *Error) Unwrap() error {
	return e.Err
}

// Is 同类别即视为匹配，使 errors.Is(err, ErrCollect) 可用
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Wrap 用指定类别包装错误，err 为 nil 时返回 nil
func Wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf 返回错误链中第一个带类别错误的类别，没有则返回空字符串
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// ExitCode 根据错误类别返回进程退出码
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch KindOf(err) {
	case KindConfig:
		return 2
	case KindHostResolution:
		return 3
	case KindCollect:
		return 4
	case KindRender:
		return 5
	case KindOutput:
		return 6
	case KindReport:
		return 7
	default:
		return 1
	}
}
