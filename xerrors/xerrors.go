// xerrors 包为 Anchor 提供标准化的错误处理工具。
// 这是一个基础包，不依赖于 Anchor 的其他组件。
package xerrors

import (
	"errors"
	"fmt"
)

// ============================================================================
// 哨兵错误 - Anchor 组件通用的错误类型
// ============================================================================

var (
	// ErrNotFound 表示请求的资源未找到。
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists 表示资源已存在。
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput 表示输入参数无效。
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnavailable 表示服务或资源不可用。
	ErrUnavailable = errors.New("unavailable")

	// ErrInternal 表示内部错误。
	ErrInternal = errors.New("internal error")
)

// New 创建一个新的错误。
// 与标准库 errors.New 等价，提供它是为了让组件只依赖 xerrors 一个错误包。
func New(msg string) error {
	return errors.New(msg)
}

// Newf 创建一个格式化的错误。
func Newf(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}

// Is 判断错误链中是否包含目标错误。
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As 在错误链中查找目标类型的错误。
func As(err error, target any) bool {
	return errors.As(err, target)
}

// ============================================================================
// 错误包装 - 保留带上下文的错误链
// ============================================================================

// Wrap 用额外的上下文信息包装错误。
// 如果 err 为 nil，则返回 nil。
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf 用格式化的上下文信息包装错误。
// 如果 err 为 nil，则返回 nil。
//
// 示例：
//
//	if err != nil {
//	    return xerrors.Wrapf(err, "解析注册中心 %s 失败", id)
//	}
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// ============================================================================
// 错误码 - 机器可读的结构化错误
// ============================================================================

// WithCode 用错误码包装错误，便于结构化错误处理。
// 如果 err 为 nil，则返回 nil。
func WithCode(err error, code string) error {
	if err == nil {
		return nil
	}
	return &CodedError{Code: code, Cause: err}
}

// CodedError 带有机器可读错误码的错误。
type CodedError struct {
	Code  string
	Cause error
}

func (e *CodedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %v", e.Code, e.Cause)
	}
	return fmt.Sprintf("[%s]", e.Code)
}

func (e *CodedError) Unwrap() error {
	return e.Cause
}

// GetCode 从错误链中提取错误码，没有则返回空字符串。
func GetCode(err error) string {
	var coded *CodedError
	if errors.As(err, &coded) {
		return coded.Code
	}
	return ""
}

// Must 如果 err 不为 nil，则 panic。仅用于初始化阶段。
func Must[T any](v T, err error) T {
	if err != nil {
		panic(fmt.Sprintf("must: %v", err))
	}
	return v
}
