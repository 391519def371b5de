package errors

import "errors"

// ── 错误类别 ──

var (
	// ErrNotFound 引用的实体不存在
	ErrNotFound = errors.New("资源不存在")
	// ErrConflict 违反唯一约束
	ErrConflict = errors.New("资源冲突")
	// ErrInvalidInput 参数格式或必填项无效
	ErrInvalidInput = errors.New("参数无效")
)

// Error 带类别的业务错误，Message 面向调用方展示
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

// Unwrap 使 errors.Is(err, ErrNotFound) 等类别判断成立
func (e *Error) Unwrap() error { return e.Kind }

// NotFound 构造 NotFound 类错误
func NotFound(message string) *Error {
	return &Error{Kind: ErrNotFound, Message: message}
}

// Conflict 构造 Conflict 类错误
func Conflict(message string) *Error {
	return &Error{Kind: ErrConflict, Message: message}
}

// InvalidInput 构造 InvalidInput 类错误
func InvalidInput(message string) *Error {
	return &Error{Kind: ErrInvalidInput, Message: message}
}

// Message 提取可展示的错误信息；非业务错误返回空串
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return ""
}
