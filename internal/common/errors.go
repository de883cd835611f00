package common

import (
	"errors"
	"fmt"
)

// AppError 应用级错误结构
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WrapError 包装错误
func WrapError(code, message string, err error) error {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewError 创建新错误
func NewError(code, message string) error {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// CodeOf 提取错误码；非 AppError 返回空串
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// IsCode 判断错误链上是否携带指定错误码
func IsCode(err error, code string) bool {
	return CodeOf(err) == code
}

// 错误码常量
const (
	ErrCodeQuotaLow      = "QUOTA_LOW"       // 本地余量低于水位线，拒绝发起搜索
	ErrCodeQuotaExceeded = "QUOTA_EXCEEDED"  // GitHub 返回 403，本会话停止搜索
	ErrCodeInvalidQuery  = "INVALID_QUERY"   // 422 或非法分类/参数
	ErrCodeTransient     = "TRANSIENT"       // 超时、网络错误、意外状态码
	ErrCodeNotConfigured = "NOT_CONFIGURED"  // 缺少凭据，降级运行
	ErrCodeAIProcessing  = "AI_PROCESSING_ERROR"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeInternal      = "INTERNAL_ERROR"
)
