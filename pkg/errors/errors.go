package errors

import (
	"errors"
	"fmt"
)

// ValidationError 写入前的参数校验错误，与存储层错误严格区分：
// 返回 ValidationError 时保证尚未发起任何存储调用。
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidation 创建校验错误
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation 判断错误链中是否包含校验错误
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// AsValidation 提取错误链中的校验错误
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
