package service

import "errors"

type ErrorCode string

const (
	ErrorCodeValidation ErrorCode = "validation"
	ErrorCodeNotFound   ErrorCode = "not_found"
	ErrorCodeInternal   ErrorCode = "internal"
)

// ServiceError 业务层错误；Message 可直接返回给客户端，Cause 仅用于服务端日志
type ServiceError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *ServiceError) Error() string {
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Cause
}

func NewServiceError(code ErrorCode, message string) error {
	return &ServiceError{Code: code, Message: message}
}

func NewValidationError(message string) error {
	return NewServiceError(ErrorCodeValidation, message)
}

func NewNotFoundError(message string) error {
	return NewServiceError(ErrorCodeNotFound, message)
}

// WrapInternalError 包装底层错误为内部错误，客户端只会看到 message
func WrapInternalError(message string, cause error) error {
	return &ServiceError{Code: ErrorCodeInternal, Message: message, Cause: cause}
}

func AsServiceError(err error) (*ServiceError, bool) {
	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) {
		return serviceErr, true
	}
	return nil, false
}
