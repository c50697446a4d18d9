package client

import (
	"errors"
	"fmt"
	"net/http"
)

// FieldError 字段校验错误
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError 服务端返回的错误响应
type APIError struct {
	Status  int
	Code    int
	Message string
	Fields  []FieldError
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func statusIs(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// IsUnauthorized Token 缺失、无效或已吊销
func IsUnauthorized(err error) bool { return statusIs(err, http.StatusUnauthorized) }

// IsForbidden 权限不足
func IsForbidden(err error) bool { return statusIs(err, http.StatusForbidden) }

// IsNotFound 资源不存在
func IsNotFound(err error) bool { return statusIs(err, http.StatusNotFound) }
