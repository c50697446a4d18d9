package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/Lukhanyo05/cooltech-credentials/pkg/errors"
)

// Response 统一响应结构
// 错误响应始终包含 message，字段校验失败时附带 errors
type Response struct {
	Code    int                    `json:"code"`
	Message string                 `json:"message"`
	Data    interface{}            `json:"data,omitempty"`
	Errors  []apperrors.FieldError `json:"errors,omitempty"`
}

// ── 业务错误码 ──

const (
	CodeOK              = 0
	CodeValidation      = 10001
	CodeUnauthenticated = 10002
	CodeForbidden       = 10003
	CodeRateLimited     = 10004
	CodeBodyTooLarge    = 10005
	CodeNotFound        = 10006
	CodeConflict        = 10007
	CodeInternal        = 50000
)

// ── 成功响应 ──

// OK 200 成功响应
func OK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{Code: CodeOK, Message: message, Data: data})
}

// Created 201 创建成功
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Response{Code: CodeOK, Message: message, Data: data})
}

// ── 错误响应 ──

// Error 通用错误响应
func Error(c *gin.Context, httpStatus int, code int, message string) {
	c.JSON(httpStatus, Response{Code: code, Message: message})
}

// BadRequest 400
func BadRequest(c *gin.Context, message string, fields ...apperrors.FieldError) {
	c.JSON(http.StatusBadRequest, Response{Code: CodeValidation, Message: message, Errors: fields})
}

// Unauthorized 401
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, CodeUnauthenticated, message)
}

// Forbidden 403
func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, CodeForbidden, message)
}

// NotFound 404
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, CodeNotFound, message)
}

// InternalError 500，不向客户端透出内部错误信息
func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, CodeInternal, "server error")
}

// FromError 按业务错误分类写入响应
// 非业务错误统一返回 500，并记录到 gin 上下文供日志中间件输出
func FromError(c *gin.Context, err error) {
	e, ok := apperrors.As(err)
	if !ok {
		_ = c.Error(err)
		InternalError(c)
		return
	}

	switch e.Kind {
	case apperrors.KindValidation:
		BadRequest(c, e.Message, e.Fields...)
	case apperrors.KindConflict:
		Error(c, http.StatusBadRequest, CodeConflict, e.Message)
	case apperrors.KindAuthentication:
		Unauthorized(c, e.Message)
	case apperrors.KindAuthorization:
		Forbidden(c, e.Message)
	case apperrors.KindNotFound:
		NotFound(c, e.Message)
	default:
		_ = c.Error(err)
		InternalError(c)
	}
}
