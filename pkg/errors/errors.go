package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Kind 业务错误分类，决定 HTTP 状态码
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// FieldError 单个字段的校验错误
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error 带分类的业务错误。
// 同一个 *Error 变量可作为哨兵错误，配合 errors.Is 使用。
type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
}

func (e *Error) Error() string { return e.Message }

func newError(kind Kind, format string, args ...any) *Error {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &Error{Kind: kind, Message: msg}
}

// Validation 400 参数错误
func Validation(format string, args ...any) *Error {
	return newError(KindValidation, format, args...)
}

// ValidationFields 400 参数错误（附字段明细）
func ValidationFields(message string, fields []FieldError) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// Unauthenticated 401
func Unauthenticated(format string, args ...any) *Error {
	return newError(KindAuthentication, format, args...)
}

// Forbidden 403
func Forbidden(format string, args ...any) *Error {
	return newError(KindAuthorization, format, args...)
}

// NotFound 404
func NotFound(format string, args ...any) *Error {
	return newError(KindNotFound, format, args...)
}

// Conflict 重复/已存在，对外按 400 返回
func Conflict(format string, args ...any) *Error {
	return newError(KindConflict, format, args...)
}

// KindOf 返回错误链中第一个 *Error 的分类；非业务错误视为 KindInternal
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// As 取出错误链中的 *Error
func As(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// ── PostgreSQL 错误识别 ──

const pgUniqueViolation = "23505"

// IsUniqueViolation 判断是否为唯一约束冲突
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
