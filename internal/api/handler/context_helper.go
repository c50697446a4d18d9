package handler

import (
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/Lukhanyo05/cooltech-credentials/internal/dto"
	"github.com/Lukhanyo05/cooltech-credentials/internal/policy"
	apperrors "github.com/Lukhanyo05/cooltech-credentials/pkg/errors"
	"github.com/Lukhanyo05/cooltech-credentials/pkg/response"
)

// MustGetActor 从 Gin 上下文中提取 JWTAuth 注入的授权主体。
// 未注入时写入 401 响应，调用方应在 ok=false 时直接 return。
func MustGetActor(c *gin.Context) (policy.Actor, bool) {
	v, exists := c.Get("actor")
	actor, ok := v.(policy.Actor)
	if !exists || !ok || actor.UserID == "" {
		response.Unauthorized(c, "No token, authorization denied")
		return policy.Actor{}, false
	}
	return actor, true
}

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
func MustGetUserID(c *gin.Context) (string, bool) {
	if s := c.GetString("user_id"); s != "" {
		return s, true
	}
	response.Unauthorized(c, "No token, authorization denied")
	return "", false
}

// ── 请求体绑定 ──

var registerOnce sync.Once

// RegisterValidatorTags 让校验错误使用 JSON 字段名
func RegisterValidatorTags() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterTagNameFunc(dto.JSONFieldName)
		}
	})
}

// bindJSON 绑定并校验请求体；失败时已写入响应，返回 false
func bindJSON(c *gin.Context, obj interface{}) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		response.Error(c, http.StatusRequestEntityTooLarge, response.CodeBodyTooLarge, "Request body too large")
		return false
	}
	response.FromError(c, bindError(err))
	return false
}

// bindError 将 validator 错误转换为逐字段的 400 错误
func bindError(err error) error {
	fields, ok := dto.FieldErrors(err)
	if !ok {
		return apperrors.Validation("Invalid request body")
	}
	return apperrors.ValidationFields("Validation failed", fields)
}

// pathID 读取路径中的资源 ID 并规范化。
// 非 UUID 不可能对应任何记录，按 notFound 返回。
func pathID(c *gin.Context, name string, notFound error) (string, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.FromError(c, notFound)
		return "", false
	}
	return id.String(), true
}
