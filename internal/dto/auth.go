package dto

import (
	"encoding/json"
	"strings"
)

// ── 认证模块 DTO ──

// RegisterRequest 自助注册请求
type RegisterRequest struct {
	Name     string `json:"name"     binding:"required,min=3,max=100"`
	Username string `json:"username" binding:"required,min=3,max=50,excludes=@"`
	Email    string `json:"email"    binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

// UnmarshalJSON 解码后立即规范化，长度校验针对去空白后的值
func (r *RegisterRequest) UnmarshalJSON(b []byte) error {
	type plain RegisterRequest
	var v plain
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*r = RegisterRequest(v)
	r.Normalize()
	return nil
}

// Normalize 去除首尾空白，用户名与邮箱统一小写
func (r *RegisterRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Username = strings.ToLower(strings.TrimSpace(r.Username))
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

// ValidateProfile 按注册规则校验姓名、用户名与邮箱（不含密码）
func (r *RegisterRequest) ValidateProfile() error {
	return Validator().StructExcept(r, "Password")
}

// LoginRequest 登录请求；login 与 email 二选一，含 "@" 视为邮箱
type LoginRequest struct {
	Login    string `json:"login"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Identifier 返回登录标识（小写）
func (r *LoginRequest) Identifier() string {
	id := r.Login
	if id == "" {
		id = r.Email
	}
	return strings.ToLower(strings.TrimSpace(id))
}

// IsEmail 登录标识是否为邮箱
func (r *LoginRequest) IsEmail() bool {
	return strings.Contains(r.Identifier(), "@")
}

// AuthResponse 注册/登录成功响应
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresIn int          `json:"expires_in"` // 秒
	User      UserResponse `json:"user"`
}
