package dto

import (
	"time"

	"github.com/Lukhanyo05/cooltech-credentials/internal/model"
)

// ── 凭据模块 DTO ──

// CreateCredentialRequest 创建凭据请求
type CreateCredentialRequest struct {
	Title       string `json:"title"       binding:"required,max=200"`
	Website     string `json:"website"     binding:"required,max=500"`
	Username    string `json:"username"    binding:"required,max=255"`
	Password    string `json:"password"    binding:"required"`
	Description string `json:"description"`
	Division    string `json:"division"    binding:"required,uuid"`
}

// UpdateCredentialRequest 部分更新；nil 表示不修改，出现但为空返回 400
// Division 仅用于识别并拒绝修改部门
type UpdateCredentialRequest struct {
	Title       *string `json:"title"       binding:"omitempty,min=1,max=200"`
	Website     *string `json:"website"     binding:"omitempty,min=1,max=500"`
	Username    *string `json:"username"    binding:"omitempty,min=1,max=255"`
	Password    *string `json:"password"    binding:"omitempty,min=1"`
	Description *string `json:"description"`
	Division    *string `json:"division"`
}

// CredentialResponse 凭据响应；非管理员的 password 为占位符
type CredentialResponse struct {
	ID            string           `json:"id"`
	Title         string           `json:"title"`
	Website       string           `json:"website"`
	Username      string           `json:"username"`
	Password      string           `json:"password"`
	Description   string           `json:"description"`
	Division      *DivisionSummary `json:"division"`
	CreatedBy     *UserSummary     `json:"created_by"`
	LastUpdatedBy *UserSummary     `json:"last_updated_by"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// NewCredentialResponse 由模型构建响应，password 由调用方决定（明文或占位符）
func NewCredentialResponse(c *model.Credential, password string) CredentialResponse {
	return CredentialResponse{
		ID:            c.CredentialID,
		Title:         c.Title,
		Website:       c.Website,
		Username:      c.Username,
		Password:      password,
		Description:   c.Description,
		Division:      NewDivisionSummary(c.Division),
		CreatedBy:     NewUserSummary(c.Creator),
		LastUpdatedBy: NewUserSummary(c.Updater),
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}
