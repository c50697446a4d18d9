package dto

import (
	"time"

	"github.com/Lukhanyo05/cooltech-credentials/internal/model"
)

// ── 关联对象摘要 ──

// DivisionSummary 部门摘要 {id, name, description}
type DivisionSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// OrganizationalUnitSummary 组织单元摘要
type OrganizationalUnitSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// UserSummary 用户摘要 {id, name, email}
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ── 用户 ──

// UserResponse 用户信息（不含密码哈希）
type UserResponse struct {
	ID                  string                      `json:"id"`
	Name                string                      `json:"name"`
	Username            string                      `json:"username"`
	Email               string                      `json:"email"`
	Role                string                      `json:"role"`
	Divisions           []DivisionSummary           `json:"divisions"`
	OrganizationalUnits []OrganizationalUnitSummary `json:"organizational_units"`
	CreatedAt           time.Time                   `json:"created_at"`
}

// ── 转换函数 ──

// NewDivisionSummary 由模型构建摘要
func NewDivisionSummary(d *model.Division) *DivisionSummary {
	if d == nil {
		return nil
	}
	return &DivisionSummary{ID: d.DivisionID, Name: d.Name, Description: d.Description}
}

// NewUserSummary 由模型构建摘要
func NewUserSummary(u *model.User) *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{ID: u.UserID, Name: u.Name, Email: u.Email}
}

// NewUserResponse 由模型构建用户响应，部门/组织单元为空时返回空数组
func NewUserResponse(u *model.User) UserResponse {
	resp := UserResponse{
		ID:                  u.UserID,
		Name:                u.Name,
		Username:            u.Username,
		Email:               u.Email,
		Role:                string(u.Role),
		Divisions:           make([]DivisionSummary, 0, len(u.Divisions)),
		OrganizationalUnits: make([]OrganizationalUnitSummary, 0, len(u.OrganizationalUnits)),
		CreatedAt:           u.CreatedAt,
	}
	for i := range u.Divisions {
		resp.Divisions = append(resp.Divisions, *NewDivisionSummary(&u.Divisions[i]))
	}
	for _, ou := range u.OrganizationalUnits {
		resp.OrganizationalUnits = append(resp.OrganizationalUnits, OrganizationalUnitSummary{
			ID:          ou.OUID,
			Name:        ou.Name,
			Description: ou.Description,
		})
	}
	return resp
}
