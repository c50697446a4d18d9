package dto

// ── 用户管理（管理员）DTO ──

// ChangeRoleRequest 修改角色请求；合法性由授权规则校验
type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// ImportUserResponse 批量导入用户响应
type ImportUserResponse struct {
	Total   int               `json:"total"`
	Success int               `json:"success"`
	Failed  int               `json:"failed"`
	Created []ImportedUser    `json:"created,omitempty"`
	Errors  []ImportUserError `json:"errors,omitempty"`
}

// ImportedUser 导入成功的用户及其临时密码（仅此一次返回）
type ImportedUser struct {
	Row          int    `json:"row"`
	ID           string `json:"id"`
	Username     string `json:"username"`
	TempPassword string `json:"temp_password"`
}

// ImportUserError 导入错误详情
type ImportUserError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}
