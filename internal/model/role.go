package model

// Role 用户角色，唯一的权限等级；不存在按部门区分的角色
type Role string

const (
	RoleUser    Role = "user"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

// Roles 全部合法角色
var Roles = []Role{RoleUser, RoleManager, RoleAdmin}

// Valid 是否为合法角色
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleManager, RoleAdmin:
		return true
	}
	return false
}
