package policy

import (
	"github.com/Lukhanyo05/cooltech-credentials/internal/model"
	apperrors "github.com/Lukhanyo05/cooltech-credentials/pkg/errors"
)

var (
	ErrDivisionAccessDenied = apperrors.Forbidden("Access denied to this division")
	ErrUpdateDenied         = apperrors.Forbidden("Insufficient permissions to update this credential")
	ErrDeleteDenied         = apperrors.Forbidden("Insufficient permissions to delete this credential")
	ErrAdminRequired        = apperrors.Forbidden("Access denied. Admin role required.")
	ErrSelfRoleChange       = apperrors.Validation("Cannot change your own role")
	ErrInvalidRole          = apperrors.Validation("Role must be one of user, manager, admin")
)

// CanListAll 管理员可列出全部凭据，其他角色仅限所属部门
func CanListAll(actor Actor) bool {
	return actor.IsAdmin()
}

// AuthorizeDivisionRead 读取单个部门的凭据
func AuthorizeDivisionRead(actor Actor, divisionID string) error {
	if actor.IsAdmin() || actor.InDivision(divisionID) {
		return nil
	}
	return ErrDivisionAccessDenied
}

// AuthorizeCreate 在部门下创建凭据；部门是否存在由调用方先行校验
func AuthorizeCreate(actor Actor, divisionID string) error {
	return AuthorizeDivisionRead(actor, divisionID)
}

// AuthorizeUpdate 更新凭据：admin/manager 或创建者，且非管理员须属于凭据所在部门
func AuthorizeUpdate(actor Actor, res Resource) error {
	canUpdate := actor.Role == model.RoleAdmin ||
		actor.Role == model.RoleManager ||
		res.CreatedBy == actor.UserID
	if !canUpdate {
		return ErrUpdateDenied
	}
	if !actor.IsAdmin() && !actor.InDivision(res.DivisionID) {
		return ErrDivisionAccessDenied
	}
	return nil
}

// AuthorizeDelete 删除凭据：admin 或创建者，且非管理员须属于凭据所在部门
func AuthorizeDelete(actor Actor, res Resource) error {
	if !actor.IsAdmin() && res.CreatedBy != actor.UserID {
		return ErrDeleteDenied
	}
	if !actor.IsAdmin() && !actor.InDivision(res.DivisionID) {
		return ErrDivisionAccessDenied
	}
	return nil
}

// RevealPassword 仅管理员可见明文密码
func RevealPassword(actor Actor) bool {
	return actor.IsAdmin()
}

// AuthorizeRoleChange 修改角色：仅管理员，不可修改自己，目标角色必须合法
func AuthorizeRoleChange(actor Actor, targetUserID string, newRole model.Role) error {
	if !actor.IsAdmin() {
		return ErrAdminRequired
	}
	if targetUserID == actor.UserID {
		return ErrSelfRoleChange
	}
	if !newRole.Valid() {
		return ErrInvalidRole
	}
	return nil
}

// AuthorizeMembershipChange 部门/组织单元分配：仅管理员
func AuthorizeMembershipChange(actor Actor) error {
	if !actor.IsAdmin() {
		return ErrAdminRequired
	}
	return nil
}
