package handler

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Lukhanyo05/cooltech-credentials/internal/dto"
	"github.com/Lukhanyo05/cooltech-credentials/internal/model"
	"github.com/Lukhanyo05/cooltech-credentials/internal/policy"
	"github.com/Lukhanyo05/cooltech-credentials/internal/service"
	"github.com/Lukhanyo05/cooltech-credentials/pkg/response"
)

// UserHandler 用户管理（管理员）HTTP 处理器
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler 创建 UserHandler
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// ListUsers 全部用户及其成员关系
// GET /api/admin/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	result, err := h.userSvc.ListUsers(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, "success", result)
}

// ChangeRole 修改用户角色
// PUT /api/admin/users/:id/role
func (h *UserHandler) ChangeRole(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	userID, ok := pathID(c, "id", service.ErrUserNotFound)
	if !ok {
		return
	}

	var req dto.ChangeRoleRequest
	if !bindJSON(c, &req) {
		return
	}

	role := model.Role(strings.ToLower(strings.TrimSpace(req.Role)))
	result, err := h.userSvc.ChangeRole(c.Request.Context(), actor, userID, role)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, "User role updated successfully", result)
}

// ── 成员关系分配 ──

type membershipFunc func(ctx context.Context, actor policy.Actor, userID, targetID string) (*dto.UserResponse, error)

// membership 统一处理分配/取消分配请求
func (h *UserHandler) membership(c *gin.Context, fn membershipFunc, param string, notFound error, message string) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	userID, ok := pathID(c, "id", service.ErrUserNotFound)
	if !ok {
		return
	}
	targetID, ok := pathID(c, param, notFound)
	if !ok {
		return
	}

	result, err := fn(c.Request.Context(), actor, userID, targetID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, message, result)
}

// AssignDivision POST /api/admin/users/:id/divisions/:divisionId
func (h *UserHandler) AssignDivision(c *gin.Context) {
	h.membership(c, h.userSvc.AssignDivision, "divisionId", service.ErrDivisionNotFound, "User assigned to division successfully")
}

// UnassignDivision DELETE /api/admin/users/:id/divisions/:divisionId
func (h *UserHandler) UnassignDivision(c *gin.Context) {
	h.membership(c, h.userSvc.UnassignDivision, "divisionId", service.ErrDivisionNotFound, "User removed from division successfully")
}

// AssignOU POST /api/admin/users/:id/ous/:ouId
func (h *UserHandler) AssignOU(c *gin.Context) {
	h.membership(c, h.userSvc.AssignOU, "ouId", service.ErrOUNotFound, "User assigned to organizational unit successfully")
}

// UnassignOU DELETE /api/admin/users/:id/ous/:ouId
func (h *UserHandler) UnassignOU(c *gin.Context) {
	h.membership(c, h.userSvc.UnassignOU, "ouId", service.ErrOUNotFound, "User removed from organizational unit successfully")
}
