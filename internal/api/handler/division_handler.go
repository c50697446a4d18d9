package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Lukhanyo05/cooltech-credentials/internal/service"
	"github.com/Lukhanyo05/cooltech-credentials/pkg/response"
)

// DivisionHandler 部门/组织单元 HTTP 处理器
type DivisionHandler struct {
	divisionSvc service.DivisionService
}

// NewDivisionHandler 创建 DivisionHandler
func NewDivisionHandler(divisionSvc service.DivisionService) *DivisionHandler {
	return &DivisionHandler{divisionSvc: divisionSvc}
}

// ListDivisions 全部部门（含所属组织单元）
// GET /api/divisions, GET /api/admin/divisions
func (h *DivisionHandler) ListDivisions(c *gin.Context) {
	result, err := h.divisionSvc.ListDivisions(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, "success", result)
}

// ListOUs 全部组织单元（含下属部门）
// GET /api/admin/ous
func (h *DivisionHandler) ListOUs(c *gin.Context) {
	result, err := h.divisionSvc.ListOUs(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, "success", result)
}

// MyDivisions 当前用户所属部门与组织单元
// GET /api/divisions/my-divisions
func (h *DivisionHandler) MyDivisions(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.divisionSvc.MyDivisions(c.Request.Context(), userID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, "success", result)
}
