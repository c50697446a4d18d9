package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Lukhanyo05/cooltech-credentials/internal/dto"
	"github.com/Lukhanyo05/cooltech-credentials/internal/service"
	"github.com/Lukhanyo05/cooltech-credentials/pkg/response"
)

// CredentialHandler 凭据模块 HTTP 处理器
type CredentialHandler struct {
	credentialSvc service.CredentialService
}

// NewCredentialHandler 创建 CredentialHandler
func NewCredentialHandler(credentialSvc service.CredentialService) *CredentialHandler {
	return &CredentialHandler{credentialSvc: credentialSvc}
}

// MyCredentials 当前用户可见的全部凭据
// GET /api/credentials/my-credentials
func (h *CredentialHandler) MyCredentials(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	result, err := h.credentialSvc.ListMine(c.Request.Context(), actor)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, "success", result)
}

// ListByDivision 单个部门的凭据
// GET /api/credentials/division/:id
func (h *CredentialHandler) ListByDivision(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	divisionID, ok := pathID(c, "id", service.ErrDivisionNotFound)
	if !ok {
		return
	}

	result, err := h.credentialSvc.ListByDivision(c.Request.Context(), actor, divisionID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, "success", result)
}

// Create 创建凭据
// POST /api/credentials
func (h *CredentialHandler) Create(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.CreateCredentialRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.credentialSvc.Create(c.Request.Context(), actor, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Created(c, "Credential added successfully", result)
}

// Update 部分更新凭据
// PUT /api/credentials/:id
func (h *CredentialHandler) Update(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	id, ok := pathID(c, "id", service.ErrCredentialNotFound)
	if !ok {
		return
	}

	var req dto.UpdateCredentialRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.credentialSvc.Update(c.Request.Context(), actor, id, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, "Credential updated successfully", result)
}

// Delete 删除凭据
// DELETE /api/credentials/:id
func (h *CredentialHandler) Delete(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	id, ok := pathID(c, "id", service.ErrCredentialNotFound)
	if !ok {
		return
	}

	if err := h.credentialSvc.Delete(c.Request.Context(), actor, id); err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, "Credential deleted successfully", nil)
}
