package handler

import (
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Lukhanyo05/cooltech-credentials/internal/service"
	"github.com/Lukhanyo05/cooltech-credentials/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler 用户 Excel 导入导出处理器
type ExportHandler struct {
	userSvc service.UserService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(userSvc service.UserService) *ExportHandler {
	return &ExportHandler{userSvc: userSvc}
}

// ExportUsers 导出用户及成员关系
// GET /api/admin/users/export
func (h *ExportHandler) ExportUsers(c *gin.Context) {
	buf, filename, err := h.userSvc.ExportUsers(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ImportUsers 批量导入用户（multipart 字段 file）
// POST /api/admin/users/import
func (h *ExportHandler) ImportUsers(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "Please upload an Excel file in the file field")
		return
	}
	if !strings.EqualFold(filepath.Ext(fh.Filename), ".xlsx") {
		response.BadRequest(c, "Only .xlsx files are supported")
		return
	}

	f, err := fh.Open()
	if err != nil {
		response.BadRequest(c, "Unable to read uploaded file")
		return
	}
	defer f.Close()

	rows, err := h.userSvc.ParseImportFile(f)
	if err != nil {
		response.FromError(c, err)
		return
	}

	result, err := h.userSvc.ImportUsers(c.Request.Context(), actor, rows)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, "Import finished", result)
}
