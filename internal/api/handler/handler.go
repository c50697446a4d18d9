package handler

import "github.com/Lukhanyo05/cooltech-credentials/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth       *AuthHandler
	Credential *CredentialHandler
	Division   *DivisionHandler
	User       *UserHandler
	Export     *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		Credential: NewCredentialHandler(svc.Credential),
		Division:   NewDivisionHandler(svc.Division),
		User:       NewUserHandler(svc.User),
		Export:     NewExportHandler(svc.User),
	}
}
