package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Lukhanyo05/cooltech-credentials/config"
	"github.com/Lukhanyo05/cooltech-credentials/internal/repository"
	"github.com/Lukhanyo05/cooltech-credentials/pkg/cryptox"
	"github.com/Lukhanyo05/cooltech-credentials/pkg/jwt"
)

// TokenBlacklist 登出时吊销 Token
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
}

// Service 所有 Service 的聚合入口
type Service struct {
	Auth       AuthService
	Credential CredentialService
	User       UserService
	Division   DivisionService
}

// NewService 创建 Service 聚合
// blacklist 可为 nil（未启用 Redis）
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	sealer cryptox.Sealer,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:       NewAuthService(cfg, repo, jwtMgr, blacklist, logger),
		Credential: NewCredentialService(cfg, repo, sealer, logger),
		User:       NewUserService(repo, logger),
		Division:   NewDivisionService(repo, logger),
	}
}
