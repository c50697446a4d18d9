package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Lukhanyo05/cooltech-credentials/config"
	"github.com/Lukhanyo05/cooltech-credentials/internal/dto"
	"github.com/Lukhanyo05/cooltech-credentials/internal/model"
	"github.com/Lukhanyo05/cooltech-credentials/internal/policy"
	"github.com/Lukhanyo05/cooltech-credentials/internal/repository"
	apperrors "github.com/Lukhanyo05/cooltech-credentials/pkg/errors"
	"github.com/Lukhanyo05/cooltech-credentials/pkg/jwt"
)

// AuthService 认证业务接口
type AuthService interface {
	// Register 自助注册，自动加入默认部门与组织单元
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	// Login 邮箱或用户名登录
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	// Me 当前用户资料（含部门与组织单元）
	Me(ctx context.Context, userID string) (*dto.UserResponse, error)
	// Logout 吊销 Token 直至其自然过期
	Logout(ctx context.Context, jti string, expiresAt time.Time) error
	// ResolveActor 从存储加载角色与部门，构建授权主体
	ResolveActor(ctx context.Context, userID string) (policy.Actor, error)
}

type authService struct {
	cfg       *config.Config
	repo      *repository.Repository
	jwtMgr    *jwt.Manager
	blacklist TokenBlacklist
	logger    *zap.Logger
	hashCost  int
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:       cfg,
		repo:      repo,
		jwtMgr:    jwtMgr,
		blacklist: blacklist,
		logger:    logger,
		hashCost:  bcrypt.DefaultCost,
	}
}

// ────────────────────── Register ──────────────────────

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	req.Normalize()

	exists, err := s.repo.User.ExistsByEmailOrUsername(ctx, req.Email, req.Username)
	if err != nil {
		s.logger.Error("检查用户唯一性失败", zap.Error(err))
		return nil, err
	}
	if exists {
		return nil, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	// 默认部门/组织单元按名称查找，不存在则跳过
	var divisionIDs, ouIDs []string
	if name := s.cfg.Vault.DefaultDivision; name != "" {
		div, err := s.repo.Division.GetByName(ctx, name)
		switch {
		case err == nil:
			divisionIDs = append(divisionIDs, div.DivisionID)
		case errors.Is(err, gorm.ErrRecordNotFound):
			s.logger.Warn("默认部门不存在，跳过自动分配", zap.String("division", name))
		default:
			s.logger.Error("查询默认部门失败", zap.Error(err))
			return nil, err
		}
	}
	if name := s.cfg.Vault.DefaultOU; name != "" {
		ou, err := s.repo.OrganizationalUnit.GetByName(ctx, name)
		switch {
		case err == nil:
			ouIDs = append(ouIDs, ou.OUID)
		case errors.Is(err, gorm.ErrRecordNotFound):
			s.logger.Warn("默认组织单元不存在，跳过自动分配", zap.String("ou", name))
		default:
			s.logger.Error("查询默认组织单元失败", zap.Error(err))
			return nil, err
		}
	}

	user := &model.User{
		Name:         req.Name,
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         model.RoleUser,
	}
	if err := s.repo.User.CreateWithMemberships(ctx, user, divisionIDs, ouIDs); err != nil {
		// 并发注册同名用户
		if apperrors.IsUniqueViolation(err) {
			return nil, ErrUserExists
		}
		s.logger.Error("创建用户失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("用户注册成功",
		zap.String("user_id", user.UserID),
		zap.Int("divisions", len(divisionIDs)),
		zap.Int("ous", len(ouIDs)),
	)

	return s.issueToken(ctx, user.UserID)
}

// ────────────────────── Login ──────────────────────

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	identifier := req.Identifier()
	if identifier == "" || req.Password == "" {
		return nil, ErrLoginRequired
	}

	var (
		user *model.User
		err  error
	)
	if req.IsEmail() {
		user, err = s.repo.User.GetByEmail(ctx, identifier)
	} else {
		user, err = s.repo.User.GetByUsername(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueToken(ctx, user.UserID)
}

// issueToken 加载完整用户资料并签发 Token
func (s *authService) issueToken(ctx context.Context, userID string) (*dto.AuthResponse, error) {
	user, err := s.repo.User.GetWithMemberships(ctx, userID)
	if err != nil {
		s.logger.Error("加载用户资料失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	token, err := s.jwtMgr.GenerateToken(user.UserID, user.Email, user.Username)
	if err != nil {
		s.logger.Error("生成 Token 失败", zap.Error(err))
		return nil, err
	}

	return &dto.AuthResponse{
		Token:     token,
		ExpiresIn: int(s.jwtMgr.TTL().Seconds()),
		User:      dto.NewUserResponse(user),
	}, nil
}

// ────────────────────── Me ──────────────────────

func (s *authService) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetWithMemberships(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// ────────────────────── Logout ──────────────────────

func (s *authService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if s.blacklist == nil || jti == "" {
		return nil
	}
	if err := s.blacklist.BlacklistToken(ctx, jti, time.Until(expiresAt)); err != nil {
		s.logger.Error("Token 加入黑名单失败", zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── ResolveActor ──────────────────────

func (s *authService) ResolveActor(ctx context.Context, userID string) (policy.Actor, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return policy.Actor{}, ErrInvalidToken
		}
		s.logger.Error("加载用户失败", zap.String("user_id", userID), zap.Error(err))
		return policy.Actor{}, err
	}

	divisionIDs, err := s.repo.Membership.DivisionIDs(ctx, userID)
	if err != nil {
		s.logger.Error("加载用户部门失败", zap.String("user_id", userID), zap.Error(err))
		return policy.Actor{}, err
	}

	return policy.NewActor(user.UserID, user.Role, divisionIDs...), nil
}
