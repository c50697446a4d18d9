package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Lukhanyo05/cooltech-credentials/config"
	"github.com/Lukhanyo05/cooltech-credentials/internal/dto"
	"github.com/Lukhanyo05/cooltech-credentials/internal/model"
	"github.com/Lukhanyo05/cooltech-credentials/internal/policy"
	"github.com/Lukhanyo05/cooltech-credentials/internal/repository"
	"github.com/Lukhanyo05/cooltech-credentials/pkg/cryptox"
)

// CredentialService 凭据业务接口
// 所有方法的授权依据 policy 包；非管理员看到的 password 一律为占位符
type CredentialService interface {
	// ListMine 管理员返回全部凭据，其他角色返回所属部门的凭据
	ListMine(ctx context.Context, actor policy.Actor) ([]dto.CredentialResponse, error)
	ListByDivision(ctx context.Context, actor policy.Actor, divisionID string) ([]dto.CredentialResponse, error)
	Create(ctx context.Context, actor policy.Actor, req *dto.CreateCredentialRequest) (*dto.CredentialResponse, error)
	Update(ctx context.Context, actor policy.Actor, id string, req *dto.UpdateCredentialRequest) (*dto.CredentialResponse, error)
	Delete(ctx context.Context, actor policy.Actor, id string) error
}

type credentialService struct {
	repo   *repository.Repository
	sealer cryptox.Sealer
	mask   string
	logger *zap.Logger
}

// NewCredentialService 创建 CredentialService 实例
func NewCredentialService(cfg *config.Config, repo *repository.Repository, sealer cryptox.Sealer, logger *zap.Logger) CredentialService {
	if sealer == nil {
		sealer = cryptox.Plaintext{}
	}
	return &credentialService{
		repo:   repo,
		sealer: sealer,
		mask:   cfg.Vault.PasswordMask,
		logger: logger,
	}
}

// ────────────────────── List ──────────────────────

func (s *credentialService) ListMine(ctx context.Context, actor policy.Actor) ([]dto.CredentialResponse, error) {
	var (
		creds []model.Credential
		err   error
	)
	if policy.CanListAll(actor) {
		creds, err = s.repo.Credential.ListAll(ctx)
	} else {
		creds, err = s.repo.Credential.ListByDivisions(ctx, actor.Divisions.IDs())
	}
	if err != nil {
		s.logger.Error("列出凭据失败", zap.String("user_id", actor.UserID), zap.Error(err))
		return nil, err
	}
	return s.toResponses(actor, creds)
}

func (s *credentialService) ListByDivision(ctx context.Context, actor policy.Actor, divisionID string) ([]dto.CredentialResponse, error) {
	if err := policy.AuthorizeDivisionRead(actor, divisionID); err != nil {
		return nil, err
	}

	creds, err := s.repo.Credential.ListByDivisions(ctx, []string{divisionID})
	if err != nil {
		s.logger.Error("列出部门凭据失败", zap.String("division_id", divisionID), zap.Error(err))
		return nil, err
	}
	return s.toResponses(actor, creds)
}

// ────────────────────── Create ──────────────────────

func (s *credentialService) Create(ctx context.Context, actor policy.Actor, req *dto.CreateCredentialRequest) (*dto.CredentialResponse, error) {
	// 先确认部门存在（404），再校验成员关系（403）
	if _, err := s.repo.Division.GetByID(ctx, req.Division); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDivisionNotFound
		}
		s.logger.Error("查询部门失败", zap.String("division_id", req.Division), zap.Error(err))
		return nil, err
	}
	if err := policy.AuthorizeCreate(actor, req.Division); err != nil {
		return nil, err
	}

	sealed, err := s.sealer.Seal(req.Password)
	if err != nil {
		s.logger.Error("加密凭据密码失败", zap.Error(err))
		return nil, err
	}

	cred := &model.Credential{
		Title:       req.Title,
		Website:     req.Website,
		Username:    req.Username,
		Password:    sealed,
		Description: req.Description,
		DivisionID:  req.Division,
		CreatedBy:   actor.UserID,
	}
	if err := s.repo.Credential.Create(ctx, cred); err != nil {
		s.logger.Error("创建凭据失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("凭据已创建",
		zap.String("credential_id", cred.CredentialID),
		zap.String("division_id", cred.DivisionID),
		zap.String("user_id", actor.UserID),
	)

	return s.reload(ctx, actor, cred.CredentialID)
}

// ────────────────────── Update ──────────────────────

func (s *credentialService) Update(ctx context.Context, actor policy.Actor, id string, req *dto.UpdateCredentialRequest) (*dto.CredentialResponse, error) {
	cred, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	res := policy.Resource{CreatedBy: cred.CreatedBy, DivisionID: cred.DivisionID}
	if err := policy.AuthorizeUpdate(actor, res); err != nil {
		return nil, err
	}
	if req.Division != nil && *req.Division != cred.DivisionID {
		return nil, ErrDivisionImmutable
	}

	upd := repository.CredentialUpdate{
		Title:       req.Title,
		Website:     req.Website,
		Username:    req.Username,
		Description: req.Description,
	}
	if req.Password != nil {
		sealed, err := s.sealer.Seal(*req.Password)
		if err != nil {
			s.logger.Error("加密凭据密码失败", zap.Error(err))
			return nil, err
		}
		upd.Password = &sealed
	}

	if err := s.repo.Credential.Update(ctx, id, upd, actor.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCredentialNotFound
		}
		s.logger.Error("更新凭据失败", zap.String("credential_id", id), zap.Error(err))
		return nil, err
	}

	return s.reload(ctx, actor, id)
}

// ────────────────────── Delete ──────────────────────

func (s *credentialService) Delete(ctx context.Context, actor policy.Actor, id string) error {
	cred, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	res := policy.Resource{CreatedBy: cred.CreatedBy, DivisionID: cred.DivisionID}
	if err := policy.AuthorizeDelete(actor, res); err != nil {
		return err
	}

	if err := s.repo.Credential.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCredentialNotFound
		}
		s.logger.Error("删除凭据失败", zap.String("credential_id", id), zap.Error(err))
		return err
	}

	s.logger.Info("凭据已删除", zap.String("credential_id", id), zap.String("user_id", actor.UserID))
	return nil
}

// ── 内部辅助方法 ──

func (s *credentialService) get(ctx context.Context, id string) (*model.Credential, error) {
	cred, err := s.repo.Credential.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCredentialNotFound
		}
		s.logger.Error("查询凭据失败", zap.String("credential_id", id), zap.Error(err))
		return nil, err
	}
	return cred, nil
}

// reload 写入后重新加载关联（部门、创建者、更新者）
func (s *credentialService) reload(ctx context.Context, actor policy.Actor, id string) (*dto.CredentialResponse, error) {
	cred, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	resp, err := s.toResponse(actor, cred)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *credentialService) toResponses(actor policy.Actor, creds []model.Credential) ([]dto.CredentialResponse, error) {
	out := make([]dto.CredentialResponse, 0, len(creds))
	for i := range creds {
		resp, err := s.toResponse(actor, &creds[i])
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, nil
}

// toResponse 仅在管理员可见时解密
func (s *credentialService) toResponse(actor policy.Actor, cred *model.Credential) (dto.CredentialResponse, error) {
	password := s.mask
	if policy.RevealPassword(actor) {
		plain, err := s.sealer.Open(cred.Password)
		if err != nil {
			s.logger.Error("解密凭据密码失败", zap.String("credential_id", cred.CredentialID), zap.Error(err))
			return dto.CredentialResponse{}, err
		}
		password = plain
	}
	return dto.NewCredentialResponse(cred, password), nil
}
