package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Lukhanyo05/cooltech-credentials/internal/dto"
	"github.com/Lukhanyo05/cooltech-credentials/internal/repository"
)

// DivisionService 部门与组织单元查询
type DivisionService interface {
	// ListDivisions 全部部门（含组织单元）
	ListDivisions(ctx context.Context) ([]dto.DivisionResponse, error)
	// ListOUs 全部组织单元（含下属部门）
	ListOUs(ctx context.Context) ([]dto.OrganizationalUnitResponse, error)
	// MyDivisions 当前用户所属部门与组织单元
	MyDivisions(ctx context.Context, userID string) (*dto.MyDivisionsResponse, error)
}

type divisionService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDivisionService 创建 DivisionService 实例
func NewDivisionService(repo *repository.Repository, logger *zap.Logger) DivisionService {
	return &divisionService{repo: repo, logger: logger}
}

func (s *divisionService) ListDivisions(ctx context.Context) ([]dto.DivisionResponse, error) {
	divisions, err := s.repo.Division.List(ctx)
	if err != nil {
		s.logger.Error("列出部门失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.DivisionResponse, 0, len(divisions))
	for i := range divisions {
		result = append(result, dto.NewDivisionResponse(&divisions[i]))
	}
	return result, nil
}

func (s *divisionService) ListOUs(ctx context.Context) ([]dto.OrganizationalUnitResponse, error) {
	ous, err := s.repo.OrganizationalUnit.List(ctx)
	if err != nil {
		s.logger.Error("列出组织单元失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.OrganizationalUnitResponse, 0, len(ous))
	for i := range ous {
		result = append(result, dto.NewOrganizationalUnitResponse(&ous[i]))
	}
	return result, nil
}

func (s *divisionService) MyDivisions(ctx context.Context, userID string) (*dto.MyDivisionsResponse, error) {
	user, err := s.repo.User.GetWithMemberships(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户部门失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	profile := dto.NewUserResponse(user)
	resp := &dto.MyDivisionsResponse{
		Divisions:           make([]dto.DivisionResponse, 0, len(user.Divisions)),
		OrganizationalUnits: profile.OrganizationalUnits,
	}
	for i := range user.Divisions {
		resp.Divisions = append(resp.Divisions, dto.NewDivisionResponse(&user.Divisions[i]))
	}
	return resp, nil
}
