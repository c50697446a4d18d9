package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Lukhanyo05/cooltech-credentials/internal/model"
)

// DivisionRepository 部门数据访问接口
type DivisionRepository interface {
	Create(ctx context.Context, division *model.Division) error
	GetByID(ctx context.Context, id string) (*model.Division, error)
	GetByName(ctx context.Context, name string) (*model.Division, error)
	// List 全部部门（含组织单元），按名称排序
	List(ctx context.Context) ([]model.Division, error)
}

// divisionRepo DivisionRepository 的 GORM 实现
type divisionRepo struct {
	db *gorm.DB
}

// NewDivisionRepo 创建 DivisionRepository 实例
func NewDivisionRepo(db *gorm.DB) DivisionRepository {
	return &divisionRepo{db: db}
}

func (r *divisionRepo) Create(ctx context.Context, division *model.Division) error {
	return r.db.WithContext(ctx).Create(division).Error
}

func (r *divisionRepo) GetByID(ctx context.Context, id string) (*model.Division, error) {
	var division model.Division
	err := r.db.WithContext(ctx).
		Preload("OrganizationalUnit").
		Where("division_id = ?", id).
		First(&division).Error
	if err != nil {
		return nil, err
	}
	return &division, nil
}

func (r *divisionRepo) GetByName(ctx context.Context, name string) (*model.Division, error) {
	var division model.Division
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&division).Error
	if err != nil {
		return nil, err
	}
	return &division, nil
}

func (r *divisionRepo) List(ctx context.Context) ([]model.Division, error) {
	var divisions []model.Division
	err := r.db.WithContext(ctx).
		Preload("OrganizationalUnit").
		Order("name ASC").
		Find(&divisions).Error
	return divisions, err
}
