package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Lukhanyo05/cooltech-credentials/internal/model"
)

// OrganizationalUnitRepository 组织单元数据访问接口
type OrganizationalUnitRepository interface {
	Create(ctx context.Context, ou *model.OrganizationalUnit) error
	GetByID(ctx context.Context, id string) (*model.OrganizationalUnit, error)
	GetByName(ctx context.Context, name string) (*model.OrganizationalUnit, error)
	// List 全部组织单元（含下属部门），按名称排序
	List(ctx context.Context) ([]model.OrganizationalUnit, error)
}

// organizationalUnitRepo OrganizationalUnitRepository 的 GORM 实现
type organizationalUnitRepo struct {
	db *gorm.DB
}

// NewOrganizationalUnitRepo 创建 OrganizationalUnitRepository 实例
func NewOrganizationalUnitRepo(db *gorm.DB) OrganizationalUnitRepository {
	return &organizationalUnitRepo{db: db}
}

func (r *organizationalUnitRepo) Create(ctx context.Context, ou *model.OrganizationalUnit) error {
	return r.db.WithContext(ctx).Create(ou).Error
}

func (r *organizationalUnitRepo) GetByID(ctx context.Context, id string) (*model.OrganizationalUnit, error) {
	var ou model.OrganizationalUnit
	err := r.db.WithContext(ctx).
		Where("ou_id = ?", id).
		First(&ou).Error
	if err != nil {
		return nil, err
	}
	return &ou, nil
}

func (r *organizationalUnitRepo) GetByName(ctx context.Context, name string) (*model.OrganizationalUnit, error) {
	var ou model.OrganizationalUnit
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&ou).Error
	if err != nil {
		return nil, err
	}
	return &ou, nil
}

func (r *organizationalUnitRepo) List(ctx context.Context) ([]model.OrganizationalUnit, error) {
	var ous []model.OrganizationalUnit
	err := r.db.WithContext(ctx).
		Preload("Divisions", func(db *gorm.DB) *gorm.DB {
			return db.Order("name ASC")
		}).
		Order("name ASC").
		Find(&ous).Error
	return ous, err
}
