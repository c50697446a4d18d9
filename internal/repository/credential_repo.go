package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Lukhanyo05/cooltech-credentials/internal/model"
)

// CredentialUpdate 凭据部分更新；nil 字段保持不变
type CredentialUpdate struct {
	Title       *string
	Website     *string
	Username    *string
	Password    *string
	Description *string
}

// CredentialRepository 凭据数据访问接口
type CredentialRepository interface {
	Create(ctx context.Context, cred *model.Credential) error
	// GetByID 返回凭据及部门、创建者、最后更新者
	GetByID(ctx context.Context, id string) (*model.Credential, error)
	// ListAll 全部凭据，按创建时间倒序
	ListAll(ctx context.Context) ([]model.Credential, error)
	// ListByDivisions 指定部门集合内的凭据，按创建时间倒序
	ListByDivisions(ctx context.Context, divisionIDs []string) ([]model.Credential, error)
	// Update 应用非 nil 字段并记录 last_updated_by
	Update(ctx context.Context, id string, upd CredentialUpdate, updatedBy string) error
	Delete(ctx context.Context, id string) error
}

// credentialRepo CredentialRepository 的 GORM 实现
type credentialRepo struct {
	db *gorm.DB
}

// NewCredentialRepo 创建 CredentialRepository 实例
func NewCredentialRepo(db *gorm.DB) CredentialRepository {
	return &credentialRepo{db: db}
}

func (r *credentialRepo) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Division").
		Preload("Creator").
		Preload("Updater")
}

func (r *credentialRepo) Create(ctx context.Context, cred *model.Credential) error {
	return r.db.WithContext(ctx).Create(cred).Error
}

func (r *credentialRepo) GetByID(ctx context.Context, id string) (*model.Credential, error) {
	var cred model.Credential
	err := r.withRelations(ctx).
		Where("credential_id = ?", id).
		First(&cred).Error
	if err != nil {
		return nil, err
	}
	return &cred, nil
}

func (r *credentialRepo) ListAll(ctx context.Context) ([]model.Credential, error) {
	var creds []model.Credential
	err := r.withRelations(ctx).
		Order("created_at DESC").
		Find(&creds).Error
	return creds, err
}

func (r *credentialRepo) ListByDivisions(ctx context.Context, divisionIDs []string) ([]model.Credential, error) {
	if len(divisionIDs) == 0 {
		return []model.Credential{}, nil
	}
	var creds []model.Credential
	err := r.withRelations(ctx).
		Where("division_id IN ?", divisionIDs).
		Order("created_at DESC").
		Find(&creds).Error
	return creds, err
}

func (r *credentialRepo) Update(ctx context.Context, id string, upd CredentialUpdate, updatedBy string) error {
	fields := map[string]interface{}{
		"last_updated_by": updatedBy,
		"updated_at":      gorm.Expr("NOW()"),
	}
	set := func(column string, v *string) {
		if v != nil {
			fields[column] = *v
		}
	}
	set("title", upd.Title)
	set("website", upd.Website)
	set("username", upd.Username)
	set("password", upd.Password)
	set("description", upd.Description)

	result := r.db.WithContext(ctx).
		Model(&model.Credential{}).
		Where("credential_id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *credentialRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("credential_id = ?", id).
		Delete(&model.Credential{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
