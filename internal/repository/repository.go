package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	User               UserRepository
	Division           DivisionRepository
	OrganizationalUnit OrganizationalUnitRepository
	Credential         CredentialRepository
	Membership         MembershipRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:                 db,
		User:               NewUserRepo(db),
		Division:           NewDivisionRepo(db),
		OrganizationalUnit: NewOrganizationalUnitRepo(db),
		Credential:         NewCredentialRepo(db),
		Membership:         NewMembershipRepo(db),
	}
}

// Transaction 在同一事务内执行 fn，fn 收到的聚合全部绑定该事务
// fn 返回错误时回滚
func (r *Repository) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

// resetOrder 按外键依赖排列，子表在前
var resetOrder = []string{
	"credentials",
	"user_divisions",
	"user_organizational_units",
	"users",
	"divisions",
	"organizational_units",
}

// Reset 清空全部业务数据，仅供 seed 工具使用
func (r *Repository) Reset(ctx context.Context) error {
	return r.Transaction(ctx, func(tx *Repository) error {
		for _, table := range resetOrder {
			if err := tx.db.WithContext(ctx).Exec(fmt.Sprintf("DELETE FROM %q", table)).Error; err != nil {
				return fmt.Errorf("清空 %s 失败: %w", table, err)
			}
		}
		return nil
	})
}
