package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Lukhanyo05/cooltech-credentials/internal/model"
	apperrors "github.com/Lukhanyo05/cooltech-credentials/pkg/errors"
)

// ErrAlreadyMember 关系已存在（重复分配）
var ErrAlreadyMember = errors.New("membership already exists")

// MembershipRepository 用户与部门/组织单元的成员关系
//
// 关系只存在于 user_divisions / user_organizational_units 的一行中，
// 因而 User.divisions 与 Division.users 始终对称。
type MembershipRepository interface {
	// AssignDivision 在事务内锁定用户行后写入关系；已存在返回 ErrAlreadyMember
	AssignDivision(ctx context.Context, userID, divisionID string) error
	// UnassignDivision 删除关系；关系不存在时无操作
	UnassignDivision(ctx context.Context, userID, divisionID string) error
	AssignOU(ctx context.Context, userID, ouID string) error
	UnassignOU(ctx context.Context, userID, ouID string) error
	// DivisionIDs 用户所属的部门 ID
	DivisionIDs(ctx context.Context, userID string) ([]string, error)
}

// membershipRepo MembershipRepository 的 GORM 实现
type membershipRepo struct {
	db *gorm.DB
}

// NewMembershipRepo 创建 MembershipRepository 实例
func NewMembershipRepo(db *gorm.DB) MembershipRepository {
	return &membershipRepo{db: db}
}

func (r *membershipRepo) AssignDivision(ctx context.Context, userID, divisionID string) error {
	return r.assign(ctx, userID, &model.Division{}, "division_id", divisionID,
		&model.UserDivision{UserID: userID, DivisionID: divisionID})
}

func (r *membershipRepo) AssignOU(ctx context.Context, userID, ouID string) error {
	return r.assign(ctx, userID, &model.OrganizationalUnit{}, "ou_id", ouID,
		&model.UserOrganizationalUnit{UserID: userID, OUID: ouID})
}

// assign 锁定用户行 → 校验目标存在 → 检查重复 → 插入关系行
// target 为目标表模型，column 为目标主键列（同时是关系表中的列名）
func (r *membershipRepo) assign(ctx context.Context, userID string, target interface{}, column, targetID string, link interface{}) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("user_id").
			Where("user_id = ?", userID).
			First(&user).Error; err != nil {
			return err
		}

		var count int64
		if err := tx.Model(target).
			Where(column+" = ?", targetID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Model(link).
			Where("user_id = ? AND "+column+" = ?", userID, targetID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyMember
		}

		return tx.Create(link).Error
	})
	if apperrors.IsUniqueViolation(err) {
		return ErrAlreadyMember
	}
	return err
}

func (r *membershipRepo) UnassignDivision(ctx context.Context, userID, divisionID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND division_id = ?", userID, divisionID).
		Delete(&model.UserDivision{}).Error
}

func (r *membershipRepo) UnassignOU(ctx context.Context, userID, ouID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND ou_id = ?", userID, ouID).
		Delete(&model.UserOrganizationalUnit{}).Error
}

func (r *membershipRepo) DivisionIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.UserDivision{}).
		Where("user_id = ?", userID).
		Pluck("division_id", &ids).Error
	return ids, err
}
