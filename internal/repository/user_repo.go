package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Lukhanyo05/cooltech-credentials/internal/model"
)

// UserRepository 用户数据访问接口
type UserRepository interface {
	// CreateWithMemberships 在一个事务内创建用户并写入部门/组织单元关系
	CreateWithMemberships(ctx context.Context, user *model.User, divisionIDs, ouIDs []string) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	// GetWithMemberships 加载用户及其部门（含所属组织单元）与组织单元
	GetWithMemberships(ctx context.Context, id string) (*model.User, error)
	// ListWithMemberships 列出全部用户，按创建时间倒序
	ListWithMemberships(ctx context.Context) ([]model.User, error)
	ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error)
	UpdateRole(ctx context.Context, id string, role model.Role) error
}

// userRepo UserRepository 的 GORM 实现
type userRepo struct {
	db *gorm.DB
}

// NewUserRepo 创建 UserRepository 实例
func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) CreateWithMemberships(ctx context.Context, user *model.User, divisionIDs, ouIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		for _, id := range divisionIDs {
			row := model.UserDivision{UserID: user.UserID, DivisionID: id}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		for _, id := range ouIDs {
			row := model.UserOrganizationalUnit{UserID: user.UserID, OUID: id}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.first(ctx, "user_id = ?", id)
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *userRepo) first(ctx context.Context, query string, arg string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where(query, arg).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetWithMemberships(ctx context.Context, id string) (*model.User, error) {
	user, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	users := []model.User{*user}
	if err := r.attachMemberships(ctx, users); err != nil {
		return nil, err
	}
	return &users[0], nil
}

func (r *userRepo) ListWithMemberships(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&users).Error; err != nil {
		return nil, err
	}
	if err := r.attachMemberships(ctx, users); err != nil {
		return nil, err
	}
	return users, nil
}

// attachMemberships 批量加载关系表，避免逐个用户查询
func (r *userRepo) attachMemberships(ctx context.Context, users []model.User) error {
	if len(users) == 0 {
		return nil
	}
	index := make(map[string]int, len(users))
	ids := make([]string, len(users))
	for i, u := range users {
		index[u.UserID] = i
		ids[i] = u.UserID
	}

	// ── 部门 ──
	var divLinks []model.UserDivision
	if err := r.db.WithContext(ctx).
		Where("user_id IN ?", ids).
		Find(&divLinks).Error; err != nil {
		return err
	}
	if len(divLinks) > 0 {
		divIDs := make([]string, 0, len(divLinks))
		for _, l := range divLinks {
			divIDs = append(divIDs, l.DivisionID)
		}
		var divisions []model.Division
		if err := r.db.WithContext(ctx).
			Preload("OrganizationalUnit").
			Where("division_id IN ?", divIDs).
			Order("name ASC").
			Find(&divisions).Error; err != nil {
			return err
		}
		members := groupLinks(divLinks, func(l model.UserDivision) (string, string) { return l.DivisionID, l.UserID })
		for _, d := range divisions {
			for _, uid := range members[d.DivisionID] {
				i := index[uid]
				users[i].Divisions = append(users[i].Divisions, d)
			}
		}
	}

	// ── 组织单元 ──
	var ouLinks []model.UserOrganizationalUnit
	if err := r.db.WithContext(ctx).
		Where("user_id IN ?", ids).
		Find(&ouLinks).Error; err != nil {
		return err
	}
	if len(ouLinks) > 0 {
		ouIDs := make([]string, 0, len(ouLinks))
		for _, l := range ouLinks {
			ouIDs = append(ouIDs, l.OUID)
		}
		var ous []model.OrganizationalUnit
		if err := r.db.WithContext(ctx).
			Where("ou_id IN ?", ouIDs).
			Order("name ASC").
			Find(&ous).Error; err != nil {
			return err
		}
		members := groupLinks(ouLinks, func(l model.UserOrganizationalUnit) (string, string) { return l.OUID, l.UserID })
		for _, ou := range ous {
			for _, uid := range members[ou.OUID] {
				i := index[uid]
				users[i].OrganizationalUnits = append(users[i].OrganizationalUnits, ou)
			}
		}
	}
	return nil
}

// groupLinks 关系行按目标 ID 分组，值为用户 ID 列表
func groupLinks[T any](links []T, key func(T) (target, userID string)) map[string][]string {
	out := make(map[string][]string)
	for _, l := range links {
		target, uid := key(l)
		out[target] = append(out[target], uid)
	}
	return out
}

func (r *userRepo) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("email = ? OR username = ?", email, username).
		Count(&count).Error
	return count > 0, err
}

func (r *userRepo) UpdateRole(ctx context.Context, id string, role model.Role) error {
	result := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("user_id = ?", id).
		Updates(map[string]interface{}{
			"role":       role,
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
