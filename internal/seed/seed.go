// Package seed 写入演示用组织结构与账号。
package seed

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Lukhanyo05/cooltech-credentials/internal/model"
	"github.com/Lukhanyo05/cooltech-credentials/internal/repository"
)

// OU 组织单元
type OU struct {
	Name        string
	Description string
}

// Division 部门，OU 为所属组织单元名称
type Division struct {
	Name        string
	Description string
	OU          string
}

// User 演示账号，Divisions/OUs 为名称列表
type User struct {
	Name      string
	Username  string
	Email     string
	Role      model.Role
	Divisions []string
	OUs       []string
}

// Dataset 一次写入的全部数据
type Dataset struct {
	OUs       []OU
	Divisions []Division
	Users     []User
}

// Default 4 个组织单元、6 个部门、每种角色一个账号
func Default() Dataset {
	ds := Dataset{
		OUs: []OU{
			{"News Management", "Handles news content and publications"},
			{"Software Reviews", "Software testing and review division"},
			{"Hardware Reviews", "Hardware testing and review division"},
			{"Opinion Publishing", "Opinion pieces and editorial content"},
		},
		Divisions: []Division{
			{"IT Division", "Technical infrastructure and systems", "News Management"},
			{"Finance Division", "Financial systems and accounts", "News Management"},
			{"HR Division", "Human resources systems", "Software Reviews"},
			{"Marketing Division", "Marketing and social media accounts", "Software Reviews"},
			{"Development Division", "Software development teams", "Hardware Reviews"},
			{"Content Division", "Content creation and management", "Opinion Publishing"},
		},
	}

	allDivisions := make([]string, 0, len(ds.Divisions))
	for _, d := range ds.Divisions {
		allDivisions = append(allDivisions, d.Name)
	}
	allOUs := make([]string, 0, len(ds.OUs))
	for _, ou := range ds.OUs {
		allOUs = append(allOUs, ou.Name)
	}

	ds.Users = []User{
		{
			Name: "Normal User", Username: "normaluser", Email: "normal.user@cooltech.com",
			Role:      model.RoleUser,
			Divisions: []string{"IT Division", "Finance Division"},
			OUs:       []string{"News Management"},
		},
		{
			Name: "Management User", Username: "managementuser", Email: "manager.user@cooltech.com",
			Role:      model.RoleManager,
			Divisions: []string{"HR Division", "Marketing Division"},
			OUs:       []string{"Software Reviews"},
		},
		{
			Name: "Admin User", Username: "adminuser", Email: "admin.user@cooltech.com",
			Role:      model.RoleAdmin,
			Divisions: allDivisions,
			OUs:       allOUs,
		},
	}
	return ds
}

// Validate 检查名称唯一且引用均存在
func (ds Dataset) Validate() error {
	ous := make(map[string]bool, len(ds.OUs))
	for _, ou := range ds.OUs {
		if ous[ou.Name] {
			return fmt.Errorf("组织单元重复: %s", ou.Name)
		}
		ous[ou.Name] = true
	}
	divisions := make(map[string]bool, len(ds.Divisions))
	for _, d := range ds.Divisions {
		if divisions[d.Name] {
			return fmt.Errorf("部门重复: %s", d.Name)
		}
		if !ous[d.OU] {
			return fmt.Errorf("部门 %s 引用了不存在的组织单元 %s", d.Name, d.OU)
		}
		divisions[d.Name] = true
	}
	for _, u := range ds.Users {
		if !u.Role.Valid() {
			return fmt.Errorf("用户 %s 角色无效: %s", u.Username, u.Role)
		}
		for _, name := range u.Divisions {
			if !divisions[name] {
				return fmt.Errorf("用户 %s 引用了不存在的部门 %s", u.Username, name)
			}
		}
		for _, name := range u.OUs {
			if !ous[name] {
				return fmt.Errorf("用户 %s 引用了不存在的组织单元 %s", u.Username, name)
			}
		}
	}
	return nil
}

// Options 写入选项
type Options struct {
	// Reset 为 true 时先清空全部数据
	Reset    bool
	Password string
	HashCost int
}

// Summary 写入结果
type Summary struct {
	OUs       int
	Divisions int
	Users     int
	Skipped   int
}

// Run 在单个事务内写入数据集；已存在的同名记录沿用，已存在的账号跳过
func Run(ctx context.Context, repo *repository.Repository, ds Dataset, opts Options, logger *zap.Logger) (*Summary, error) {
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	if opts.Password == "" {
		return nil, errors.New("演示账号密码不能为空")
	}
	if opts.HashCost == 0 {
		opts.HashCost = bcrypt.DefaultCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(opts.Password), opts.HashCost)
	if err != nil {
		return nil, fmt.Errorf("密码哈希失败: %w", err)
	}

	if opts.Reset {
		if err := repo.Reset(ctx); err != nil {
			return nil, err
		}
		logger.Info("已清空现有数据")
	}

	sum := &Summary{}
	err = repo.Transaction(ctx, func(tx *repository.Repository) error {
		ouIDs := make(map[string]string, len(ds.OUs))
		for _, item := range ds.OUs {
			ou, err := tx.OrganizationalUnit.GetByName(ctx, item.Name)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				ou = &model.OrganizationalUnit{Name: item.Name, Description: item.Description}
				if err = tx.OrganizationalUnit.Create(ctx, ou); err == nil {
					sum.OUs++
				}
			}
			if err != nil {
				return fmt.Errorf("写入组织单元 %s 失败: %w", item.Name, err)
			}
			ouIDs[item.Name] = ou.OUID
		}

		divisionIDs := make(map[string]string, len(ds.Divisions))
		for _, item := range ds.Divisions {
			d, err := tx.Division.GetByName(ctx, item.Name)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				d = &model.Division{Name: item.Name, Description: item.Description, OUID: ouIDs[item.OU]}
				if err = tx.Division.Create(ctx, d); err == nil {
					sum.Divisions++
				}
			}
			if err != nil {
				return fmt.Errorf("写入部门 %s 失败: %w", item.Name, err)
			}
			divisionIDs[item.Name] = d.DivisionID
		}

		for _, item := range ds.Users {
			exists, err := tx.User.ExistsByEmailOrUsername(ctx, item.Email, item.Username)
			if err != nil {
				return err
			}
			if exists {
				sum.Skipped++
				logger.Info("账号已存在，跳过", zap.String("username", item.Username))
				continue
			}

			user := &model.User{
				Name:         item.Name,
				Username:     item.Username,
				Email:        item.Email,
				PasswordHash: string(hash),
				Role:         item.Role,
			}
			if err := tx.User.CreateWithMemberships(ctx, user, lookup(divisionIDs, item.Divisions), lookup(ouIDs, item.OUs)); err != nil {
				return fmt.Errorf("写入账号 %s 失败: %w", item.Username, err)
			}
			sum.Users++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("演示数据写入完成",
		zap.Int("ous", sum.OUs),
		zap.Int("divisions", sum.Divisions),
		zap.Int("users", sum.Users),
		zap.Int("skipped", sum.Skipped),
	)
	return sum, nil
}

func lookup(ids map[string]string, names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, ids[n])
	}
	return out
}
