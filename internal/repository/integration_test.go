//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Lukhanyo05/cooltech-credentials/internal/model"
	"github.com/Lukhanyo05/cooltech-credentials/internal/repository"
	"github.com/Lukhanyo05/cooltech-credentials/pkg/database"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=postgres password=postgres dbname=cooltech_test sslmode=disable TimeZone=UTC"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	sqlDB, err := testDB.DB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "获取 sql.DB 失败: %v\n", err)
		os.Exit(1)
	}
	if err := database.RunMigrations(sqlDB, zap.NewNop()); err != nil {
		fmt.Fprintf(os.Stderr, "迁移失败: %v\n", err)
		os.Exit(1)
	}

	os.Exit(m.Run())
}

// setupTestData 创建组织单元、部门与用户，返回清理函数
func setupTestData(t *testing.T) (ou *model.OrganizationalUnit, div *model.Division, user *model.User, cleanup func()) {
	t.Helper()
	ctx := context.Background()
	repo := repository.NewRepository(testDB)
	suffix := time.Now().UnixNano()

	ou = &model.OrganizationalUnit{Name: fmt.Sprintf("测试组织-%d", suffix)}
	if err := repo.OrganizationalUnit.Create(ctx, ou); err != nil {
		t.Fatalf("创建组织单元失败: %v", err)
	}
	div = &model.Division{Name: fmt.Sprintf("测试部门-%d", suffix), OUID: ou.OUID}
	if err := repo.Division.Create(ctx, div); err != nil {
		t.Fatalf("创建部门失败: %v", err)
	}
	user = &model.User{
		Name:         "Test User",
		Username:     fmt.Sprintf("user%d", suffix),
		Email:        fmt.Sprintf("user%d@cooltech.io", suffix),
		PasswordHash: "$2a$10$placeholder",
		Role:         model.RoleUser,
	}
	if err := repo.User.CreateWithMemberships(ctx, user, nil, nil); err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}

	cleanup = func() {
		testDB.Where("division_id = ?", div.DivisionID).Delete(&model.Credential{})
		testDB.Where("user_id = ?", user.UserID).Delete(&model.User{})
		testDB.Where("division_id = ?", div.DivisionID).Delete(&model.Division{})
		testDB.Where("ou_id = ?", ou.OUID).Delete(&model.OrganizationalUnit{})
	}
	return
}

func TestMembership_AssignIsSymmetricAndUnique(t *testing.T) {
	_, div, user, cleanup := setupTestData(t)
	defer cleanup()
	ctx := context.Background()
	repo := repository.NewRepository(testDB)

	// 并发重复分配：恰好一个成功
	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- repo.Membership.AssignDivision(ctx, user.UserID, div.DivisionID)
		}()
	}
	wg.Wait()
	close(errs)

	var ok, dup int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, repository.ErrAlreadyMember):
			dup++
		default:
			t.Fatalf("意外错误: %v", err)
		}
	}
	if ok != 1 || dup != workers-1 {
		t.Fatalf("成功=%d 重复=%d", ok, dup)
	}

	got, err := repo.User.GetWithMemberships(ctx, user.UserID)
	if err != nil {
		t.Fatalf("GetWithMemberships 失败: %v", err)
	}
	if len(got.Divisions) != 1 || got.Divisions[0].DivisionID != div.DivisionID {
		t.Fatalf("用户部门=%v", got.DivisionIDs())
	}
	if got.Divisions[0].OrganizationalUnit == nil {
		t.Error("部门应包含组织单元")
	}

	// 从部门一侧查看
	var members int64
	testDB.Model(&model.UserDivision{}).Where("division_id = ?", div.DivisionID).Count(&members)
	if members != 1 {
		t.Errorf("部门成员数=%d", members)
	}

	if err := repo.Membership.UnassignDivision(ctx, user.UserID, div.DivisionID); err != nil {
		t.Fatalf("UnassignDivision 失败: %v", err)
	}
	ids, _ := repo.Membership.DivisionIDs(ctx, user.UserID)
	if len(ids) != 0 {
		t.Errorf("取消分配后仍有部门: %v", ids)
	}
}

func TestCredential_DivisionDeleteRestricted(t *testing.T) {
	_, div, user, cleanup := setupTestData(t)
	defer cleanup()
	ctx := context.Background()
	repo := repository.NewRepository(testDB)

	cred := &model.Credential{
		Title:      "CMS",
		Website:    "https://cms.cooltech.io",
		Username:   "editor",
		Password:   "pw",
		DivisionID: div.DivisionID,
		CreatedBy:  user.UserID,
	}
	if err := repo.Credential.Create(ctx, cred); err != nil {
		t.Fatalf("创建凭据失败: %v", err)
	}

	if err := testDB.Where("division_id = ?", div.DivisionID).Delete(&model.Division{}).Error; err == nil {
		t.Fatal("存在凭据的部门不应被删除")
	}

	got, err := repo.Credential.GetByID(ctx, cred.CredentialID)
	if err != nil {
		t.Fatalf("GetByID 失败: %v", err)
	}
	if got.Division == nil || got.Creator == nil || got.Creator.UserID != user.UserID {
		t.Errorf("关联未加载: %+v", got)
	}
}
