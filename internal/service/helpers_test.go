package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Lukhanyo05/cooltech-credentials/config"
	"github.com/Lukhanyo05/cooltech-credentials/internal/model"
	"github.com/Lukhanyo05/cooltech-credentials/internal/policy"
	"github.com/Lukhanyo05/cooltech-credentials/pkg/jwt"
)

const testMask = "••••••••"

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret: "test-secret-key-0123456789",
			TokenTTL:  time.Hour,
		},
		Vault: config.VaultConfig{
			DefaultDivision: "Content Division",
			DefaultOU:       "Opinion Publishing",
			PasswordMask:    testMask,
		},
	}
}

// fakeBlacklist 记录被吊销的 jti
type fakeBlacklist struct {
	revoked map[string]time.Duration
}

func (f *fakeBlacklist) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	if f.revoked == nil {
		f.revoked = make(map[string]time.Duration)
	}
	f.revoked[jti] = ttl
	return nil
}

func newTestAuthService(t *testing.T, store *mockStore, blacklist TokenBlacklist) (*authService, *jwt.Manager) {
	t.Helper()
	cfg := testConfig()
	mgr := jwt.NewManager(&cfg.Auth)
	svc := NewAuthService(cfg, store.repository(), mgr, blacklist, zap.NewNop()).(*authService)
	svc.hashCost = bcrypt.MinCost
	return svc, mgr
}

func newTestUserService(store *mockStore) *userService {
	svc := NewUserService(store.repository(), zap.NewNop()).(*userService)
	svc.hashCost = bcrypt.MinCost
	svc.now = func() time.Time { return time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC) }
	return svc
}

// actorOf 以存储中的当前成员关系构造授权主体
func actorOf(store *mockStore, u *model.User) policy.Actor {
	var ids []string
	for l := range store.userDivs {
		if l.userID == u.UserID {
			ids = append(ids, l.targetID)
		}
	}
	return policy.NewActor(u.UserID, store.users[u.UserID].Role, ids...)
}

// orgFixture 两个组织单元、三个部门
type orgFixture struct {
	news, software       *model.OrganizationalUnit
	content, finance, it *model.Division
}

func seedOrg(store *mockStore) orgFixture {
	var f orgFixture
	f.news = store.addOU("Opinion Publishing")
	f.software = store.addOU("Software Reviews")
	f.content = store.addDivision("Content Division", f.news.OUID)
	f.finance = store.addDivision("Finance", f.news.OUID)
	f.it = store.addDivision("IT", f.software.OUID)
	return f
}
