package redis

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// 未启用 Redis 时所有操作都应降级为空操作
func TestNilClient(t *testing.T) {
	var c *Client
	ctx := context.Background()

	if err := c.BlacklistToken(ctx, "jti", time.Minute); err != nil {
		t.Errorf("BlacklistToken 期望 nil，实际 %v", err)
	}
	revoked, err := c.IsBlacklisted(ctx, "jti")
	if err != nil || revoked {
		t.Errorf("IsBlacklisted 期望 (false, nil)，实际 (%v, %v)", revoked, err)
	}
	allowed, err := c.CheckRateLimit(ctx, "k", 1, time.Minute)
	if err != nil || !allowed {
		t.Errorf("CheckRateLimit 期望 (true, nil)，实际 (%v, %v)", allowed, err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close 期望 nil，实际 %v", err)
	}
}

func TestWrap_Unreachable(t *testing.T) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	c := Wrap(rdb, zap.NewNop())
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if _, err := c.IsBlacklisted(ctx, "jti"); err == nil {
		t.Error("连接失败时 IsBlacklisted 应返回错误")
	}
	allowed, err := c.CheckRateLimit(ctx, "k", 10, time.Minute)
	if err == nil || allowed {
		t.Errorf("连接失败时 CheckRateLimit 期望 (false, err)，实际 (%v, %v)", allowed, err)
	}
}
