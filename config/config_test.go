package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_DefaultsAndEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("VAULT_AUTH_JWT_SECRET", "test-secret-key-for-unit-testing")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load 失败: %v", err)
	}

	if cfg.Server.Port != 5000 {
		t.Errorf("期望默认端口 5000，实际=%d", cfg.Server.Port)
	}
	if cfg.Auth.TokenTTL != 7*24*time.Hour {
		t.Errorf("期望 TokenTTL=168h，实际=%v", cfg.Auth.TokenTTL)
	}
	if cfg.Vault.DefaultDivision != "Content Division" {
		t.Errorf("期望默认部门 Content Division，实际=%s", cfg.Vault.DefaultDivision)
	}
	if cfg.Vault.DefaultOU != "Opinion Publishing" {
		t.Errorf("期望默认组织单元 Opinion Publishing，实际=%s", cfg.Vault.DefaultOU)
	}
	if cfg.Vault.PasswordMask != "••••••••" {
		t.Errorf("期望默认掩码，实际=%s", cfg.Vault.PasswordMask)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "app.yaml")
	content := []byte(`
server:
  port: 9090
auth:
  jwt_secret: file-secret-key-0123456789
  token_ttl: 1h
vault:
  default_division: IT Division
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("写入配置文件失败: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load 失败: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("期望端口 9090，实际=%d", cfg.Server.Port)
	}
	if cfg.Auth.TokenTTL != time.Hour {
		t.Errorf("期望 TokenTTL=1h，实际=%v", cfg.Auth.TokenTTL)
	}
	if cfg.Vault.DefaultDivision != "IT Division" {
		t.Errorf("期望 IT Division，实际=%s", cfg.Vault.DefaultDivision)
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("VAULT_AUTH_JWT_SECRET", "")

	if _, err := Load(""); err == nil {
		t.Fatal("缺少 jwt_secret 时应返回错误")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"合法配置", func(c *Config) {}, false},
		{"密钥过短", func(c *Config) { c.Auth.JWTSecret = "short" }, true},
		{"端口越界", func(c *Config) { c.Server.Port = 70000 }, true},
		{"TTL 非正", func(c *Config) { c.Auth.TokenTTL = 0 }, true},
		{"掩码为空", func(c *Config) { c.Vault.PasswordMask = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{
				Server: ServerConfig{Port: 5000},
				Auth:   AuthConfig{JWTSecret: "0123456789abcdef", TokenTTL: time.Hour},
				Vault:  VaultConfig{PasswordMask: "••••••••"},
			}
			tt.mutate(c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() err=%v, wantErr=%v", err, tt.wantErr)
			}
		})
	}
}

// chdir 切换工作目录并在测试结束时恢复（等价于 Go 1.24 的 t.Chdir）
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd 失败: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir 失败: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(old) })
}
