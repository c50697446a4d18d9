// Package client 凭据服务 REST API 的 Go 客户端。
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client REST 客户端；Token 由 Login 设置或通过 WithToken 注入
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// Option 客户端选项
type Option func(*Client)

// WithHTTPClient 自定义底层 http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithToken 使用已有 Token
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New 创建客户端，baseURL 形如 http://localhost:5000
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token 当前 Token
func (c *Client) Token() string { return c.token }

// ── 响应类型 ──

// Summary 关联对象摘要
type Summary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Email       string `json:"email,omitempty"`
}

// User 用户资料
type User struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Username            string    `json:"username"`
	Email               string    `json:"email"`
	Role                string    `json:"role"`
	Divisions           []Summary `json:"divisions"`
	OrganizationalUnits []Summary `json:"organizational_units"`
	CreatedAt           time.Time `json:"created_at"`
}

// Session 登录结果
type Session struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
	User      User   `json:"user"`
}

// Credential 凭据；非管理员的 Password 为占位符
type Credential struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Website       string    `json:"website"`
	Username      string    `json:"username"`
	Password      string    `json:"password"`
	Description   string    `json:"description"`
	Division      *Summary  `json:"division"`
	CreatedBy     *Summary  `json:"created_by"`
	LastUpdatedBy *Summary  `json:"last_updated_by"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewCredential 创建凭据请求
type NewCredential struct {
	Title       string `json:"title"`
	Website     string `json:"website"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	Description string `json:"description,omitempty"`
	Division    string `json:"division"`
}

// CredentialPatch 部分更新；nil 字段不修改
type CredentialPatch struct {
	Title       *string `json:"title,omitempty"`
	Website     *string `json:"website,omitempty"`
	Username    *string `json:"username,omitempty"`
	Password    *string `json:"password,omitempty"`
	Description *string `json:"description,omitempty"`
}

// ── 认证 ──

// Login 登录并保存 Token；login 可为用户名或邮箱
func (c *Client) Login(ctx context.Context, login, password string) (*Session, error) {
	var s Session
	body := map[string]string{"login": login, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &s); err != nil {
		return nil, err
	}
	c.token = s.Token
	return &s, nil
}

// Logout 吊销当前 Token
func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil); err != nil {
		return err
	}
	c.token = ""
	return nil
}

// Me 当前用户资料
func (c *Client) Me(ctx context.Context) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// ── 凭据 ──

// MyCredentials 当前用户可见的全部凭据
func (c *Client) MyCredentials(ctx context.Context) ([]Credential, error) {
	var out []Credential
	err := c.do(ctx, http.MethodGet, "/api/credentials/my-credentials", nil, &out)
	return out, err
}

// DivisionCredentials 单个部门的凭据
func (c *Client) DivisionCredentials(ctx context.Context, divisionID string) ([]Credential, error) {
	var out []Credential
	err := c.do(ctx, http.MethodGet, "/api/credentials/division/"+url.PathEscape(divisionID), nil, &out)
	return out, err
}

// CreateCredential 创建凭据
func (c *Client) CreateCredential(ctx context.Context, req NewCredential) (*Credential, error) {
	var out Credential
	if err := c.do(ctx, http.MethodPost, "/api/credentials", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCredential 部分更新凭据
func (c *Client) UpdateCredential(ctx context.Context, id string, patch CredentialPatch) (*Credential, error) {
	var out Credential
	if err := c.do(ctx, http.MethodPut, "/api/credentials/"+url.PathEscape(id), patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteCredential 删除凭据
func (c *Client) DeleteCredential(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/credentials/"+url.PathEscape(id), nil, nil)
}

// ── 传输 ──

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []FieldError    `json:"errors"`
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= 400 {
			return &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return &APIError{Status: resp.StatusCode, Code: env.Code, Message: env.Message, Fields: env.Errors}
	}
	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode data: %w", err)
		}
	}
	return nil
}
