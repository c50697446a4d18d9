// vaultctl 凭据服务命令行客户端
//
//	vaultctl login <username|email>
//	vaultctl whoami
//	vaultctl list [-division <id>]
//	vaultctl add -division <id> -title T -website W -username U
//	vaultctl rm <credential-id>
//	vaultctl logout
//
// 服务地址取自 VAULTCTL_URL（默认 http://localhost:5000），
// Token 保存在 ~/.vaultctl_token。
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"golang.org/x/term"

	"github.com/Lukhanyo05/cooltech-credentials/pkg/client"
)

const usage = `usage: vaultctl <command> [args]

commands:
  login <username|email>   登录并保存 Token
  whoami                   当前用户与所属部门
  list [-division id]      列出可见凭据
  add -division id ...     创建凭据（密码从终端读取）
  rm <credential-id>       删除凭据
  logout                   吊销并删除本地 Token`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	baseURL := os.Getenv("VAULTCTL_URL")
	if baseURL == "" {
		baseURL = "http://localhost:5000"
	}
	token, _ := loadToken()
	c := client.New(baseURL, client.WithToken(token))

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "login":
		err = runLogin(ctx, c, args)
	case "whoami":
		err = runWhoami(ctx, c)
	case "list", "ls":
		err = runList(ctx, c, args)
	case "add":
		err = runAdd(ctx, c, args)
	case "rm", "delete":
		err = runDelete(ctx, c, args)
	case "logout":
		err = runLogout(ctx, c)
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		if client.IsUnauthorized(err) {
			fmt.Fprintln(os.Stderr, "未登录或 Token 已失效，请先执行 vaultctl login")
		} else {
			fmt.Fprintln(os.Stderr, "错误:", err)
		}
		os.Exit(1)
	}
}

func runLogin(ctx context.Context, c *client.Client, args []string) error {
	if len(args) != 1 {
		return errors.New("用法: vaultctl login <username|email>")
	}
	password, err := readSecret("Password: ")
	if err != nil {
		return err
	}
	s, err := c.Login(ctx, args[0], password)
	if err != nil {
		return err
	}
	if err := saveToken(s.Token); err != nil {
		return err
	}
	fmt.Printf("已登录为 %s (%s)\n", s.User.Username, s.User.Role)
	return nil
}

func runWhoami(ctx context.Context, c *client.Client) error {
	u, err := c.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s <%s> role=%s\n", u.Username, u.Email, u.Role)
	for _, d := range u.Divisions {
		fmt.Printf("  division %s  %s\n", d.ID, d.Name)
	}
	for _, ou := range u.OrganizationalUnits {
		fmt.Printf("  ou       %s  %s\n", ou.ID, ou.Name)
	}
	return nil
}

func runList(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	division := fs.String("division", "", "只列出该部门")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var (
		creds []client.Credential
		err   error
	)
	if *division != "" {
		creds, err = c.DivisionCredentials(ctx, *division)
	} else {
		creds, err = c.MyCredentials(ctx)
	}
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tWEBSITE\tUSERNAME\tPASSWORD\tDIVISION")
	for _, cr := range creds {
		div := ""
		if cr.Division != nil {
			div = cr.Division.Name
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", cr.ID, cr.Title, cr.Website, cr.Username, cr.Password, div)
	}
	return tw.Flush()
}

func runAdd(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	req := client.NewCredential{}
	fs.StringVar(&req.Division, "division", "", "部门 ID")
	fs.StringVar(&req.Title, "title", "", "标题")
	fs.StringVar(&req.Website, "website", "", "网站")
	fs.StringVar(&req.Username, "username", "", "登录名")
	fs.StringVar(&req.Description, "description", "", "备注")
	if err := fs.Parse(args); err != nil {
		return err
	}

	password, err := readSecret("Credential password: ")
	if err != nil {
		return err
	}
	req.Password = password

	cr, err := c.CreateCredential(ctx, req)
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && len(apiErr.Fields) > 0 {
			for _, f := range apiErr.Fields {
				fmt.Fprintf(os.Stderr, "  %s: %s\n", f.Field, f.Message)
			}
		}
		return err
	}
	fmt.Println("已创建", cr.ID)
	return nil
}

func runDelete(ctx context.Context, c *client.Client, args []string) error {
	if len(args) != 1 {
		return errors.New("用法: vaultctl rm <credential-id>")
	}
	if err := c.DeleteCredential(ctx, args[0]); err != nil {
		return err
	}
	fmt.Println("已删除", args[0])
	return nil
}

func runLogout(ctx context.Context, c *client.Client) error {
	if c.Token() != "" {
		if err := c.Logout(ctx); err != nil && !client.IsUnauthorized(err) {
			return err
		}
	}
	path, err := tokenPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	fmt.Println("已登出")
	return nil
}

// ── 本地状态 ──

func readSecret(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func tokenPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".vaultctl_token"), nil
}

func loadToken() (string, error) {
	path, err := tokenPath()
	if err != nil {
		return "", err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

func saveToken(token string) error {
	path, err := tokenPath()
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(token+"\n"), 0o600)
}
