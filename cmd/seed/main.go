// seed 写入演示组织结构与账号
//
// 用法:
//
//	go run ./cmd/seed [-config path] [-reset] [-yes]
//
// 密码依次取自 VAULT_SEED_PASSWORD、终端输入；非交互环境下使用 password123。
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/Lukhanyo05/cooltech-credentials/config"
	"github.com/Lukhanyo05/cooltech-credentials/internal/repository"
	"github.com/Lukhanyo05/cooltech-credentials/internal/seed"
	"github.com/Lukhanyo05/cooltech-credentials/pkg/database"
	applogger "github.com/Lukhanyo05/cooltech-credentials/pkg/logger"
)

const fallbackPassword = "password123"

func main() {
	configPath := flag.String("config", "", "配置文件路径")
	reset := flag.Bool("reset", false, "写入前清空全部数据（包括凭据）")
	yes := flag.Bool("yes", false, "跳过 -reset 确认")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	interactive := term.IsTerminal(int(os.Stdin.Fd()))

	if *reset && !*yes {
		if !interactive {
			logger.Fatal("非交互环境下使用 -reset 需同时指定 -yes")
		}
		if !confirm(fmt.Sprintf("将清空数据库 %s 中的全部数据，输入 yes 继续: ", cfg.Database.Name)) {
			fmt.Println("已取消")
			return
		}
	}

	password, err := demoPassword(interactive)
	if err != nil {
		logger.Fatal("读取密码失败", zap.Error(err))
	}

	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	defer sqlDB.Close()

	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	ds := seed.Default()
	sum, err := seed.Run(context.Background(), repository.NewRepository(db), ds, seed.Options{
		Reset:    *reset,
		Password: password,
	}, logger)
	if err != nil {
		logger.Fatal("写入演示数据失败", zap.Error(err))
	}

	fmt.Printf("\n新增 %d 个组织单元、%d 个部门、%d 个账号（跳过 %d 个已存在账号）\n",
		sum.OUs, sum.Divisions, sum.Users, sum.Skipped)
	fmt.Println("演示账号:")
	for _, u := range ds.Users {
		fmt.Printf("  %-16s %-28s %s\n", u.Username, u.Email, u.Role)
	}
}

func confirm(prompt string) bool {
	fmt.Print(prompt)
	line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	return strings.TrimSpace(line) == "yes"
}

func demoPassword(interactive bool) (string, error) {
	if p := os.Getenv("VAULT_SEED_PASSWORD"); p != "" {
		return p, nil
	}
	if !interactive {
		return fallbackPassword, nil
	}

	fmt.Printf("演示账号密码（回车使用 %s）: ", fallbackPassword)
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	if len(pw) == 0 {
		return fallbackPassword, nil
	}
	if len(pw) < 6 {
		return "", fmt.Errorf("密码至少 6 位")
	}
	return string(pw), nil
}
