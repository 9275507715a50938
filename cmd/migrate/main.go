package main

import (
	"errors"
	"flag"
	"log/slog"
	"os"
	"strings"

	"github.com/fieldops-dev/zone-service-manager/backend/internal/config"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func main() {
	var direction string
	flag.StringVar(&direction, "direction", "up", "迁移方向 (up 或 down)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// golang-migrate 的 pgx/v5 驱动注册的 scheme 是 pgx5
	dsn := strings.Replace(cfg.Database.DSN, "postgres://", "pgx5://", 1)

	m, err := migrate.New("file://migrations", dsn)
	if err != nil {
		logger.Error("无法创建迁移器", slog.String("error", err.Error()))
		os.Exit(1)
	}

	switch direction {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	default:
		logger.Error("非法的迁移方向", slog.String("direction", direction))
		os.Exit(1)
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Error("迁移失败", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("数据库迁移完成", slog.String("direction", direction))
}
