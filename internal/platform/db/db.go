package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/edubox-backend/internal/domain"
	"github.com/yungbote/edubox-backend/internal/platform/logger"
)

type Config struct {
	Driver          string
	DSN             string
	SQLitePath      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	LogSQL          bool
}

// Open connects to Postgres through pgx's database/sql adapter, or to a
// SQLite file when Driver is "sqlite".
func Open(log *logger.Logger, cfg Config) (*gorm.DB, error) {
	gcfg := &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLogger.Default.LogMode(gormLogger.Warn),
	}
	if cfg.LogSQL {
		gcfg.Logger = gormLogger.Default.LogMode(gormLogger.Info)
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "sqlite", "sqlite3":
		path := strings.TrimSpace(cfg.SQLitePath)
		if path == "" {
			path = "edubox.db"
		}
		log.Info("Opening SQLite database", "path", path)
		gdb, err := gorm.Open(sqlite.Open(path), gcfg)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		return gdb, nil
	case "", "postgres", "postgresql", "pgx":
		if strings.TrimSpace(cfg.DSN) == "" {
			return nil, fmt.Errorf("missing DATABASE_URL")
		}
		pgxCfg, err := pgx.ParseConfig(cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("parse DATABASE_URL: %w", err)
		}
		sqlDB := stdlib.OpenDB(*pgxCfg)
		if cfg.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		}
		if cfg.ConnMaxLifetime > 0 {
			sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		}
		log.Info("Connecting to Postgres...", "host", pgxCfg.Host, "database", pgxCfg.Database)
		gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), gcfg)
		if err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		return gdb, nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}
}

func AutoMigrate(log *logger.Logger, gdb *gorm.DB) error {
	log.Info("Auto migrating tables...")
	if err := gdb.AutoMigrate(domain.Models()...); err != nil {
		log.Error("Auto migration failed", "error", err)
		return err
	}
	return nil
}

func Close(gdb *gorm.DB) error {
	if gdb == nil {
		return nil
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks the underlying connection pool.
func Ping(ctx context.Context, gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
