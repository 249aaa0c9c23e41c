package testutil

import (
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	types "github.com/yungbote/edubox-backend/internal/domain"
	"github.com/yungbote/edubox-backend/internal/platform/logger"
)

var (
	logOnce sync.Once
	logg    *logger.Logger
	logErr  error
)

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	logOnce.Do(func() {
		logg, logErr = logger.New("test")
	})
	if logErr != nil {
		tb.Fatalf("failed to init logger: %v", logErr)
	}
	return logg
}

// DB returns a migrated database for one test. It is a private in-memory
// SQLite database unless TEST_POSTGRES_DSN points at a Postgres instance.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	cfg := &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLogger.Default.LogMode(gormLogger.Silent),
	}

	var dialector gorm.Dialector
	if dsn := os.Getenv("TEST_POSTGRES_DSN"); dsn != "" {
		dialector = postgres.Open(dsn)
	} else {
		dialector = sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	}

	db, err := gorm.Open(dialector, cfg)
	if err != nil {
		tb.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("test db handle: %v", err)
	}
	if dialector.Name() == "sqlite" {
		// One connection keeps the in-memory database alive and serializes writers.
		sqlDB.SetMaxOpenConns(1)
	}
	tb.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(types.Models()...); err != nil {
		tb.Fatalf("migrate test db: %v", err)
	}
	return db
}

func Tx(tb testing.TB, db *gorm.DB) *gorm.DB {
	tb.Helper()
	tx := db.Begin()
	if tx.Error != nil {
		tb.Fatalf("begin tx: %v", tx.Error)
	}
	tb.Cleanup(func() {
		_ = tx.Rollback().Error
	})
	return tx
}
