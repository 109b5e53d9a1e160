package utils

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quizmaster/backend/config"
	"quizmaster/backend/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DemoEmail    = "demo@user.com"
	DemoPassword = "demo"
)

// InitDB opens the configured database. TranslateError is on so unique
// violations surface as gorm.ErrDuplicatedKey on every driver.
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.PostgresDSN())
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.DBPath)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}

	gormLogger := gormlogger.Default
	if !cfg.DBLogMode {
		gormLogger = gormLogger.LogMode(gormlogger.Silent)
	}

	// Timestamps are stored in UTC so SQLite's text comparison orders them.
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}

	if cfg.DBDriver == config.DriverSQLite {
		// SQLite allows a single writer; foreign keys are off unless enabled.
		sqlDB.SetMaxOpenConns(1)
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("enable foreign keys: %w", err)
		}
	} else {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	return db, nil
}

// Migrate creates or updates the users and attempts tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.Attempt{}); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	return nil
}

// SeedDemoUser makes sure the demo account exists. An existing demo row is
// left untouched.
func SeedDemoUser(ctx context.Context, db *gorm.DB, hasher *PasswordHasher) error {
	var existing models.User
	err := db.WithContext(ctx).Where("email = ?", DemoEmail).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("look up demo user: %w", err)
	}

	hash, err := hasher.Hash(DemoPassword)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}

	name := models.DefaultName(DemoEmail)
	demo := models.User{Email: DemoEmail, PasswordHash: hash, Name: &name}
	if err := db.WithContext(ctx).Create(&demo).Error; err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("create demo user: %w", err)
	}
	return nil
}
