package database

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/clipsync/internal/config"
	"github.com/ahmetcoskunkizilkaya/clipsync/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB is nil unless persistence is enabled.
var DB *gorm.DB

func Connect(cfg *config.Config) error {
	var err error
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	slog.Info("database connected")
	return nil
}

// Migrate runs AutoMigrate for the user, device and clipboard tables.
func Migrate() error {
	return DB.AutoMigrate(
		&models.User{},
		&models.Device{},
		&models.ClipboardRecord{},
	)
}

// Ping reports "disabled" when persistence is off.
func Ping() string {
	if DB == nil {
		return "disabled"
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return "unhealthy: " + err.Error()
	}
	if err := sqlDB.Ping(); err != nil {
		return "unhealthy: " + err.Error()
	}
	return "ok"
}

func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
