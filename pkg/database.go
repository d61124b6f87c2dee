package pkg

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/SAP-F-2025/campus-admin-service/internal/config"
	"github.com/SAP-F-2025/campus-admin-service/internal/models"
)

// InitDatabase opens the Postgres connection, runs migrations and seeds
// reference data.
func InitDatabase(cfg *config.Config) (*gorm.DB, error) {
	gormLogLevel := logger.Warn
	if cfg.Environment == "development" {
		gormLogLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(gormLogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

func migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Campus{},
		&models.User{},
		&models.Role{},
		&models.UserRole{},
		&models.Course{},
		&models.CourseSection{},
		&models.Enrollment{},
		&models.Grade{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.DocumentRequest{},
		&models.Announcement{},
		&models.ChatThread{},
		&models.ChatMessage{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
