package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/vdbe/maze-lvl-maker/internal/models"
)

// AllModels returns the list of all GORM models for migration.
func AllModels() []interface{} {
	return []interface{}{
		&models.Level{},
		&models.ScanRun{},
	}
}

// AutoMigrate creates or updates all library tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("db: auto-migrate: %w", err)
	}
	return nil
}
