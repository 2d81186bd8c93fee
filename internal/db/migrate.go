package db

import (
	"fmt"

	"github.com/kingcader/attache/internal/models"
	"gorm.io/gorm"
)

// AllModels returns the list of all GORM models for migration.
func AllModels() []interface{} {
	return []interface{}{
		&models.Thread{},
		&models.Email{},
		&models.FollowUpSuggestion{},
		&models.Decision{},
		&models.Task{},
		&models.PushSubscription{},
		&models.Notification{},
	}
}

// AutoMigrate creates or updates all tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("db: auto-migrate: %w", err)
	}
	return nil
}
