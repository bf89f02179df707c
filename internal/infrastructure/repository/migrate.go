package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/mohammadpnp/roster-import/internal/infrastructure/db/models"
)

// Migrate creates or updates every table the importer writes to.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.ImportRun{},
		&models.ImportRowError{},
		&models.Account{},
		&models.Guardian{},
		&models.Student{},
		&models.Group{},
		&models.GroupMembership{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
