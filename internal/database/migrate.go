package database

import (
	"lumen/internal/models"

	"gorm.io/gorm"
)

// RegisteredModels lists every model that participates in auto
// migration. Test databases migrate the same list so schemas stay in
// sync with production.
func RegisteredModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Follow{},
		&models.Post{},
		&models.Comment{},
		&models.Like{},
		&models.Message{},
		&models.Asset{},
	}
}

// Migrate runs auto migration for all registered models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(RegisteredModels()...)
}
