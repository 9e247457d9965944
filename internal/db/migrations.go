package db

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"github.com/balkashynov/slumber/internal/models"
)

// runMigrations creates/updates the database schema
func runMigrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "001_kv_blobs",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.Blob{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("kv_blobs")
			},
		},
	})
	return m.Migrate()
}
