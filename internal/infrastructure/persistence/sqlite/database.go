// Package sqlite provides the local/dev/test backing store for the dish
// catalog: a file or in-memory SQLite database behind the same GORM
// models the Postgres adapter uses (spec.md §6, §4.10).
package sqlite

import (
	"fmt"

	gormModels "github.com/alchemorsel/mealplanner/internal/infrastructure/persistence/gorm"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupDatabase opens (creating if absent) a SQLite database and migrates
// the dish catalog schema. An empty dbPath opens an in-memory database,
// used by tests that want a real GORM round-trip without a file.
func SetupDatabase(dbPath string, logLevel logger.LogLevel) (*gorm.DB, error) {
	if dbPath == "" {
		dbPath = ":memory:"
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("connect sqlite: %w", err)
	}

	if err := gormModels.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}

	return db, nil
}

// SeedDishes inserts the given dishes if the catalog is empty, used by a
// host application to bootstrap a local database from its own dish data.
func SeedDishes(db *gorm.DB, dishes []gormModels.DishModel) error {
	var count int64
	if err := db.Model(&gormModels.DishModel{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	for _, d := range dishes {
		if err := db.Create(&d).Error; err != nil {
			return fmt.Errorf("seed dish %q: %w", d.Name, err)
		}
	}
	return nil
}
