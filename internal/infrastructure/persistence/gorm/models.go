// Package gorm provides GORM model definitions and a DishRepository
// adapter backing the optional persistent dish catalog (spec.md §6
// describes DishRepository as "consumed, not defined here"; this is one
// concrete, swappable implementation of it).
package gorm

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
)

// StringSlice is a JSON-encoded []string column, matching the teacher's
// convention for storing small repeated string sets without a join table.
type StringSlice []string

// Scan implements sql.Scanner.
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("StringSlice: unsupported scan type %T", value)
	}
	return json.Unmarshal(bytes, s)
}

// Value implements driver.Valuer.
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	return json.Marshal(s)
}

// NutrientMap is a JSON-encoded map[string]float64 column holding one
// dish's per-serving nutrient vector (24 active nutrient ids).
type NutrientMap map[string]float64

func (n *NutrientMap) Scan(value interface{}) error {
	if value == nil {
		*n = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("NutrientMap: unsupported scan type %T", value)
	}
	return json.Unmarshal(bytes, n)
}

func (n NutrientMap) Value() (driver.Value, error) {
	if n == nil {
		return "{}", nil
	}
	return json.Marshal(n)
}

// DishModel is the GORM row for one catalog dish.
type DishModel struct {
	ID            int         `gorm:"primaryKey;autoIncrement"`
	Name          string      `gorm:"type:varchar(255);not null;index"`
	Category      string      `gorm:"type:varchar(32);not null;index"`
	MealTypes     StringSlice `gorm:"type:json"`
	ServingSize   float64     `gorm:"not null;default:1"`
	StorageDays   int         `gorm:"not null;default:0"`
	MinServings   int         `gorm:"not null;default:1"`
	MaxServings   int         `gorm:"not null;default:1"`
	FlavorProfile string      `gorm:"type:varchar(16)"`
	Nutrients     NutrientMap `gorm:"type:json"`
	Allergens     StringSlice `gorm:"type:json"`

	Ingredients []IngredientModel `gorm:"foreignKey:DishID"`
}

func (DishModel) TableName() string { return "dishes" }

// IngredientModel is one ingredient line item belonging to a dish.
type IngredientModel struct {
	ID            uint   `gorm:"primaryKey;autoIncrement"`
	DishID        int    `gorm:"not null;index"`
	FoodID        int    `gorm:"not null;index"`
	FoodName      string `gorm:"type:varchar(255);not null"`
	BasicID       *int   `gorm:"index"`
	BasicName     string `gorm:"type:varchar(255)"`
	AmountGrams   float64
	DisplayAmount string `gorm:"type:varchar(64)"`
	Unit          string `gorm:"type:varchar(32)"`
	CookingMethod string `gorm:"type:varchar(16)"`
}

func (IngredientModel) TableName() string { return "dish_ingredients" }

// AutoMigrate runs schema migration for the dish catalog tables. Kept as
// a thin wrapper (rather than golang-migrate's SQL-file versioning the
// teacher uses for its user/recipe schema) because the catalog has no
// backward-compatibility surface to version: it is a read-mostly seed
// table maintained out of band by the host application.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&DishModel{}, &IngredientModel{})
}
