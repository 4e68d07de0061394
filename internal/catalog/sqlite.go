package catalog

import (
	"fmt"
	"os"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Recipe is a catalog row in the SQLite store. List fields keep their
// stored encoding and are decoded on load like CSV values.
type Recipe struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:255;not null"`
	Ingredients string `gorm:"type:text"`
	Cuisine     string `gorm:"size:100"`
	Steps       string `gorm:"type:text"`
}

// TableName pins the table name.
func (Recipe) TableName() string {
	return "recipes"
}

// OpenSQLite opens (or creates) a SQLite catalog database.
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite catalog: %w", err)
	}
	return db, nil
}

// LoadSQLiteFile reads the catalog from an existing database file.
func LoadSQLiteFile(path string, opts Options) ([]Entry, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("sqlite catalog unavailable: %w", err)
	}
	db, err := OpenSQLite(path)
	if err != nil {
		return nil, err
	}
	defer CloseSQLite(db)
	return LoadSQLite(db, opts)
}

// LoadSQLite reads all recipes ordered by id. Entry IDs are row positions,
// not database ids.
func LoadSQLite(db *gorm.DB, opts Options) ([]Entry, error) {
	var rows []Recipe
	if err := db.Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query recipes: %w", err)
	}

	entries := make([]Entry, len(rows))
	for i, r := range rows {
		entries[i] = newEntry(i, r.Name, r.Ingredients, r.Cuisine, r.Steps, opts)
	}
	return entries, nil
}

// ExportSQLite replaces the recipes table with entries, preserving order.
func ExportSQLite(db *gorm.DB, entries []Entry) error {
	if err := db.AutoMigrate(&Recipe{}); err != nil {
		return fmt.Errorf("failed to migrate recipes table: %w", err)
	}

	rows := make([]Recipe, len(entries))
	for i, e := range entries {
		rows[i] = Recipe{
			ID:          uint(i + 1),
			Name:        e.Name,
			Ingredients: e.RawIngredients,
			Cuisine:     e.Cuisine,
			Steps:       e.RawSteps,
		}
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM recipes").Error; err != nil {
			return fmt.Errorf("failed to clear recipes: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(rows, 500).Error; err != nil {
			return fmt.Errorf("failed to insert recipes: %w", err)
		}
		return nil
	})
}

// CloseSQLite releases the database handle.
func CloseSQLite(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
