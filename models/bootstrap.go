package models

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// legacyProduct mirrors one record of the pre-database JSON catalog file.
type legacyProduct struct {
	ID          uint     `json:"id"`
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Tags        []string `json:"tags"`
}

// ImportLegacyCatalog imports a legacy JSON catalog file into the store.
// It is a one-time bootstrap step: it does nothing when the products table
// already has rows or when the file does not exist. Records are imported
// verbatim, original ids included, and their tag lists normalized into the
// tag and association tables. The whole import is one transaction.
func ImportLegacyCatalog(db *gorm.DB, path string) error {
	var count int64
	if err := db.Model(&Product{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read legacy catalog: %w", err)
	}

	var legacy []legacyProduct
	if err := json.Unmarshal(data, &legacy); err != nil {
		return fmt.Errorf("failed to parse legacy catalog: %w", err)
	}

	repo := NewCatalogRepository(db)
	return db.Transaction(func(tx *gorm.DB) error {
		for _, lp := range legacy {
			product := Product{
				ID:          lp.ID,
				Name:        lp.Name,
				Price:       decimal.NewFromFloat(lp.Price),
				Description: lp.Description,
				Image:       lp.Image,
			}
			if err := tx.Create(&product).Error; err != nil {
				return err
			}
			names := make([]string, 0, len(lp.Tags))
			seen := make(map[string]bool)
			for _, name := range lp.Tags {
				if name == "" || seen[name] {
					continue
				}
				seen[name] = true
				names = append(names, name)
			}
			if err := repo.replaceTags(tx, product.ID, names); err != nil {
				return err
			}
		}
		return syncProductIDSequence(tx)
	})
}

// syncProductIDSequence advances the products id sequence past the imported
// ids. Postgres sequences do not move on explicit-id inserts, so without
// this the next CreateProduct would draw an already-taken id. Sqlite
// allocates rowids as max+1 and needs nothing.
func syncProductIDSequence(tx *gorm.DB) error {
	if tx.Dialector.Name() != "postgres" {
		return nil
	}
	return tx.Exec("SELECT setval(pg_get_serial_sequence('products','id'), (SELECT MAX(id) FROM products))").Error
}
