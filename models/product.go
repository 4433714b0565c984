package models

import (
	"github.com/shopspring/decimal"
)

// Product represents a product in the catalog.
// It includes a name, price, optional description, and an optional image
// reference pointing into the managed uploads area.
type Product struct {
	ID          uint            `gorm:"primaryKey"`
	Name        string          `gorm:"not null"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Description string
	Image       string

	// Tags holds the product's tag names ordered by insertion. It is
	// populated by the repository, not by GORM.
	Tags []string `gorm:"-"`
}

func (p *Product) TableName() string {
	return "products"
}

// ProductInput carries the fields accepted when creating or updating a
// product. Tags is the already split and deduplicated tag name list.
type ProductInput struct {
	Name        string
	Price       decimal.Decimal
	Description string
	Image       string
	Tags        []string
}
