package models

import (
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrProductNotFound is returned when a product is not found.
var ErrProductNotFound = errors.New("product not found")

// CatalogRepository provides access to products, tags, and their
// associations. Every mutation runs as a single transaction, including the
// orphan-tag cleanup, so readers never observe a half-updated product.
type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{
		db: db,
	}
}

// SplitTagNames splits a raw comma-separated tag string, trims whitespace,
// drops empty entries, and deduplicates while preserving first-seen order.
func SplitTagNames(raw string) []string {
	names := make([]string, 0)
	seen := make(map[string]bool)
	for _, part := range strings.Split(raw, ",") {
		name := strings.TrimSpace(part)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

// ListProducts returns the full catalog ordered by id, each product
// carrying its tag names in insertion order.
func (r *CatalogRepository) ListProducts() ([]Product, error) {
	var products []Product
	if err := r.db.Order("id").Find(&products).Error; err != nil {
		return nil, err
	}

	type tagRow struct {
		ProductID uint
		Name      string
	}
	var rows []tagRow
	if err := r.db.Table("product_tags").
		Select("product_tags.product_id, tags.name").
		Joins("JOIN tags ON tags.id = product_tags.tag_id").
		Order("product_tags.product_id, product_tags.position").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	byProduct := make(map[uint][]string, len(products))
	for _, row := range rows {
		byProduct[row.ProductID] = append(byProduct[row.ProductID], row.Name)
	}
	for i := range products {
		products[i].Tags = byProduct[products[i].ID]
		if products[i].Tags == nil {
			products[i].Tags = make([]string, 0)
		}
	}
	return products, nil
}

// ListTagNames returns all tag names currently referenced by at least one
// product, ordered by name.
func (r *CatalogRepository) ListTagNames() ([]string, error) {
	names := make([]string, 0)
	if err := r.db.Model(&Tag{}).Order("name").Pluck("name", &names).Error; err != nil {
		return nil, err
	}
	return names, nil
}

// GetProduct returns a single product with its tags.
func (r *CatalogRepository) GetProduct(id uint) (*Product, error) {
	var product Product
	if err := r.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	tags, err := r.productTags(r.db, id)
	if err != nil {
		return nil, err
	}
	product.Tags = tags
	return &product, nil
}

// CreateProduct inserts a product and resolves its tag associations. Tags
// are looked up or created by name; the association insert ignores
// duplicates, so repeated names cannot produce duplicate links.
func (r *CatalogRepository) CreateProduct(in ProductInput) (*Product, error) {
	product := Product{
		Name:        in.Name,
		Price:       in.Price,
		Description: in.Description,
		Image:       in.Image,
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&product).Error; err != nil {
			return err
		}
		return r.replaceTags(tx, product.ID, in.Tags)
	})
	if err != nil {
		return nil, err
	}
	product.Tags = tagsOrEmpty(in.Tags)
	return &product, nil
}

// UpdateProduct replaces a product's fields and fully replaces its tag
// associations. The image column is only touched when replaceImage is set.
// Tags left without any association afterwards are deleted.
func (r *CatalogRepository) UpdateProduct(id uint, in ProductInput, replaceImage bool) (*Product, error) {
	var product Product
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		updates := map[string]interface{}{
			"name":        in.Name,
			"price":       in.Price,
			"description": in.Description,
		}
		if replaceImage {
			updates["image"] = in.Image
		}
		if err := tx.Model(&product).Updates(updates).Error; err != nil {
			return err
		}

		if err := tx.Where("product_id = ?", id).Delete(&ProductTag{}).Error; err != nil {
			return err
		}
		if err := r.replaceTags(tx, id, in.Tags); err != nil {
			return err
		}
		return deleteOrphanTags(tx)
	})
	if err != nil {
		return nil, err
	}
	product.Name = in.Name
	product.Price = in.Price
	product.Description = in.Description
	if replaceImage {
		product.Image = in.Image
	}
	product.Tags = tagsOrEmpty(in.Tags)
	return &product, nil
}

// DeleteProduct removes a product, its associations, and any tags left
// unreferenced. It returns the product's image reference so the caller can
// remove the file from the managed uploads area.
func (r *CatalogRepository) DeleteProduct(id uint) (string, error) {
	var image string
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var product Product
		if err := tx.First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}
		image = product.Image

		if err := tx.Where("product_id = ?", id).Delete(&ProductTag{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&Product{}, id).Error; err != nil {
			return err
		}
		return deleteOrphanTags(tx)
	})
	if err != nil {
		return "", err
	}
	return image, nil
}

// replaceTags creates associations for the given tag names, creating the
// tags themselves where missing. Position preserves input order.
func (r *CatalogRepository) replaceTags(tx *gorm.DB, productID uint, names []string) error {
	for i, name := range names {
		tag := Tag{Name: name}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&tag).Error; err != nil {
			return err
		}
		if tag.ID == 0 {
			// Conflict: the tag already existed, fetch it.
			if err := tx.Where("name = ?", name).First(&tag).Error; err != nil {
				return err
			}
		}
		link := ProductTag{ProductID: productID, TagID: tag.ID, Position: i}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *CatalogRepository) productTags(tx *gorm.DB, productID uint) ([]string, error) {
	names := make([]string, 0)
	err := tx.Table("product_tags").
		Select("tags.name").
		Joins("JOIN tags ON tags.id = product_tags.tag_id").
		Where("product_tags.product_id = ?", productID).
		Order("product_tags.position").
		Pluck("tags.name", &names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}

func deleteOrphanTags(tx *gorm.DB) error {
	return tx.Exec("DELETE FROM tags WHERE id NOT IN (SELECT tag_id FROM product_tags)").Error
}

func tagsOrEmpty(names []string) []string {
	if names == nil {
		return make([]string, 0)
	}
	return names
}
