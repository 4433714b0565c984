package models

// Tag is a label applied to products. Tags are created the first time a
// product references their name and deleted once no product does; they have
// no standalone lifecycle. Matching is exact-string, no normalization.
type Tag struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex;not null"`
}

func (t *Tag) TableName() string {
	return "tags"
}

// ProductTag links a product to a tag. Position records the first-seen
// index of the tag name in the submitted list so reads can return tag
// names in insertion order on any database.
type ProductTag struct {
	ProductID uint `gorm:"primaryKey"`
	TagID     uint `gorm:"primaryKey"`
	Position  int  `gorm:"not null"`
}

func (pt *ProductTag) TableName() string {
	return "product_tags"
}
