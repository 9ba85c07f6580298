package catalog

import "time"

// Variation represents the product_variation table. Stock is tracked per
// (product_id, variation_id); the product_id column is denormalized here so
// stock lookups never need a join through product_version.
type Variation struct {
	VariationID uint       `gorm:"column:variation_id;primaryKey;autoIncrement" json:"variation_id"`
	VersionID   uint       `gorm:"column:version_id;not null;index" json:"version_id"`
	ProductID   uint       `gorm:"column:product_id;not null;index" json:"product_id"`
	SKU         string     `gorm:"column:sku;type:varchar(64);not null;uniqueIndex" json:"sku"`
	IsActive    bool       `gorm:"column:is_active;not null;default:true" json:"is_active"`
	DeletedAt   *time.Time `gorm:"column:deleted_at" json:"deleted_at,omitempty"`
	DeletedBy   *string    `gorm:"column:deleted_by;type:varchar(64)" json:"deleted_by,omitempty"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Variation) TableName() string {
	return "product_variation"
}
