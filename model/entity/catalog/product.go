package catalog

import "time"

// Product represents the product table. Deletion is always logical
// (is_active + deleted_at/deleted_by); rows are never removed so that
// ledger history stays resolvable.
type Product struct {
	ProductID uint       `gorm:"column:product_id;primaryKey;autoIncrement" json:"product_id"`
	SKU       string     `gorm:"column:sku;type:varchar(64);not null;uniqueIndex" json:"sku"`
	Name      string     `gorm:"column:name;type:varchar(255);not null" json:"name"`
	IsActive  bool       `gorm:"column:is_active;not null;default:true" json:"is_active"`
	DeletedAt *time.Time `gorm:"column:deleted_at" json:"deleted_at,omitempty"`
	DeletedBy *string    `gorm:"column:deleted_by;type:varchar(64)" json:"deleted_by,omitempty"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Product) TableName() string {
	return "product"
}
