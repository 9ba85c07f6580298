package catalog

import "time"

// ProductVersion represents the product_version table. A product owns zero
// or more versions; each version owns its variations.
type ProductVersion struct {
	VersionID uint       `gorm:"column:version_id;primaryKey;autoIncrement" json:"version_id"`
	ProductID uint       `gorm:"column:product_id;not null;index" json:"product_id"`
	Name      string     `gorm:"column:name;type:varchar(255);not null" json:"name"`
	IsActive  bool       `gorm:"column:is_active;not null;default:true" json:"is_active"`
	DeletedAt *time.Time `gorm:"column:deleted_at" json:"deleted_at,omitempty"`
	DeletedBy *string    `gorm:"column:deleted_by;type:varchar(64)" json:"deleted_by,omitempty"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (ProductVersion) TableName() string {
	return "product_version"
}
