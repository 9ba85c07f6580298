package catalog

import "time"

// SpecDetail represents the variation_spec_detail table (one attribute/value
// pair of a variation).
type SpecDetail struct {
	SpecDetailID uint       `gorm:"column:spec_detail_id;primaryKey;autoIncrement" json:"spec_detail_id"`
	VariationID  uint       `gorm:"column:variation_id;not null;index" json:"variation_id"`
	Name         string     `gorm:"column:name;type:varchar(128);not null" json:"name"`
	Value        string     `gorm:"column:value;type:varchar(255);not null" json:"value"`
	IsActive     bool       `gorm:"column:is_active;not null;default:true" json:"is_active"`
	DeletedAt    *time.Time `gorm:"column:deleted_at" json:"deleted_at,omitempty"`
	DeletedBy    *string    `gorm:"column:deleted_by;type:varchar(64)" json:"deleted_by,omitempty"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (SpecDetail) TableName() string {
	return "variation_spec_detail"
}
