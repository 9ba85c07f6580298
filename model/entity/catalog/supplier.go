package catalog

import "time"

// Supplier represents the supplier table.
type Supplier struct {
	SupplierID uint       `gorm:"column:supplier_id;primaryKey;autoIncrement" json:"supplier_id"`
	Name       string     `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Email      string     `gorm:"column:email;type:varchar(255)" json:"email,omitempty"`
	Phone      string     `gorm:"column:phone;type:varchar(32)" json:"phone,omitempty"`
	IsActive   bool       `gorm:"column:is_active;not null;default:true" json:"is_active"`
	DeletedAt  *time.Time `gorm:"column:deleted_at" json:"deleted_at,omitempty"`
	DeletedBy  *string    `gorm:"column:deleted_by;type:varchar(64)" json:"deleted_by,omitempty"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Supplier) TableName() string {
	return "supplier"
}
