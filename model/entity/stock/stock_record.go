package stock

import "time"

// DefaultReorderLevel is applied when a record is lazily created on first
// receipt without an explicit reorder level.
const DefaultReorderLevel = 10

// StockRecord represents the stock_record table: the authoritative on-hand
// quantity per (product_id, variation_id). Created lazily on first receipt,
// never deleted. quantity_available must never go below zero; decrements are
// guarded updates, not read-modify-write.
//
// variation_id is 0 for product-level stock. NULL is avoided on purpose:
// both MySQL and sqlite treat NULLs as distinct in unique indexes, which
// would allow duplicate product-level rows and break the upsert conflict
// target.
type StockRecord struct {
	StockID           uint      `gorm:"column:stock_id;primaryKey;autoIncrement" json:"stock_id"`
	ProductID         uint      `gorm:"column:product_id;not null;uniqueIndex:idx_stock_key" json:"product_id"`
	VariationID       uint      `gorm:"column:variation_id;not null;default:0;uniqueIndex:idx_stock_key" json:"variation_id,omitempty"`
	QuantityAvailable int       `gorm:"column:quantity_available;not null;default:0" json:"quantity_available"`
	ReorderLevel      int       `gorm:"column:reorder_level;not null;default:10" json:"reorder_level"`
	Location          string    `gorm:"column:location;type:varchar(128)" json:"location,omitempty"`
	LastUpdated       time.Time `gorm:"column:last_updated;autoUpdateTime" json:"last_updated"`
}

func (StockRecord) TableName() string {
	return "stock_record"
}
