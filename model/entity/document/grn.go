package document

import (
	"time"

	"github.com/shopspring/decimal"
)

// GoodsReceiptNote represents the goods_receipt_note table. Immutable once
// created; corrections are new documents, never edits.
type GoodsReceiptNote struct {
	GrnID          uint            `gorm:"column:grn_id;primaryKey;autoIncrement" json:"grn_id"`
	GrnNumber      string          `gorm:"column:grn_number;type:varchar(64);not null;uniqueIndex" json:"grn_number"`
	IdempotencyKey *string         `gorm:"column:idempotency_key;type:varchar(128);uniqueIndex" json:"idempotency_key,omitempty"`
	SupplierID     uint            `gorm:"column:supplier_id;not null;index" json:"supplier_id"`
	ReceivedDate   time.Time       `gorm:"column:received_date;not null" json:"received_date"`
	TotalAmount    decimal.Decimal `gorm:"column:total_amount;type:decimal(12,4);not null" json:"total_amount"`
	Remarks        string          `gorm:"column:remarks;type:varchar(255)" json:"remarks,omitempty"`
	CreatedBy      string          `gorm:"column:created_by;type:varchar(64);not null" json:"created_by"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	Lines []GoodsReceiptLine `gorm:"foreignKey:GrnID;references:GrnID" json:"lines,omitempty"`
}

func (GoodsReceiptNote) TableName() string {
	return "goods_receipt_note"
}

// GoodsReceiptLine represents the goods_receipt_line table.
type GoodsReceiptLine struct {
	LineID           uint            `gorm:"column:line_id;primaryKey;autoIncrement" json:"line_id"`
	GrnID            uint            `gorm:"column:grn_id;not null;index" json:"grn_id"`
	ProductID        uint            `gorm:"column:product_id;not null" json:"product_id"`
	VariationID      uint            `gorm:"column:variation_id;not null;default:0" json:"variation_id,omitempty"`
	QuantityReceived int             `gorm:"column:quantity_received;not null" json:"quantity_received"`
	UnitCost         decimal.Decimal `gorm:"column:unit_cost;type:decimal(12,4);not null" json:"unit_cost"`
	SubTotal         decimal.Decimal `gorm:"column:sub_total;type:decimal(12,4);not null" json:"sub_total"`
	Location         string          `gorm:"column:location;type:varchar(128)" json:"location,omitempty"`
}

func (GoodsReceiptLine) TableName() string {
	return "goods_receipt_line"
}
