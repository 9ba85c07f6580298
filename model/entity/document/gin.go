package document

import (
	"time"

	"github.com/shopspring/decimal"
)

// GoodsIssueNote represents the goods_issue_note table. Immutable once
// created.
type GoodsIssueNote struct {
	GinID          uint      `gorm:"column:gin_id;primaryKey;autoIncrement" json:"gin_id"`
	GinNumber      string    `gorm:"column:gin_number;type:varchar(64);not null;uniqueIndex" json:"gin_number"`
	IdempotencyKey *string   `gorm:"column:idempotency_key;type:varchar(128);uniqueIndex" json:"idempotency_key,omitempty"`
	IssuedTo       string    `gorm:"column:issued_to;type:varchar(128);not null" json:"issued_to"`
	IssueReason    string    `gorm:"column:issue_reason;type:varchar(255);not null" json:"issue_reason"`
	IssueDate      time.Time `gorm:"column:issue_date;not null" json:"issue_date"`
	Remarks        string    `gorm:"column:remarks;type:varchar(255)" json:"remarks,omitempty"`
	CreatedBy      string    `gorm:"column:created_by;type:varchar(64);not null" json:"created_by"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	Lines []GoodsIssueLine `gorm:"foreignKey:GinID;references:GinID" json:"lines,omitempty"`
}

func (GoodsIssueNote) TableName() string {
	return "goods_issue_note"
}

// GoodsIssueLine represents the goods_issue_line table.
type GoodsIssueLine struct {
	LineID         uint            `gorm:"column:line_id;primaryKey;autoIncrement" json:"line_id"`
	GinID          uint            `gorm:"column:gin_id;not null;index" json:"gin_id"`
	ProductID      uint            `gorm:"column:product_id;not null" json:"product_id"`
	VariationID    uint            `gorm:"column:variation_id;not null;default:0" json:"variation_id,omitempty"`
	QuantityIssued int             `gorm:"column:quantity_issued;not null" json:"quantity_issued"`
	UnitCost       decimal.Decimal `gorm:"column:unit_cost;type:decimal(12,4);not null" json:"unit_cost"`
	SubTotal       decimal.Decimal `gorm:"column:sub_total;type:decimal(12,4);not null" json:"sub_total"`
}

func (GoodsIssueLine) TableName() string {
	return "goods_issue_line"
}
