package stock

import "time"

// Ledger movement types.
const (
	MovementGRN       = "GRN"
	MovementGIN       = "GIN"
	MovementReturnOut = "RETURN_OUT"
)

// LedgerEntry represents the stock_ledger table (the bin card): one
// append-only row per stock delta. Exactly one of quantity_in/quantity_out
// is set, and balance equals the stock record's quantity immediately after
// the movement that produced the row.
type LedgerEntry struct {
	LedgerID    uint      `gorm:"column:ledger_id;primaryKey;autoIncrement" json:"ledger_id"`
	ProductID   uint      `gorm:"column:product_id;not null;index:idx_ledger_item" json:"product_id"`
	VariationID uint      `gorm:"column:variation_id;not null;default:0;index:idx_ledger_item" json:"variation_id,omitempty"`
	TxnDate     time.Time `gorm:"column:txn_date;not null" json:"txn_date"`
	Type        string    `gorm:"column:type;type:varchar(16);not null" json:"type"`
	ReferenceID uint      `gorm:"column:reference_id;not null" json:"reference_id"`
	ReferenceNo string    `gorm:"column:reference_no;type:varchar(64);not null" json:"reference_no"`
	QuantityIn  *int      `gorm:"column:quantity_in" json:"quantity_in,omitempty"`
	QuantityOut *int      `gorm:"column:quantity_out" json:"quantity_out,omitempty"`
	Balance     int       `gorm:"column:balance;not null" json:"balance"`
	Actor       string    `gorm:"column:actor;type:varchar(64);not null" json:"actor"`
	Remarks     string    `gorm:"column:remarks;type:varchar(255)" json:"remarks,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (LedgerEntry) TableName() string {
	return "stock_ledger"
}
