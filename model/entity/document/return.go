package document

import "time"

// Return request states. PENDING is initial; APPROVED and REJECTED are
// terminal.
const (
	ReturnStatusPending  = "PENDING"
	ReturnStatusApproved = "APPROVED"
	ReturnStatusRejected = "REJECTED"
)

// ReturnRequest represents the return_request table. Status and the
// approval fields are the only mutable columns.
type ReturnRequest struct {
	ReturnID     uint       `gorm:"column:return_id;primaryKey;autoIncrement" json:"return_id"`
	ReturnNumber string     `gorm:"column:return_number;type:varchar(64);not null;uniqueIndex" json:"return_number"`
	SupplierID   uint       `gorm:"column:supplier_id;not null;index" json:"supplier_id"`
	RequestedBy  string     `gorm:"column:requested_by;type:varchar(64);not null" json:"requested_by"`
	ReturnDate   time.Time  `gorm:"column:return_date;not null" json:"return_date"`
	Reason       string     `gorm:"column:reason;type:varchar(255);not null" json:"reason"`
	Status       string     `gorm:"column:status;type:varchar(16);not null;default:PENDING" json:"status"`
	Approved     bool       `gorm:"column:approved;not null;default:false" json:"approved"`
	ApprovedBy   *string    `gorm:"column:approved_by;type:varchar(64)" json:"approved_by,omitempty"`
	ApprovedAt   *time.Time `gorm:"column:approved_at" json:"approved_at,omitempty"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	Lines []ReturnLine `gorm:"foreignKey:ReturnID;references:ReturnID" json:"lines,omitempty"`
}

func (ReturnRequest) TableName() string {
	return "return_request"
}

// ReturnLine represents the return_line table.
type ReturnLine struct {
	LineID      uint   `gorm:"column:line_id;primaryKey;autoIncrement" json:"line_id"`
	ReturnID    uint   `gorm:"column:return_id;not null;index" json:"return_id"`
	ProductID   uint   `gorm:"column:product_id;not null" json:"product_id"`
	VariationID uint   `gorm:"column:variation_id;not null;default:0" json:"variation_id,omitempty"`
	Quantity    int    `gorm:"column:quantity;not null" json:"quantity"`
	Remarks     string `gorm:"column:remarks;type:varchar(255)" json:"remarks,omitempty"`
}

func (ReturnLine) TableName() string {
	return "return_line"
}
