package stock

import (
	"time"

	"gorm.io/datatypes"
)

// Audit action types.
const (
	ActionStockReceipt   = "STOCK_RECEIPT"
	ActionStockIssue     = "STOCK_ISSUE"
	ActionReturnApproval = "RETURN_APPROVAL"
	ActionCascadeDelete  = "CASCADE_DELETE"
)

// AuditLogEntry represents the audit_log table: append-only before/after
// snapshots of every mutating action. old_value/new_value hold typed
// snapshot variants (StockMutationSnapshot, SoftDeleteSnapshot) as JSON,
// not opaque blobs, so they stay queryable.
type AuditLogEntry struct {
	AuditID     uint           `gorm:"column:audit_id;primaryKey;autoIncrement" json:"audit_id"`
	Actor       string         `gorm:"column:actor;type:varchar(64);not null" json:"actor"`
	ActionType  string         `gorm:"column:action_type;type:varchar(32);not null;index" json:"action_type"`
	EntityName  string         `gorm:"column:entity_name;type:varchar(64);not null" json:"entity_name"`
	ReferenceID uint           `gorm:"column:reference_id;not null;index" json:"reference_id"`
	ActionDate  time.Time      `gorm:"column:action_date;not null" json:"action_date"`
	OldValue    datatypes.JSON `gorm:"column:old_value" json:"old_value,omitempty"`
	NewValue    datatypes.JSON `gorm:"column:new_value" json:"new_value,omitempty"`
}

func (AuditLogEntry) TableName() string {
	return "audit_log"
}

// StockMutationSnapshot is the audit payload for one stock delta.
type StockMutationSnapshot struct {
	ProductID      uint   `json:"product_id" mapstructure:"product_id"`
	VariationID    uint   `json:"variation_id,omitempty" mapstructure:"variation_id"`
	QuantityBefore int    `json:"quantity_before" mapstructure:"quantity_before"`
	QuantityAfter  int    `json:"quantity_after" mapstructure:"quantity_after"`
	DocumentID     uint   `json:"document_id" mapstructure:"document_id"`
	DocumentNo     string `json:"document_no" mapstructure:"document_no"`
}

// SoftDeleteSnapshot is the audit payload for one logically deleted row.
type SoftDeleteSnapshot struct {
	Entity   string `json:"entity" mapstructure:"entity"`
	ID       uint   `json:"id" mapstructure:"id"`
	IsActive bool   `json:"is_active" mapstructure:"is_active"`
}
