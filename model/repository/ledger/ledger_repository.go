package ledger

import (
	"fmt"

	"gorm.io/gorm"

	"stockledger.GO/core/errs"
	stockEntity "stockledger.GO/model/entity/stock"
)

// Repository appends and reads stock_ledger rows. Append-only: there is no
// update or delete path, corrections are new movements.
type Repository struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Append inserts one ledger entry. The balance must be the value returned
// by the stock repository call in the same unit of work, never a re-read.
// Exactly one of QuantityIn/QuantityOut must be set.
func (r *Repository) Append(entry *stockEntity.LedgerEntry) error {
	if (entry.QuantityIn == nil) == (entry.QuantityOut == nil) {
		return errs.Validationf("ledger entry must set exactly one of quantity_in/quantity_out")
	}
	if entry.QuantityIn != nil && *entry.QuantityIn <= 0 {
		return errs.Validationf("ledger quantity_in must be positive, got %d", *entry.QuantityIn)
	}
	if entry.QuantityOut != nil && *entry.QuantityOut <= 0 {
		return errs.Validationf("ledger quantity_out must be positive, got %d", *entry.QuantityOut)
	}
	if err := r.db.Create(entry).Error; err != nil {
		return fmt.Errorf("ledger append: %w", err)
	}
	return nil
}

// ForItem returns the bin card for one stock key, chronologically.
func (r *Repository) ForItem(productID, variationID uint) ([]stockEntity.LedgerEntry, error) {
	var entries []stockEntity.LedgerEntry
	err := r.db.Where("product_id = ? AND variation_id = ?", productID, variationID).
		Order("ledger_id").Find(&entries).Error
	return entries, err
}

// ForReference returns all entries created by one document.
func (r *Repository) ForReference(movementType string, referenceID uint) ([]stockEntity.LedgerEntry, error) {
	var entries []stockEntity.LedgerEntry
	err := r.db.Where("type = ? AND reference_id = ?", movementType, referenceID).
		Order("ledger_id").Find(&entries).Error
	return entries, err
}

// Recent returns the newest entries, most recent first.
func (r *Repository) Recent(limit int) ([]stockEntity.LedgerEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	var entries []stockEntity.LedgerEntry
	err := r.db.Order("ledger_id DESC").Limit(limit).Find(&entries).Error
	return entries, err
}
