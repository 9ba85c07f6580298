package stock

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stockledger.GO/core/errs"
	stockEntity "stockledger.GO/model/entity/stock"
)

// Key identifies one stock record. VariationID 0 means product-level stock.
type Key struct {
	ProductID   uint
	VariationID uint
}

func (k Key) String() string {
	return fmt.Sprintf("%d/%d", k.ProductID, k.VariationID)
}

// Repository reads and mutates stock_record rows. Mutating methods must be
// called with a transaction-scoped *gorm.DB (core/txn); decrements use
// guarded updates so concurrent callers on the same key cannot drive the
// quantity negative.
type Repository struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Get returns the stock record for a key, or errs.ErrNoStockFound.
func (r *Repository) Get(key Key) (*stockEntity.StockRecord, error) {
	var rec stockEntity.StockRecord
	err := r.db.Where("product_id = ? AND variation_id = ?", key.ProductID, key.VariationID).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: product %d variation %d", errs.ErrNoStockFound, key.ProductID, key.VariationID)
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetOrNil returns the record or nil when absent.
func (r *Repository) GetOrNil(key Key) (*stockEntity.StockRecord, error) {
	rec, err := r.Get(key)
	if errors.Is(err, errs.ErrNoStockFound) {
		return nil, nil
	}
	return rec, err
}

// GetForKeys fetches all records for a key set in one query (row-value IN),
// keyed back by (product, variation). Absent keys are simply missing from
// the map.
func (r *Repository) GetForKeys(keys []Key) (map[Key]*stockEntity.StockRecord, error) {
	out := make(map[Key]*stockEntity.StockRecord, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	pairs := make([][]interface{}, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, []interface{}{k.ProductID, k.VariationID})
	}
	var recs []stockEntity.StockRecord
	if err := r.db.Where("(product_id, variation_id) IN ?", pairs).Find(&recs).Error; err != nil {
		return nil, err
	}
	for i := range recs {
		rec := &recs[i]
		out[Key{ProductID: rec.ProductID, VariationID: rec.VariationID}] = rec
	}
	return out, nil
}

// Increment adds delta to the key's quantity, lazily creating the record
// with the default reorder level on first receipt. Returns the quantity
// before and after the movement, both read inside the caller's transaction.
func (r *Repository) Increment(key Key, delta int, location string) (before, after int, err error) {
	if delta <= 0 {
		return 0, 0, errs.Validationf("increment delta must be positive, got %d", delta)
	}

	existing, err := r.GetOrNil(key)
	if err != nil {
		return 0, 0, err
	}
	if existing != nil {
		before = existing.QuantityAvailable
	}

	row := stockEntity.StockRecord{
		ProductID:         key.ProductID,
		VariationID:       key.VariationID,
		QuantityAvailable: delta,
		ReorderLevel:      stockEntity.DefaultReorderLevel,
		Location:          location,
	}
	upsert := clause.OnConflict{
		Columns: []clause.Column{{Name: "product_id"}, {Name: "variation_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity_available": gorm.Expr("quantity_available + ?", delta),
			"last_updated":       time.Now(),
		}),
	}
	if err := r.db.Clauses(upsert).Create(&row).Error; err != nil {
		return 0, 0, fmt.Errorf("stock increment: %w", err)
	}

	rec, err := r.Get(key)
	if err != nil {
		return 0, 0, err
	}
	return before, rec.QuantityAvailable, nil
}

// Decrement subtracts delta from the key's quantity. The update is guarded
// by quantity_available >= delta, so the non-negativity invariant holds even
// under concurrent decrements; zero rows affected means the freshest
// quantity was insufficient.
func (r *Repository) Decrement(key Key, delta int) (before, after int, err error) {
	if delta <= 0 {
		return 0, 0, errs.Validationf("decrement delta must be positive, got %d", delta)
	}

	rec, err := r.Get(key)
	if err != nil {
		return 0, 0, err
	}
	before = rec.QuantityAvailable

	res := r.db.Model(&stockEntity.StockRecord{}).
		Where("product_id = ? AND variation_id = ? AND quantity_available >= ?",
			key.ProductID, key.VariationID, delta).
		Updates(map[string]interface{}{
			"quantity_available": gorm.Expr("quantity_available - ?", delta),
			"last_updated":       time.Now(),
		})
	if res.Error != nil {
		return 0, 0, fmt.Errorf("stock decrement: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, 0, &errs.InsufficientStockError{
			ProductID:   key.ProductID,
			VariationID: variationPtr(key.VariationID),
			Available:   before,
			Required:    delta,
		}
	}

	fresh, err := r.Get(key)
	if err != nil {
		return 0, 0, err
	}
	return before, fresh.QuantityAvailable, nil
}

// All returns every stock record ordered by key.
func (r *Repository) All() ([]stockEntity.StockRecord, error) {
	var recs []stockEntity.StockRecord
	err := r.db.Order("product_id, variation_id").Find(&recs).Error
	return recs, err
}

// BelowReorderLevel returns records at or below their reorder level.
func (r *Repository) BelowReorderLevel() ([]stockEntity.StockRecord, error) {
	var recs []stockEntity.StockRecord
	err := r.db.Where("quantity_available <= reorder_level").
		Order("product_id, variation_id").Find(&recs).Error
	return recs, err
}

func variationPtr(v uint) *uint {
	if v == 0 {
		return nil
	}
	return &v
}
