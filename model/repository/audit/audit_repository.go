package audit

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"gorm.io/gorm"

	stockEntity "stockledger.GO/model/entity/stock"
)

// Entry is the input for one audit record. Old and New are typed snapshot
// values (or slices of them) serialized into the JSON columns.
type Entry struct {
	Actor       string
	ActionType  string
	EntityName  string
	ReferenceID uint
	Old         interface{}
	New         interface{}
}

// Repository appends and reads audit_log rows. Append-only.
type Repository struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Append inserts one audit entry and returns it.
func (r *Repository) Append(e Entry) (*stockEntity.AuditLogEntry, error) {
	oldJSON, err := marshalSnapshot(e.Old)
	if err != nil {
		return nil, fmt.Errorf("audit old value: %w", err)
	}
	newJSON, err := marshalSnapshot(e.New)
	if err != nil {
		return nil, fmt.Errorf("audit new value: %w", err)
	}

	row := stockEntity.AuditLogEntry{
		Actor:       e.Actor,
		ActionType:  e.ActionType,
		EntityName:  e.EntityName,
		ReferenceID: e.ReferenceID,
		ActionDate:  time.Now(),
		OldValue:    oldJSON,
		NewValue:    newJSON,
	}
	if err := r.db.Create(&row).Error; err != nil {
		return nil, fmt.Errorf("audit append: %w", err)
	}
	return &row, nil
}

// ForEntity returns audit entries for one entity/reference pair, newest first.
func (r *Repository) ForEntity(entityName string, referenceID uint) ([]stockEntity.AuditLogEntry, error) {
	var entries []stockEntity.AuditLogEntry
	err := r.db.Where("entity_name = ? AND reference_id = ?", entityName, referenceID).
		Order("audit_id DESC").Find(&entries).Error
	return entries, err
}

// Recent returns the newest audit entries.
func (r *Repository) Recent(limit int) ([]stockEntity.AuditLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	var entries []stockEntity.AuditLogEntry
	err := r.db.Order("audit_id DESC").Limit(limit).Find(&entries).Error
	return entries, err
}

// marshalSnapshot serializes a snapshot value; "null" JSON for nil so the
// column stays valid JSON.
func marshalSnapshot(v interface{}) ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

// DecodeStockSnapshots decodes the new_value column of a stock mutation
// audit entry back into typed snapshots.
func DecodeStockSnapshots(e *stockEntity.AuditLogEntry) ([]stockEntity.StockMutationSnapshot, error) {
	var raw []map[string]interface{}
	if err := json.Unmarshal(e.NewValue, &raw); err != nil {
		return nil, fmt.Errorf("audit snapshot decode: %w", err)
	}
	out := make([]stockEntity.StockMutationSnapshot, 0, len(raw))
	for _, m := range raw {
		var snap stockEntity.StockMutationSnapshot
		if err := mapstructure.WeakDecode(m, &snap); err != nil {
			return nil, fmt.Errorf("audit snapshot decode: %w", err)
		}
		out = append(out, snap)
	}
	return out, nil
}
