package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	stockEntity "stockledger.GO/model/entity/stock"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	tmpFile := filepath.Join(os.TempDir(), fmt.Sprintf("audit_repo_test_%s_%d.db", t.Name(), time.Now().UnixNano()))
	t.Cleanup(func() { os.Remove(tmpFile) })
	db, err := gorm.Open(sqlite.Open(tmpFile), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")
	if err := db.AutoMigrate(&stockEntity.AuditLogEntry{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestAppend_TypedSnapshotRoundTrip(t *testing.T) {
	repo := New(testDB(t))

	snapshots := []stockEntity.StockMutationSnapshot{
		{ProductID: 1, VariationID: 2, QuantityBefore: 0, QuantityAfter: 50, DocumentID: 9, DocumentNo: "GRN-20260901-AAAAAA"},
		{ProductID: 3, QuantityBefore: 10, QuantityAfter: 4, DocumentID: 9, DocumentNo: "GRN-20260901-AAAAAA"},
	}
	row, err := repo.Append(Entry{
		Actor:       "storekeeper",
		ActionType:  stockEntity.ActionStockReceipt,
		EntityName:  "stock_record",
		ReferenceID: 9,
		New:         snapshots,
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if row.AuditID == 0 {
		t.Fatal("AuditID not set")
	}

	entries, err := repo.ForEntity("stock_record", 9)
	if err != nil {
		t.Fatalf("ForEntity: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("len = %d, want 1", len(entries))
	}

	decoded, err := DecodeStockSnapshots(&entries[0])
	if err != nil {
		t.Fatalf("DecodeStockSnapshots: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("decoded len = %d, want 2", len(decoded))
	}
	if decoded[0] != snapshots[0] {
		t.Errorf("decoded[0] = %+v, want %+v", decoded[0], snapshots[0])
	}
	if decoded[1] != snapshots[1] {
		t.Errorf("decoded[1] = %+v, want %+v", decoded[1], snapshots[1])
	}
}

func TestAppend_NilSnapshotStoresJSONNull(t *testing.T) {
	repo := New(testDB(t))
	row, err := repo.Append(Entry{
		Actor:       "system",
		ActionType:  stockEntity.ActionCascadeDelete,
		EntityName:  "product",
		ReferenceID: 1,
		New: []stockEntity.SoftDeleteSnapshot{
			{Entity: "product", ID: 1, IsActive: false},
		},
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if string(row.OldValue) != "null" {
		t.Errorf("OldValue = %s, want null", row.OldValue)
	}
	var snaps []stockEntity.SoftDeleteSnapshot
	if err := json.Unmarshal(row.NewValue, &snaps); err != nil {
		t.Fatalf("NewValue not valid JSON: %v", err)
	}
	if len(snaps) != 1 || snaps[0].Entity != "product" {
		t.Errorf("NewValue = %s", row.NewValue)
	}
}

func TestRecent_NewestFirst(t *testing.T) {
	repo := New(testDB(t))
	for i := uint(1); i <= 3; i++ {
		if _, err := repo.Append(Entry{
			Actor:       "a",
			ActionType:  stockEntity.ActionStockIssue,
			EntityName:  "stock_record",
			ReferenceID: i,
		}); err != nil {
			t.Fatal(err)
		}
	}
	entries, err := repo.Recent(2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len = %d, want 2", len(entries))
	}
	if entries[0].ReferenceID != 3 {
		t.Errorf("newest reference = %d, want 3", entries[0].ReferenceID)
	}
}
