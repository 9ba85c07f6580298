package ledger

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"stockledger.GO/core/errs"
	stockEntity "stockledger.GO/model/entity/stock"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	tmpFile := filepath.Join(os.TempDir(), fmt.Sprintf("ledger_repo_test_%s_%d.db", t.Name(), time.Now().UnixNano()))
	t.Cleanup(func() { os.Remove(tmpFile) })
	db, err := gorm.Open(sqlite.Open(tmpFile), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")
	if err := db.AutoMigrate(&stockEntity.LedgerEntry{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func intp(v int) *int { return &v }

func entry(productID uint, in, out *int, balance int) *stockEntity.LedgerEntry {
	return &stockEntity.LedgerEntry{
		ProductID:   productID,
		TxnDate:     time.Now(),
		Type:        stockEntity.MovementGRN,
		ReferenceID: 1,
		ReferenceNo: "GRN-20260901-TEST01",
		QuantityIn:  in,
		QuantityOut: out,
		Balance:     balance,
		Actor:       "tester",
	}
}

func TestAppend_RequiresExactlyOneDirection(t *testing.T) {
	repo := New(testDB(t))

	if err := repo.Append(entry(1, nil, nil, 0)); !errors.Is(err, errs.ErrValidation) {
		t.Errorf("neither set: got %v, want validation error", err)
	}
	if err := repo.Append(entry(1, intp(5), intp(5), 0)); !errors.Is(err, errs.ErrValidation) {
		t.Errorf("both set: got %v, want validation error", err)
	}
	if err := repo.Append(entry(1, intp(0), nil, 0)); !errors.Is(err, errs.ErrValidation) {
		t.Errorf("zero quantity: got %v, want validation error", err)
	}
	if err := repo.Append(entry(1, nil, intp(-2), 0)); !errors.Is(err, errs.ErrValidation) {
		t.Errorf("negative quantity: got %v, want validation error", err)
	}
	if err := repo.Append(entry(1, intp(5), nil, 5)); err != nil {
		t.Errorf("valid entry rejected: %v", err)
	}
}

func TestForItem_ChronologicalOrder(t *testing.T) {
	repo := New(testDB(t))
	for i, bal := range []int{10, 7, 12} {
		e := entry(1, intp(1), nil, bal)
		if i == 1 {
			e = entry(1, nil, intp(3), bal)
			e.Type = stockEntity.MovementGIN
		}
		if err := repo.Append(e); err != nil {
			t.Fatalf("Append %d: %v", i, err)
		}
	}
	// Another item, must not leak in.
	if err := repo.Append(entry(2, intp(4), nil, 4)); err != nil {
		t.Fatal(err)
	}

	entries, err := repo.ForItem(1, 0)
	if err != nil {
		t.Fatalf("ForItem: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("len = %d, want 3", len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].LedgerID < entries[i-1].LedgerID {
			t.Error("entries not in insertion order")
		}
	}
	wantBalances := []int{10, 7, 12}
	for i, e := range entries {
		if e.Balance != wantBalances[i] {
			t.Errorf("entry %d balance = %d, want %d", i, e.Balance, wantBalances[i])
		}
	}
}

func TestForReference(t *testing.T) {
	repo := New(testDB(t))
	grn := entry(1, intp(5), nil, 5)
	grn.ReferenceID = 77
	if err := repo.Append(grn); err != nil {
		t.Fatal(err)
	}
	gin := entry(1, nil, intp(2), 3)
	gin.Type = stockEntity.MovementGIN
	gin.ReferenceID = 77
	if err := repo.Append(gin); err != nil {
		t.Fatal(err)
	}

	got, err := repo.ForReference(stockEntity.MovementGRN, 77)
	if err != nil {
		t.Fatalf("ForReference: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].QuantityIn == nil || *got[0].QuantityIn != 5 {
		t.Error("wrong entry returned")
	}
}

func TestRecent_NewestFirst(t *testing.T) {
	repo := New(testDB(t))
	for i := 0; i < 5; i++ {
		if err := repo.Append(entry(1, intp(1), nil, i+1)); err != nil {
			t.Fatal(err)
		}
	}
	entries, err := repo.Recent(3)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("len = %d, want 3", len(entries))
	}
	if entries[0].Balance != 5 {
		t.Errorf("newest balance = %d, want 5", entries[0].Balance)
	}
}
