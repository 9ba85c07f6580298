package issue

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"stockledger.GO/core/errs"
	catalogEntity "stockledger.GO/model/entity/catalog"
	documentEntity "stockledger.GO/model/entity/document"
	stockEntity "stockledger.GO/model/entity/stock"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	tmpFile := filepath.Join(os.TempDir(), fmt.Sprintf("issue_svc_test_%s_%d.db", t.Name(), time.Now().UnixNano()))
	t.Cleanup(func() { os.Remove(tmpFile) })
	db, err := gorm.Open(sqlite.Open(tmpFile), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")
	if err := db.AutoMigrate(
		&catalogEntity.Product{},
		&catalogEntity.Variation{},
		&documentEntity.GoodsIssueNote{},
		&documentEntity.GoodsIssueLine{},
		&stockEntity.StockRecord{},
		&stockEntity.LedgerEntry{},
		&stockEntity.AuditLogEntry{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedProductWithStock(t *testing.T, db *gorm.DB, quantity int) uint {
	t.Helper()
	product := catalogEntity.Product{SKU: fmt.Sprintf("SKU-%d", time.Now().UnixNano()), Name: "Widget", IsActive: true}
	if err := db.Create(&product).Error; err != nil {
		t.Fatal(err)
	}
	rec := stockEntity.StockRecord{ProductID: product.ProductID, QuantityAvailable: quantity, ReorderLevel: 10}
	if err := db.Create(&rec).Error; err != nil {
		t.Fatal(err)
	}
	return product.ProductID
}

func validInput(productID uint, quantity int) CreateInput {
	return CreateInput{
		IssuedTo:    "production",
		IssueReason: "work order 42",
		IssueDate:   time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		Actor:       "storekeeper",
		Lines: []LineInput{
			{ProductID: productID, QuantityIssued: quantity, UnitCost: decimal.RequireFromString("2.00")},
		},
	}
}

func TestCreate_DecrementsStockAndAppendsLedger(t *testing.T) {
	db := testDB(t)
	productID := seedProductWithStock(t, db, 20)
	svc := NewService(db)

	result, err := svc.Create(context.Background(), validInput(productID, 8))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if result.Deltas[0].QuantityBefore != 20 || result.Deltas[0].QuantityAfter != 12 {
		t.Errorf("delta = %+v, want 20->12", result.Deltas[0])
	}

	var rec stockEntity.StockRecord
	db.Where("product_id = ?", productID).First(&rec)
	if rec.QuantityAvailable != 12 {
		t.Errorf("stock = %d, want 12", rec.QuantityAvailable)
	}

	var entries []stockEntity.LedgerEntry
	db.Find(&entries)
	if len(entries) != 1 {
		t.Fatalf("ledger rows = %d, want 1", len(entries))
	}
	e := entries[0]
	if e.Type != stockEntity.MovementGIN || e.QuantityOut == nil || *e.QuantityOut != 8 ||
		e.QuantityIn != nil || e.Balance != 12 {
		t.Errorf("ledger entry = %+v", e)
	}

	var audits int64
	db.Model(&stockEntity.AuditLogEntry{}).
		Where("action_type = ?", stockEntity.ActionStockIssue).Count(&audits)
	if audits != 1 {
		t.Errorf("audit rows = %d, want 1", audits)
	}
}

func TestCreate_InsufficientStockLeavesNothingBehind(t *testing.T) {
	db := testDB(t)
	productID := seedProductWithStock(t, db, 5)
	svc := NewService(db)

	_, err := svc.Create(context.Background(), validInput(productID, 8))
	if !errors.Is(err, errs.ErrInsufficientStock) {
		t.Fatalf("got %v, want insufficient stock", err)
	}
	var ise *errs.InsufficientStockError
	if !errors.As(err, &ise) {
		t.Fatal("want *InsufficientStockError")
	}
	want := fmt.Sprintf("insufficient stock for product %d: Available: 5, Required: 8", productID)
	if ise.Error() != want {
		t.Errorf("message = %q, want %q", ise.Error(), want)
	}

	// The whole unit of work rolled back: no note, no lines, no ledger,
	// no audit, stock unchanged.
	var rec stockEntity.StockRecord
	db.Where("product_id = ?", productID).First(&rec)
	if rec.QuantityAvailable != 5 {
		t.Errorf("stock = %d, want 5", rec.QuantityAvailable)
	}
	for _, probe := range []struct {
		name  string
		model interface{}
	}{
		{"notes", &documentEntity.GoodsIssueNote{}},
		{"lines", &documentEntity.GoodsIssueLine{}},
		{"ledger", &stockEntity.LedgerEntry{}},
		{"audit", &stockEntity.AuditLogEntry{}},
	} {
		var count int64
		db.Model(probe.model).Count(&count)
		if count != 0 {
			t.Errorf("%s = %d rows, want 0", probe.name, count)
		}
	}
}

func TestCreate_MultiLinePartialShortageRollsBackAll(t *testing.T) {
	db := testDB(t)
	okProduct := seedProductWithStock(t, db, 100)
	lowProduct := seedProductWithStock(t, db, 2)
	svc := NewService(db)

	in := validInput(okProduct, 10)
	in.Lines = append(in.Lines, LineInput{
		ProductID: lowProduct, QuantityIssued: 5, UnitCost: decimal.RequireFromString("1.00"),
	})
	_, err := svc.Create(context.Background(), in)
	if !errors.Is(err, errs.ErrInsufficientStock) {
		t.Fatalf("got %v, want insufficient stock", err)
	}

	// The first line's decrement must have been rolled back too.
	var rec stockEntity.StockRecord
	db.Where("product_id = ?", okProduct).First(&rec)
	if rec.QuantityAvailable != 100 {
		t.Errorf("first line stock = %d, want 100", rec.QuantityAvailable)
	}
	var ledger int64
	db.Model(&stockEntity.LedgerEntry{}).Count(&ledger)
	if ledger != 0 {
		t.Errorf("ledger rows = %d, want 0", ledger)
	}
}

func TestCreate_ContendedDrain(t *testing.T) {
	db := testDB(t)
	productID := seedProductWithStock(t, db, 10)
	svc := NewService(db)
	ctx := context.Background()

	// Two issues of 8 against 10 on hand: the first drains to 2, the
	// second must fail against the fresh quantity.
	if _, err := svc.Create(ctx, validInput(productID, 8)); err != nil {
		t.Fatalf("first issue: %v", err)
	}
	_, err := svc.Create(ctx, validInput(productID, 8))
	var ise *errs.InsufficientStockError
	if !errors.As(err, &ise) {
		t.Fatalf("second issue: got %v, want insufficient stock", err)
	}
	if ise.Available != 2 || ise.Required != 8 {
		t.Errorf("Available/Required = %d/%d, want 2/8", ise.Available, ise.Required)
	}

	var rec stockEntity.StockRecord
	db.Where("product_id = ?", productID).First(&rec)
	if rec.QuantityAvailable != 2 {
		t.Errorf("stock = %d, want 2", rec.QuantityAvailable)
	}
}

func TestCreate_NoStockRecord(t *testing.T) {
	db := testDB(t)
	product := catalogEntity.Product{SKU: "NO-STOCK", Name: "Widget", IsActive: true}
	if err := db.Create(&product).Error; err != nil {
		t.Fatal(err)
	}
	svc := NewService(db)

	_, err := svc.Create(context.Background(), validInput(product.ProductID, 1))
	if !errors.Is(err, errs.ErrNoStockFound) {
		t.Errorf("got %v, want no stock found", err)
	}
}

func TestCreate_IdempotencyKeyConflict(t *testing.T) {
	db := testDB(t)
	productID := seedProductWithStock(t, db, 50)
	svc := NewService(db)
	ctx := context.Background()

	in := validInput(productID, 5)
	in.IdempotencyKey = "issue-req-1"
	if _, err := svc.Create(ctx, in); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	if _, err := svc.Create(ctx, in); !errors.Is(err, errs.ErrConflict) {
		t.Fatalf("replay: got %v, want conflict", err)
	}

	var rec stockEntity.StockRecord
	db.Where("product_id = ?", productID).First(&rec)
	if rec.QuantityAvailable != 45 {
		t.Errorf("stock = %d, want 45 (replay must not decrement again)", rec.QuantityAvailable)
	}
}
