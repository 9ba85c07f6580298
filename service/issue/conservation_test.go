package issue

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
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
	receiptService "stockledger.GO/service/receipt"
)

func conservationDB(t *testing.T) *gorm.DB {
	t.Helper()
	tmpFile := filepath.Join(os.TempDir(), fmt.Sprintf("conservation_test_%s_%d.db", t.Name(), time.Now().UnixNano()))
	t.Cleanup(func() { os.Remove(tmpFile) })
	db, err := gorm.Open(sqlite.Open(tmpFile), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")
	if err := db.AutoMigrate(
		&catalogEntity.Supplier{},
		&catalogEntity.Product{},
		&catalogEntity.Variation{},
		&documentEntity.GoodsReceiptNote{},
		&documentEntity.GoodsReceiptLine{},
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

// A random mix of receipts and issues must keep the stock record equal to
// total in minus total out, never below zero, with every bin card row
// carrying the running balance at its point in time.
func TestConservation_RandomReceiptIssueSequence(t *testing.T) {
	db := conservationDB(t)
	supplier := catalogEntity.Supplier{Name: "Acme", IsActive: true}
	if err := db.Create(&supplier).Error; err != nil {
		t.Fatal(err)
	}
	product := catalogEntity.Product{SKU: "CONS-1", Name: "Widget", IsActive: true}
	if err := db.Create(&product).Error; err != nil {
		t.Fatal(err)
	}

	receipts := receiptService.NewService(db)
	issues := NewService(db)
	rng := rand.New(rand.NewSource(1))
	ctx := context.Background()
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	cost := decimal.RequireFromString("1.00")

	expected := 0
	for i := 0; i < 60; i++ {
		qty := rng.Intn(9) + 1
		if rng.Intn(2) == 0 {
			_, err := receipts.Create(ctx, receiptService.CreateInput{
				SupplierID:   supplier.SupplierID,
				ReceivedDate: date,
				Actor:        "storekeeper",
				Lines: []receiptService.LineInput{
					{ProductID: product.ProductID, QuantityReceived: qty, UnitCost: &cost},
				},
			})
			if err != nil {
				t.Fatalf("op %d: receipt of %d: %v", i, qty, err)
			}
			expected += qty
		} else {
			_, err := issues.Create(ctx, CreateInput{
				IssuedTo:    "production",
				IssueReason: "work order",
				IssueDate:   date,
				Actor:       "storekeeper",
				Lines: []LineInput{
					{ProductID: product.ProductID, QuantityIssued: qty, UnitCost: cost},
				},
			})
			switch {
			case qty <= expected:
				if err != nil {
					t.Fatalf("op %d: issue of %d with %d on hand: %v", i, qty, expected, err)
				}
				expected -= qty
			case expected == 0:
				if !errors.Is(err, errs.ErrNoStockFound) && !errors.Is(err, errs.ErrInsufficientStock) {
					t.Fatalf("op %d: issue from empty stock: err = %v", i, err)
				}
			default:
				var shortage *errs.InsufficientStockError
				if !errors.As(err, &shortage) {
					t.Fatalf("op %d: issue of %d with %d on hand: err = %v", i, qty, expected, err)
				}
				if shortage.Available != expected || shortage.Required != qty {
					t.Fatalf("op %d: shortage = %+v, want %d/%d", i, shortage, expected, qty)
				}
			}
		}
	}

	var rec stockEntity.StockRecord
	if err := db.Where("product_id = ?", product.ProductID).First(&rec).Error; err != nil {
		t.Fatalf("read stock: %v", err)
	}
	if rec.QuantityAvailable != expected {
		t.Errorf("stock = %d, want %d", rec.QuantityAvailable, expected)
	}
	if rec.QuantityAvailable < 0 {
		t.Errorf("stock = %d, negative", rec.QuantityAvailable)
	}

	var entries []stockEntity.LedgerEntry
	if err := db.Order("ledger_id").Find(&entries).Error; err != nil {
		t.Fatalf("read ledger: %v", err)
	}
	running := 0
	for _, e := range entries {
		switch {
		case e.QuantityIn != nil:
			running += *e.QuantityIn
		case e.QuantityOut != nil:
			running -= *e.QuantityOut
		default:
			t.Fatalf("ledger %d: neither in nor out set", e.LedgerID)
		}
		if e.Balance != running {
			t.Fatalf("ledger %d: balance = %d, want running %d", e.LedgerID, e.Balance, running)
		}
	}
	if running != expected {
		t.Errorf("ledger sum = %d, want %d", running, expected)
	}
}
