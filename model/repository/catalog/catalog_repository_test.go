package catalog

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
	catalogEntity "stockledger.GO/model/entity/catalog"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	tmpFile := filepath.Join(os.TempDir(), fmt.Sprintf("catalog_repo_test_%s_%d.db", t.Name(), time.Now().UnixNano()))
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
		&catalogEntity.ProductVersion{},
		&catalogEntity.Variation{},
		&catalogEntity.SpecDetail{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestSupplierActive(t *testing.T) {
	db := testDB(t)
	repo := New(db)

	supplier := catalogEntity.Supplier{Name: "Acme", IsActive: true}
	if err := db.Create(&supplier).Error; err != nil {
		t.Fatal(err)
	}
	if err := repo.SupplierActive(supplier.SupplierID); err != nil {
		t.Errorf("active supplier rejected: %v", err)
	}
	if err := repo.SupplierActive(999); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("missing supplier: got %v, want not found", err)
	}

	db.Model(&catalogEntity.Supplier{}).
		Where("supplier_id = ?", supplier.SupplierID).
		Update("is_active", false)
	if err := repo.SupplierActive(supplier.SupplierID); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("soft-deleted supplier: got %v, want not found", err)
	}
}

func TestVariationActive_ChecksOwnership(t *testing.T) {
	db := testDB(t)
	repo := New(db)

	variation := catalogEntity.Variation{VersionID: 1, ProductID: 10, SKU: "VAR-1", IsActive: true}
	if err := db.Create(&variation).Error; err != nil {
		t.Fatal(err)
	}
	if err := repo.VariationActive(variation.VariationID, 10); err != nil {
		t.Errorf("owned variation rejected: %v", err)
	}
	if err := repo.VariationActive(variation.VariationID, 11); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("foreign product must not match: got %v", err)
	}
}

func TestSoftDelete(t *testing.T) {
	db := testDB(t)
	repo := New(db)

	product := catalogEntity.Product{SKU: "P-1", Name: "Widget", IsActive: true}
	if err := db.Create(&product).Error; err != nil {
		t.Fatal(err)
	}

	now := time.Now()
	if err := repo.SoftDelete(&catalogEntity.Product{}, "product_id", product.ProductID, "admin", now); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}

	got, err := repo.GetProduct(product.ProductID)
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if got.IsActive {
		t.Error("product still active")
	}
	if got.DeletedBy == nil || *got.DeletedBy != "admin" {
		t.Error("deleted_by not recorded")
	}
	if got.DeletedAt == nil {
		t.Error("deleted_at not recorded")
	}

	// Second delete of the same row affects nothing.
	err = repo.SoftDelete(&catalogEntity.Product{}, "product_id", product.ProductID, "admin", now)
	if !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("repeat delete: got %v, want not found", err)
	}
}

func TestActiveHierarchyReads(t *testing.T) {
	db := testDB(t)
	repo := New(db)

	db.Create(&catalogEntity.ProductVersion{ProductID: 1, Name: "v1", IsActive: true})
	db.Create(&catalogEntity.ProductVersion{ProductID: 1, Name: "v2", IsActive: false})
	db.Create(&catalogEntity.Variation{VersionID: 1, ProductID: 1, SKU: "V-1", IsActive: true})
	db.Create(&catalogEntity.SpecDetail{VariationID: 1, Name: "color", Value: "red", IsActive: true})
	db.Create(&catalogEntity.SpecDetail{VariationID: 1, Name: "size", Value: "L", IsActive: false})

	versions, err := repo.ActiveVersions(1)
	if err != nil || len(versions) != 1 {
		t.Fatalf("ActiveVersions = %v, %v; want one row", versions, err)
	}
	variations, err := repo.ActiveVariations(versions[0].VersionID)
	if err != nil || len(variations) != 1 {
		t.Fatalf("ActiveVariations = %v, %v; want one row", variations, err)
	}
	details, err := repo.ActiveSpecDetails(variations[0].VariationID)
	if err != nil || len(details) != 1 {
		t.Fatalf("ActiveSpecDetails = %v, %v; want one row", details, err)
	}
	if details[0].Name != "color" {
		t.Errorf("detail = %q, want color", details[0].Name)
	}
}
