package catalog

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"stockledger.GO/core/errs"
	catalogEntity "stockledger.GO/model/entity/catalog"
)

// Repository provides existence/soft-delete-state lookups over master data
// and the soft-delete writes used by the cascade delete processor. Reads are
// used both pre-flight and inside the atomic scope; only the in-scope read
// is authoritative.
type Repository struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// SupplierActive fails with errs.ErrNotFound unless the supplier exists and
// is not soft-deleted.
func (r *Repository) SupplierActive(id uint) error {
	return r.requireActive(&catalogEntity.Supplier{}, "supplier_id", id, "supplier")
}

// ProductActive fails with errs.ErrNotFound unless the product exists and is
// not soft-deleted.
func (r *Repository) ProductActive(id uint) error {
	return r.requireActive(&catalogEntity.Product{}, "product_id", id, "product")
}

// VariationActive fails with errs.ErrNotFound unless the variation exists,
// belongs to the product, and is not soft-deleted.
func (r *Repository) VariationActive(id, productID uint) error {
	var count int64
	err := r.db.Model(&catalogEntity.Variation{}).
		Where("variation_id = ? AND product_id = ? AND is_active = ?", id, productID, true).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return errs.NotFoundf("variation %d of product %d", id, productID)
	}
	return nil
}

func (r *Repository) requireActive(model interface{}, idColumn string, id uint, name string) error {
	var count int64
	err := r.db.Model(model).
		Where(fmt.Sprintf("%s = ? AND is_active = ?", idColumn), id, true).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return errs.NotFoundf("%s %d", name, id)
	}
	return nil
}

// GetProduct returns the product row, soft-deleted or not.
func (r *Repository) GetProduct(id uint) (*catalogEntity.Product, error) {
	var p catalogEntity.Product
	err := r.db.Where("product_id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NotFoundf("product %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ActiveVersions returns the non-deleted versions of a product.
func (r *Repository) ActiveVersions(productID uint) ([]catalogEntity.ProductVersion, error) {
	var versions []catalogEntity.ProductVersion
	err := r.db.Where("product_id = ? AND is_active = ?", productID, true).
		Order("version_id").Find(&versions).Error
	return versions, err
}

// ActiveVariations returns the non-deleted variations of a version.
func (r *Repository) ActiveVariations(versionID uint) ([]catalogEntity.Variation, error) {
	var variations []catalogEntity.Variation
	err := r.db.Where("version_id = ? AND is_active = ?", versionID, true).
		Order("variation_id").Find(&variations).Error
	return variations, err
}

// ActiveSpecDetails returns the non-deleted spec details of a variation.
func (r *Repository) ActiveSpecDetails(variationID uint) ([]catalogEntity.SpecDetail, error) {
	var details []catalogEntity.SpecDetail
	err := r.db.Where("variation_id = ? AND is_active = ?", variationID, true).
		Order("spec_detail_id").Find(&details).Error
	return details, err
}

// SoftDelete marks one row logically deleted. model must be a catalog
// entity pointer; idColumn names its primary key.
func (r *Repository) SoftDelete(model interface{}, idColumn string, id uint, actor string, at time.Time) error {
	res := r.db.Model(model).
		Where(fmt.Sprintf("%s = ? AND is_active = ?", idColumn), id, true).
		Updates(map[string]interface{}{
			"is_active":  false,
			"deleted_at": at,
			"deleted_by": actor,
		})
	if res.Error != nil {
		return fmt.Errorf("soft delete: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NotFoundf("%s %d (already deleted?)", idColumn, id)
	}
	return nil
}
