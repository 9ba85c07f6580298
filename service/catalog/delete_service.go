package catalog

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"stockledger.GO/core/errs"
	"stockledger.GO/core/txn"
	catalogEntity "stockledger.GO/model/entity/catalog"
	stockEntity "stockledger.GO/model/entity/stock"
	auditRepo "stockledger.GO/model/repository/audit"
	catalogRepo "stockledger.GO/model/repository/catalog"
)

// DeleteResult reports everything one cascade marked deleted.
type DeleteResult struct {
	ProductID    uint                             `json:"product_id"`
	Deleted      []stockEntity.SoftDeleteSnapshot `json:"deleted"`
	AuditEntries int                              `json:"audit_entries"`
}

// Service is the cascade soft-delete processor: logical deletion propagated
// product → version → variation → spec detail, strictly children before
// parents, in one unit of work. Stock records and ledger history are never
// touched.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// DeleteProduct soft-deletes the product and its whole active hierarchy.
// Partial failure leaves nothing marked deleted.
func (s *Service) DeleteProduct(ctx context.Context, productID uint, actor string) (*DeleteResult, error) {
	if strings.TrimSpace(actor) == "" {
		return nil, errs.Validationf("actor is required")
	}

	// Advisory fast-fail; re-checked inside the transaction.
	product, err := catalogRepo.New(s.db).GetProduct(productID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, errs.NotFoundf("product %d is already deleted", productID)
	}

	result := DeleteResult{ProductID: productID}
	err = txn.Run(ctx, s.db, func(tx *gorm.DB) error {
		catalog := catalogRepo.New(tx)
		audits := auditRepo.New(tx)
		now := time.Now()

		fresh, err := catalog.GetProduct(productID)
		if err != nil {
			return err
		}
		if !fresh.IsActive {
			return errs.NotFoundf("product %d is already deleted", productID)
		}

		versions, err := catalog.ActiveVersions(productID)
		if err != nil {
			return err
		}
		for _, version := range versions {
			variations, err := catalog.ActiveVariations(version.VersionID)
			if err != nil {
				return err
			}
			for _, variation := range variations {
				details, err := catalog.ActiveSpecDetails(variation.VariationID)
				if err != nil {
					return err
				}
				for _, detail := range details {
					if err := catalog.SoftDelete(&catalogEntity.SpecDetail{}, "spec_detail_id",
						detail.SpecDetailID, actor, now); err != nil {
						return err
					}
					result.Deleted = append(result.Deleted, stockEntity.SoftDeleteSnapshot{
						Entity: "variation_spec_detail", ID: detail.SpecDetailID, IsActive: false,
					})
				}
				if err := catalog.SoftDelete(&catalogEntity.Variation{}, "variation_id",
					variation.VariationID, actor, now); err != nil {
					return err
				}
				result.Deleted = append(result.Deleted, stockEntity.SoftDeleteSnapshot{
					Entity: "product_variation", ID: variation.VariationID, IsActive: false,
				})
			}
			if err := catalog.SoftDelete(&catalogEntity.ProductVersion{}, "version_id",
				version.VersionID, actor, now); err != nil {
				return err
			}
			result.Deleted = append(result.Deleted, stockEntity.SoftDeleteSnapshot{
				Entity: "product_version", ID: version.VersionID, IsActive: false,
			})
		}

		if err := catalog.SoftDelete(&catalogEntity.Product{}, "product_id",
			productID, actor, now); err != nil {
			return err
		}
		result.Deleted = append(result.Deleted, stockEntity.SoftDeleteSnapshot{
			Entity: "product", ID: productID, IsActive: false,
		})

		active := make([]stockEntity.SoftDeleteSnapshot, len(result.Deleted))
		for i, d := range result.Deleted {
			active[i] = stockEntity.SoftDeleteSnapshot{Entity: d.Entity, ID: d.ID, IsActive: true}
		}
		if _, err := audits.Append(auditRepo.Entry{
			Actor:       actor,
			ActionType:  stockEntity.ActionCascadeDelete,
			EntityName:  "product",
			ReferenceID: productID,
			Old:         active,
			New:         result.Deleted,
		}); err != nil {
			return err
		}
		result.AuditEntries = 1
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
