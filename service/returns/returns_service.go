package returns

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"stockledger.GO/core/errs"
	"stockledger.GO/core/txn"
	documentEntity "stockledger.GO/model/entity/document"
	stockEntity "stockledger.GO/model/entity/stock"
	auditRepo "stockledger.GO/model/repository/audit"
	catalogRepo "stockledger.GO/model/repository/catalog"
	ledgerRepo "stockledger.GO/model/repository/ledger"
	stockRepo "stockledger.GO/model/repository/stock"
	"stockledger.GO/service/refnum"
)

// LineInput is one requested return line.
type LineInput struct {
	ProductID   uint   `json:"product_id"`
	VariationID uint   `json:"variation_id"`
	Quantity    int    `json:"quantity"`
	Remarks     string `json:"remarks"`
}

// CreateInput opens a PENDING return request. No stock is touched until
// approval.
type CreateInput struct {
	SupplierID uint        `json:"supplier_id"`
	ReturnDate time.Time   `json:"return_date"`
	Reason     string      `json:"reason"`
	Actor      string      `json:"actor"`
	Lines      []LineInput `json:"lines"`
}

// LineDelta reports the stock movement one approved line produced.
type LineDelta struct {
	ProductID      uint `json:"product_id"`
	VariationID    uint `json:"variation_id,omitempty"`
	QuantityBefore int  `json:"quantity_before"`
	QuantityAfter  int  `json:"quantity_after"`
}

// ApproveResult is the response of a successful approval.
type ApproveResult struct {
	Request       *documentEntity.ReturnRequest `json:"request"`
	Deltas        []LineDelta                   `json:"deltas"`
	LedgerEntries []stockEntity.LedgerEntry     `json:"ledger_entries"`
	AuditEntries  int                           `json:"audit_entries"`
}

// Service owns the return-request lifecycle: PENDING on creation, then a
// terminal APPROVED (stock decremented here) or REJECTED (no stock effect).
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Create opens a new PENDING return request.
func (s *Service) Create(ctx context.Context, in CreateInput) (*documentEntity.ReturnRequest, error) {
	if err := validateCreate(in); err != nil {
		return nil, err
	}
	if err := checkMasterData(catalogRepo.New(s.db), in); err != nil {
		return nil, err
	}

	var request documentEntity.ReturnRequest
	err := txn.Run(ctx, s.db, func(tx *gorm.DB) error {
		if err := checkMasterData(catalogRepo.New(tx), in); err != nil {
			return err
		}
		request = documentEntity.ReturnRequest{
			ReturnNumber: "pending-allocation",
			SupplierID:   in.SupplierID,
			RequestedBy:  in.Actor,
			ReturnDate:   in.ReturnDate,
			Reason:       in.Reason,
			Status:       documentEntity.ReturnStatusPending,
		}
		if err := tx.Create(&request).Error; err != nil {
			return err
		}
		// The number embeds the generated id, so it is collision-free
		// without a retry loop.
		request.ReturnNumber = refnum.ForID(refnum.PrefixReturn, in.ReturnDate, request.ReturnID)
		if err := tx.Model(&documentEntity.ReturnRequest{}).
			Where("return_id = ?", request.ReturnID).
			Update("return_number", request.ReturnNumber).Error; err != nil {
			return err
		}
		for _, line := range in.Lines {
			row := documentEntity.ReturnLine{
				ReturnID:    request.ReturnID,
				ProductID:   line.ProductID,
				VariationID: line.VariationID,
				Quantity:    line.Quantity,
				Remarks:     line.Remarks,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			request.Lines = append(request.Lines, row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// Approve transitions a PENDING return to APPROVED and decrements stock for
// every line in one unit of work. A single insufficient line aborts the
// whole approval: the return stays PENDING and no stock is touched.
func (s *Service) Approve(ctx context.Context, returnID uint, actor string) (*ApproveResult, error) {
	if strings.TrimSpace(actor) == "" {
		return nil, errs.Validationf("actor is required")
	}

	request, err := s.Get(returnID)
	if err != nil {
		return nil, err
	}
	if request.Status != documentEntity.ReturnStatusPending {
		return nil, errs.Conflictf("only pending returns can be approved (return %d is %s)",
			returnID, request.Status)
	}

	// Advisory batch pre-check: one read for the union of keys, fast-fail
	// on obvious shortage before opening the transaction.
	if err := precheckSufficiency(stockRepo.New(s.db), request.Lines); err != nil {
		return nil, err
	}

	var result ApproveResult
	err = txn.Run(ctx, s.db, func(tx *gorm.DB) error {
		stocks := stockRepo.New(tx)
		ledgers := ledgerRepo.New(tx)
		audits := auditRepo.New(tx)

		// Authoritative state check inside the atomic scope.
		var fresh documentEntity.ReturnRequest
		if err := tx.Preload("Lines").Where("return_id = ?", returnID).First(&fresh).Error; err != nil {
			return err
		}
		if fresh.Status != documentEntity.ReturnStatusPending {
			return errs.Conflictf("only pending returns can be approved (return %d is %s)",
				returnID, fresh.Status)
		}

		// Fresh batch read of the same key set; decrements re-enforce
		// sufficiency per key.
		if err := precheckSufficiency(stocks, fresh.Lines); err != nil {
			return err
		}

		snapshots := make([]stockEntity.StockMutationSnapshot, 0, len(fresh.Lines))
		for _, line := range fresh.Lines {
			if line.Quantity <= 0 {
				continue
			}
			key := stockRepo.Key{ProductID: line.ProductID, VariationID: line.VariationID}
			before, after, err := stocks.Decrement(key, line.Quantity)
			if err != nil {
				return err
			}

			qty := line.Quantity
			entry := stockEntity.LedgerEntry{
				ProductID:   line.ProductID,
				VariationID: line.VariationID,
				TxnDate:     time.Now(),
				Type:        stockEntity.MovementReturnOut,
				ReferenceID: fresh.ReturnID,
				ReferenceNo: fresh.ReturnNumber,
				QuantityOut: &qty,
				Balance:     after,
				Actor:       actor,
				Remarks:     line.Remarks,
			}
			if err := ledgers.Append(&entry); err != nil {
				return err
			}

			snapshots = append(snapshots, stockEntity.StockMutationSnapshot{
				ProductID:      line.ProductID,
				VariationID:    line.VariationID,
				QuantityBefore: before,
				QuantityAfter:  after,
				DocumentID:     fresh.ReturnID,
				DocumentNo:     fresh.ReturnNumber,
			})
			result.Deltas = append(result.Deltas, LineDelta{
				ProductID:      line.ProductID,
				VariationID:    line.VariationID,
				QuantityBefore: before,
				QuantityAfter:  after,
			})
			result.LedgerEntries = append(result.LedgerEntries, entry)
		}

		now := time.Now()
		updates := map[string]interface{}{
			"status":      documentEntity.ReturnStatusApproved,
			"approved":    true,
			"approved_by": actor,
			"approved_at": now,
		}
		if err := tx.Model(&documentEntity.ReturnRequest{}).
			Where("return_id = ?", returnID).Updates(updates).Error; err != nil {
			return err
		}
		fresh.Status = documentEntity.ReturnStatusApproved
		fresh.Approved = true
		fresh.ApprovedBy = &actor
		fresh.ApprovedAt = &now
		result.Request = &fresh

		// One audit entry summarizing every delta of this approval.
		if _, err := audits.Append(auditRepo.Entry{
			Actor:       actor,
			ActionType:  stockEntity.ActionReturnApproval,
			EntityName:  "return_request",
			ReferenceID: fresh.ReturnID,
			Old:         map[string]string{"status": documentEntity.ReturnStatusPending},
			New:         snapshots,
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

// Reject transitions a PENDING return to REJECTED. No stock effect.
func (s *Service) Reject(ctx context.Context, returnID uint, actor string) (*documentEntity.ReturnRequest, error) {
	if strings.TrimSpace(actor) == "" {
		return nil, errs.Validationf("actor is required")
	}

	var request documentEntity.ReturnRequest
	err := txn.Run(ctx, s.db, func(tx *gorm.DB) error {
		if err := tx.Preload("Lines").Where("return_id = ?", returnID).First(&request).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.NotFoundf("return request %d", returnID)
			}
			return err
		}
		if request.Status != documentEntity.ReturnStatusPending {
			return errs.Conflictf("only pending returns can be rejected (return %d is %s)",
				returnID, request.Status)
		}
		if err := tx.Model(&documentEntity.ReturnRequest{}).
			Where("return_id = ?", returnID).
			Update("status", documentEntity.ReturnStatusRejected).Error; err != nil {
			return err
		}
		request.Status = documentEntity.ReturnStatusRejected
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// Get loads one return request with its lines.
func (s *Service) Get(returnID uint) (*documentEntity.ReturnRequest, error) {
	var request documentEntity.ReturnRequest
	err := s.db.Preload("Lines").Where("return_id = ?", returnID).First(&request).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NotFoundf("return request %d", returnID)
	}
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// precheckSufficiency loads the union of stock keys in one query and fails
// on the first shortage. Quantities for duplicate keys are summed so two
// lines against the same key cannot slip past the batch check.
func precheckSufficiency(stocks *stockRepo.Repository, lines []documentEntity.ReturnLine) error {
	needed := make(map[stockRepo.Key]int)
	order := make([]stockRepo.Key, 0, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}
		key := stockRepo.Key{ProductID: line.ProductID, VariationID: line.VariationID}
		if _, seen := needed[key]; !seen {
			order = append(order, key)
		}
		needed[key] += line.Quantity
	}
	if len(order) == 0 {
		return nil
	}

	records, err := stocks.GetForKeys(order)
	if err != nil {
		return err
	}
	for _, key := range order {
		rec, ok := records[key]
		if !ok {
			return errs.NotFoundf("no stock record for product %d variation %d",
				key.ProductID, key.VariationID)
		}
		if rec.QuantityAvailable < needed[key] {
			return &errs.InsufficientStockError{
				ProductID:   key.ProductID,
				VariationID: variationPtr(key.VariationID),
				Available:   rec.QuantityAvailable,
				Required:    needed[key],
			}
		}
	}
	return nil
}

func validateCreate(in CreateInput) error {
	if strings.TrimSpace(in.Actor) == "" {
		return errs.Validationf("actor is required")
	}
	if in.SupplierID == 0 {
		return errs.Validationf("supplier_id is required")
	}
	if in.ReturnDate.IsZero() {
		return errs.Validationf("return_date is required")
	}
	if strings.TrimSpace(in.Reason) == "" {
		return errs.Validationf("reason is required")
	}
	if len(in.Lines) == 0 {
		return errs.Validationf("at least one line is required")
	}
	for i, line := range in.Lines {
		if line.ProductID == 0 {
			return errs.Validationf("line %d: product_id is required", i)
		}
		if line.Quantity <= 0 {
			return errs.Validationf("line %d: quantity must be positive", i)
		}
	}
	return nil
}

func checkMasterData(catalog *catalogRepo.Repository, in CreateInput) error {
	if err := catalog.SupplierActive(in.SupplierID); err != nil {
		return err
	}
	for _, line := range in.Lines {
		if err := catalog.ProductActive(line.ProductID); err != nil {
			return err
		}
		if line.VariationID != 0 {
			if err := catalog.VariationActive(line.VariationID, line.ProductID); err != nil {
				return err
			}
		}
	}
	return nil
}

func variationPtr(v uint) *uint {
	if v == 0 {
		return nil
	}
	return &v
}
