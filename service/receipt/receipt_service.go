package receipt

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
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

// numberRetries bounds regeneration of the GRN number on a duplicate-key
// collision before the call fails.
const numberRetries = 3

// LineInput is one requested receipt line.
type LineInput struct {
	ProductID        uint             `json:"product_id"`
	VariationID      uint             `json:"variation_id"`
	QuantityReceived int              `json:"quantity_received"`
	UnitCost         *decimal.Decimal `json:"unit_cost"`
	Location         string           `json:"location"`
}

// CreateInput is the goods-receipt request.
type CreateInput struct {
	SupplierID     uint        `json:"supplier_id"`
	ReceivedDate   time.Time   `json:"received_date"`
	Remarks        string      `json:"remarks"`
	IdempotencyKey string      `json:"idempotency_key"`
	Actor          string      `json:"actor"`
	Lines          []LineInput `json:"lines"`
}

// LineDelta reports the stock movement one line produced.
type LineDelta struct {
	ProductID      uint `json:"product_id"`
	VariationID    uint `json:"variation_id,omitempty"`
	QuantityBefore int  `json:"quantity_before"`
	QuantityAfter  int  `json:"quantity_after"`
}

// Result is the response of a successful receipt.
type Result struct {
	Note          *documentEntity.GoodsReceiptNote `json:"note"`
	Deltas        []LineDelta                      `json:"deltas"`
	LedgerEntries []stockEntity.LedgerEntry        `json:"ledger_entries"`
	AuditEntries  int                              `json:"audit_entries"`
}

// Service is the goods-receipt (GRN) processor: intake validation plus the
// atomic stock-increment orchestration.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Create validates the request, fast-fails on master data outside the
// atomic scope, then persists header, lines, stock increments, ledger
// and audit appends as one unit of work. Nothing partial is ever
// visible.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Result, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	// Advisory fast-fail only; re-verified inside the transaction.
	if err := checkMasterData(catalogRepo.New(s.db), in); err != nil {
		return nil, err
	}

	var (
		result  *Result
		lastErr error
	)
	for attempt := 0; attempt < numberRetries; attempt++ {
		number := refnum.Generate(refnum.PrefixReceipt, in.ReceivedDate)
		result, lastErr = s.createOnce(ctx, in, number)
		if lastErr == nil {
			return result, nil
		}
		if !errs.IsDuplicateKey(lastErr, "grn_number") {
			return nil, lastErr
		}
	}
	return nil, errs.Conflictf("could not allocate a unique GRN number: %v", lastErr)
}

func (s *Service) createOnce(ctx context.Context, in CreateInput, number string) (*Result, error) {
	var result Result

	err := txn.Run(ctx, s.db, func(tx *gorm.DB) error {
		catalog := catalogRepo.New(tx)
		stocks := stockRepo.New(tx)
		ledgers := ledgerRepo.New(tx)
		audits := auditRepo.New(tx)

		// Authoritative re-check of everything the pre-flight saw.
		if err := checkMasterData(catalog, in); err != nil {
			return err
		}
		if err := checkIdempotencyKey(tx, in.IdempotencyKey); err != nil {
			return err
		}

		total := decimal.Zero
		for _, line := range in.Lines {
			total = total.Add(line.UnitCost.Mul(decimal.NewFromInt(int64(line.QuantityReceived))))
		}

		note := documentEntity.GoodsReceiptNote{
			GrnNumber:      number,
			IdempotencyKey: optional(in.IdempotencyKey),
			SupplierID:     in.SupplierID,
			ReceivedDate:   in.ReceivedDate,
			TotalAmount:    total,
			Remarks:        in.Remarks,
			CreatedBy:      in.Actor,
		}
		if err := tx.Create(&note).Error; err != nil {
			return err
		}

		result = Result{Note: &note}
		for _, line := range in.Lines {
			row := documentEntity.GoodsReceiptLine{
				GrnID:            note.GrnID,
				ProductID:        line.ProductID,
				VariationID:      line.VariationID,
				QuantityReceived: line.QuantityReceived,
				UnitCost:         *line.UnitCost,
				SubTotal:         line.UnitCost.Mul(decimal.NewFromInt(int64(line.QuantityReceived))),
				Location:         line.Location,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}

			key := stockRepo.Key{ProductID: line.ProductID, VariationID: line.VariationID}
			before, after, err := stocks.Increment(key, line.QuantityReceived, line.Location)
			if err != nil {
				return err
			}

			qty := line.QuantityReceived
			entry := stockEntity.LedgerEntry{
				ProductID:   line.ProductID,
				VariationID: line.VariationID,
				TxnDate:     in.ReceivedDate,
				Type:        stockEntity.MovementGRN,
				ReferenceID: note.GrnID,
				ReferenceNo: note.GrnNumber,
				QuantityIn:  &qty,
				Balance:     after,
				Actor:       in.Actor,
				Remarks:     in.Remarks,
			}
			if err := ledgers.Append(&entry); err != nil {
				return err
			}

			snapshot := stockEntity.StockMutationSnapshot{
				ProductID:      line.ProductID,
				VariationID:    line.VariationID,
				QuantityBefore: before,
				QuantityAfter:  after,
				DocumentID:     note.GrnID,
				DocumentNo:     note.GrnNumber,
			}
			if _, err := audits.Append(auditRepo.Entry{
				Actor:       in.Actor,
				ActionType:  stockEntity.ActionStockReceipt,
				EntityName:  "stock_record",
				ReferenceID: note.GrnID,
				New:         []stockEntity.StockMutationSnapshot{snapshot},
			}); err != nil {
				return err
			}

			note.Lines = append(note.Lines, row)
			result.Deltas = append(result.Deltas, LineDelta{
				ProductID:      line.ProductID,
				VariationID:    line.VariationID,
				QuantityBefore: before,
				QuantityAfter:  after,
			})
			result.LedgerEntries = append(result.LedgerEntries, entry)
			result.AuditEntries++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Get loads one receipt with its lines.
func (s *Service) Get(id uint) (*documentEntity.GoodsReceiptNote, error) {
	var note documentEntity.GoodsReceiptNote
	err := s.db.Preload("Lines").Where("grn_id = ?", id).First(&note).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NotFoundf("goods receipt note %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &note, nil
}

// Recent returns the newest receipts with lines.
func (s *Service) Recent(limit int) ([]documentEntity.GoodsReceiptNote, error) {
	if limit <= 0 {
		limit = 50
	}
	var notes []documentEntity.GoodsReceiptNote
	err := s.db.Preload("Lines").Order("grn_id DESC").Limit(limit).Find(&notes).Error
	return notes, err
}

func validate(in CreateInput) error {
	if strings.TrimSpace(in.Actor) == "" {
		return errs.Validationf("actor is required")
	}
	if in.SupplierID == 0 {
		return errs.Validationf("supplier_id is required")
	}
	if in.ReceivedDate.IsZero() {
		return errs.Validationf("received_date is required")
	}
	if len(in.Lines) == 0 {
		return errs.Validationf("at least one line is required")
	}
	for i, line := range in.Lines {
		if line.ProductID == 0 {
			return errs.Validationf("line %d: product_id is required", i)
		}
		if line.QuantityReceived <= 0 {
			return errs.Validationf("line %d: quantity_received must be positive", i)
		}
		if line.UnitCost == nil {
			return errs.Validationf("line %d: unit_cost is required", i)
		}
		if line.UnitCost.IsNegative() {
			return errs.Validationf("line %d: unit_cost must not be negative", i)
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

func checkIdempotencyKey(tx *gorm.DB, key string) error {
	if key == "" {
		return nil
	}
	var count int64
	if err := tx.Model(&documentEntity.GoodsReceiptNote{}).
		Where("idempotency_key = ?", key).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return errs.Conflictf("idempotency key %q already used", key)
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
