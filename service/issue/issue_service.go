package issue

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

const numberRetries = 3

// LineInput is one requested issue line.
type LineInput struct {
	ProductID      uint            `json:"product_id"`
	VariationID    uint            `json:"variation_id"`
	QuantityIssued int             `json:"quantity_issued"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
}

// CreateInput is the goods-issue request.
type CreateInput struct {
	IssuedTo       string      `json:"issued_to"`
	IssueReason    string      `json:"issue_reason"`
	IssueDate      time.Time   `json:"issue_date"`
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

// Result is the response of a successful issue.
type Result struct {
	Note          *documentEntity.GoodsIssueNote `json:"note"`
	Deltas        []LineDelta                    `json:"deltas"`
	LedgerEntries []stockEntity.LedgerEntry      `json:"ledger_entries"`
	AuditEntries  int                            `json:"audit_entries"`
}

// Service is the goods-issue (GIN) processor. Issuance is inherently racy:
// sufficiency is decided inside the atomic scope against the freshest read
// per line, never by the advisory pre-flight.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Create validates the request and issues all lines in one unit of work.
// Two concurrent issues draining the same low stock cannot both pass: the
// in-transaction check plus the guarded decrement admit at most the
// available quantity.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Result, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	// Advisory fast-fail only; existence is re-verified in-transaction.
	if err := checkMasterData(catalogRepo.New(s.db), in); err != nil {
		return nil, err
	}

	var (
		result  *Result
		lastErr error
	)
	for attempt := 0; attempt < numberRetries; attempt++ {
		number := refnum.Generate(refnum.PrefixIssue, in.IssueDate)
		result, lastErr = s.createOnce(ctx, in, number)
		if lastErr == nil {
			return result, nil
		}
		if !errs.IsDuplicateKey(lastErr, "gin_number") {
			return nil, lastErr
		}
	}
	return nil, errs.Conflictf("could not allocate a unique GIN number: %v", lastErr)
}

func (s *Service) createOnce(ctx context.Context, in CreateInput, number string) (*Result, error) {
	var result Result

	err := txn.Run(ctx, s.db, func(tx *gorm.DB) error {
		catalog := catalogRepo.New(tx)
		stocks := stockRepo.New(tx)
		ledgers := ledgerRepo.New(tx)
		audits := auditRepo.New(tx)

		if err := checkMasterData(catalog, in); err != nil {
			return err
		}
		if err := checkIdempotencyKey(tx, in.IdempotencyKey); err != nil {
			return err
		}

		note := documentEntity.GoodsIssueNote{
			GinNumber:      number,
			IdempotencyKey: optional(in.IdempotencyKey),
			IssuedTo:       in.IssuedTo,
			IssueReason:    in.IssueReason,
			IssueDate:      in.IssueDate,
			Remarks:        in.Remarks,
			CreatedBy:      in.Actor,
		}
		if err := tx.Create(&note).Error; err != nil {
			return err
		}

		result = Result{Note: &note}
		for _, line := range in.Lines {
			key := stockRepo.Key{ProductID: line.ProductID, VariationID: line.VariationID}

			// Freshest read decides sufficiency; the guarded update
			// below re-enforces it against concurrent commits.
			rec, err := stocks.Get(key)
			if err != nil {
				return err
			}
			if rec.QuantityAvailable < line.QuantityIssued {
				return &errs.InsufficientStockError{
					ProductID:   line.ProductID,
					VariationID: variationPtr(line.VariationID),
					Available:   rec.QuantityAvailable,
					Required:    line.QuantityIssued,
				}
			}

			before, after, err := stocks.Decrement(key, line.QuantityIssued)
			if err != nil {
				return err
			}

			row := documentEntity.GoodsIssueLine{
				GinID:          note.GinID,
				ProductID:      line.ProductID,
				VariationID:    line.VariationID,
				QuantityIssued: line.QuantityIssued,
				UnitCost:       line.UnitCost,
				SubTotal:       line.UnitCost.Mul(decimal.NewFromInt(int64(line.QuantityIssued))),
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}

			qty := line.QuantityIssued
			entry := stockEntity.LedgerEntry{
				ProductID:   line.ProductID,
				VariationID: line.VariationID,
				TxnDate:     in.IssueDate,
				Type:        stockEntity.MovementGIN,
				ReferenceID: note.GinID,
				ReferenceNo: note.GinNumber,
				QuantityOut: &qty,
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
				DocumentID:     note.GinID,
				DocumentNo:     note.GinNumber,
			}
			if _, err := audits.Append(auditRepo.Entry{
				Actor:       in.Actor,
				ActionType:  stockEntity.ActionStockIssue,
				EntityName:  "stock_record",
				ReferenceID: note.GinID,
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

// Get loads one issue note with its lines.
func (s *Service) Get(id uint) (*documentEntity.GoodsIssueNote, error) {
	var note documentEntity.GoodsIssueNote
	err := s.db.Preload("Lines").Where("gin_id = ?", id).First(&note).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NotFoundf("goods issue note %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &note, nil
}

// Recent returns the newest issue notes with lines.
func (s *Service) Recent(limit int) ([]documentEntity.GoodsIssueNote, error) {
	if limit <= 0 {
		limit = 50
	}
	var notes []documentEntity.GoodsIssueNote
	err := s.db.Preload("Lines").Order("gin_id DESC").Limit(limit).Find(&notes).Error
	return notes, err
}

func validate(in CreateInput) error {
	if strings.TrimSpace(in.Actor) == "" {
		return errs.Validationf("actor is required")
	}
	if strings.TrimSpace(in.IssuedTo) == "" {
		return errs.Validationf("issued_to is required")
	}
	if strings.TrimSpace(in.IssueReason) == "" {
		return errs.Validationf("issue_reason is required")
	}
	if in.IssueDate.IsZero() {
		return errs.Validationf("issue_date is required")
	}
	if len(in.Lines) == 0 {
		return errs.Validationf("at least one line is required")
	}
	for i, line := range in.Lines {
		if line.ProductID == 0 {
			return errs.Validationf("line %d: product_id is required", i)
		}
		if line.QuantityIssued <= 0 {
			return errs.Validationf("line %d: quantity_issued must be positive", i)
		}
		if line.UnitCost.IsNegative() {
			return errs.Validationf("line %d: unit_cost must not be negative", i)
		}
	}
	return nil
}

func checkMasterData(catalog *catalogRepo.Repository, in CreateInput) error {
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
	if err := tx.Model(&documentEntity.GoodsIssueNote{}).
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

func variationPtr(v uint) *uint {
	if v == 0 {
		return nil
	}
	return &v
}
