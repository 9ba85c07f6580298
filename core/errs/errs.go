package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors for the stock ledger core. Use with errors.Is().
var (
	// ErrValidation marks malformed input. Never retried.
	ErrValidation = errors.New("validation error")

	// ErrNotFound marks a missing or soft-deleted referenced entity.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks an invalid state transition or duplicate business key.
	ErrConflict = errors.New("conflict")

	// ErrInsufficientStock marks a decrement larger than the available quantity.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrNoStockFound marks a decrement against a key with no stock record.
	ErrNoStockFound = errors.New("no stock record found")

	// ErrTransactionFailure marks a timed-out or failed unit of work.
	// Retryable by the caller (duplicate-document risk unless an
	// idempotency key is supplied).
	ErrTransactionFailure = errors.New("transaction failure")
)

// InsufficientStockError carries the shortage details for one stock key.
type InsufficientStockError struct {
	ProductID   uint
	VariationID *uint
	Available   int
	Required    int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: Available: %d, Required: %d",
		e.ProductID, e.Available, e.Required)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

// Validationf wraps ErrValidation with a formatted detail message.
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrValidation}, args...)...)
}

// NotFoundf wraps ErrNotFound with a formatted detail message.
func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrNotFound}, args...)...)
}

// Conflictf wraps ErrConflict with a formatted detail message.
func Conflictf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrConflict}, args...)...)
}

// IsDuplicateKey reports whether err is a unique-constraint violation
// involving the named column or index. Matched on the driver message text,
// which is the only portable signal across the MySQL and sqlite drivers.
func IsDuplicateKey(err error, name string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if !strings.Contains(msg, "Duplicate entry") && !strings.Contains(msg, "UNIQUE constraint failed") {
		return false
	}
	return name == "" || strings.Contains(msg, name)
}

// HTTPStatus maps a core error to its HTTP status code.
// Unknown errors map to 500 like transaction failures.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInsufficientStock):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrNoStockFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
