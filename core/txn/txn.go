package txn

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"stockledger.GO/core/errs"
)

// Budgets bound the unit of work: Wait is the lock-acquisition budget,
// Run is the total time the work may take. Exceeding either aborts the
// operation as a retryable errs.ErrTransactionFailure.
type Budgets struct {
	Wait time.Duration
	Run  time.Duration
}

var (
	mu      sync.RWMutex
	budgets = Budgets{Wait: 5 * time.Second, Run: 15 * time.Second}
)

// Configure overrides the default budgets. Call once at startup.
func Configure(b Budgets) {
	mu.Lock()
	defer mu.Unlock()
	if b.Wait > 0 {
		budgets.Wait = b.Wait
	}
	if b.Run > 0 {
		budgets.Run = b.Run
	}
}

func current() Budgets {
	mu.RLock()
	defer mu.RUnlock()
	return budgets
}

// Run executes fn inside one database transaction bounded by the run budget.
// Everything fn writes commits or rolls back together. Domain errors pass
// through unchanged; timeouts, deadlocks and store errors surface as
// errs.ErrTransactionFailure.
func Run(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	b := current()
	runCtx, cancel := context.WithTimeout(ctx, b.Run)
	defer cancel()

	err := db.WithContext(runCtx).Transaction(func(tx *gorm.DB) error {
		applyWaitBudget(tx, b.Wait)
		return fn(tx)
	})
	if err == nil {
		return nil
	}
	if isDomainError(err) {
		return err
	}
	return fmt.Errorf("%w: %v", errs.ErrTransactionFailure, err)
}

// applyWaitBudget bounds row-lock acquisition on engines that support it.
// Sqlite test databases rely on busy_timeout set at open instead.
func applyWaitBudget(tx *gorm.DB, wait time.Duration) {
	if tx.Dialector.Name() == "mysql" {
		secs := int(wait / time.Second)
		if secs < 1 {
			secs = 1
		}
		tx.Exec("SET SESSION innodb_lock_wait_timeout = ?", secs)
	}
}

// isDomainError reports whether err belongs to the core taxonomy and must
// not be re-labelled as a transaction failure.
func isDomainError(err error) bool {
	for _, sentinel := range []error{
		errs.ErrValidation,
		errs.ErrNotFound,
		errs.ErrConflict,
		errs.ErrInsufficientStock,
		errs.ErrNoStockFound,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
