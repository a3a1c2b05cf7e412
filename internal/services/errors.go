package services

import (
	"errors"
	"fmt"
)

// --- Error categories ---
// The bridge maps these onto response statuses, so every service error wraps one of them.
var (
	ErrValidation         = errors.New("validation error")
	ErrNotFound           = errors.New("not found")
	ErrInUse              = errors.New("record cannot be deleted as it is referenced by other records")
	ErrDuplicate          = errors.New("record already exists")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrLedgerInconsistent = errors.New("payment history and sale balance have diverged")
)

// --- Not-found errors per entity ---
var (
	ErrSupplierNotFound  = fmt.Errorf("supplier %w", ErrNotFound)
	ErrBatchNotFound     = fmt.Errorf("bird batch %w", ErrNotFound)
	ErrEggBatchNotFound  = fmt.Errorf("egg batch %w", ErrNotFound)
	ErrEventNotFound     = fmt.Errorf("bird event %w", ErrNotFound)
	ErrLossNotFound      = fmt.Errorf("egg loss record %w", ErrNotFound)
	ErrInventoryNotFound = fmt.Errorf("inventory item %w", ErrNotFound)
	ErrSaleNotFound      = fmt.Errorf("sale %w", ErrNotFound)
	ErrSaleItemNotFound  = fmt.Errorf("sale item %w", ErrNotFound)
	ErrPaymentNotFound   = fmt.Errorf("payment record %w", ErrNotFound)
	ErrReturnNotFound    = fmt.Errorf("return record %w", ErrNotFound)
)

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
