package domain

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyOrder          = errors.New("order must have at least one item")
	ErrInvalidQuantity     = errors.New("quantity must be positive")
	ErrOrderNotFound       = errors.New("order not found")
	ErrNotOrderOwner       = errors.New("order belongs to another user")
	ErrOrderNotCancellable = errors.New("only pending orders can be cancelled")

	// ErrTransientStorage marks lock/transaction failures where retrying the
	// whole call from the pre-check is safe.
	ErrTransientStorage = errors.New("transient storage failure")
)

type ProductNotFoundError struct {
	ProductID uint64
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %d not found", e.ProductID)
}

type ProductUnavailableError struct {
	ProductID uint64
	Name      string
}

func (e *ProductUnavailableError) Error() string {
	return fmt.Sprintf("'%s' is currently unavailable", e.Name)
}

// InsufficientStockError carries enough detail for the buyer to adjust the
// request: which product fell short and how much is actually available.
type InsufficientStockError struct {
	ProductID uint64
	Name      string
	Requested int64
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for '%s': available %d, requested %d",
		e.Name, e.Available, e.Requested)
}
