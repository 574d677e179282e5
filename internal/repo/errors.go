package repo

import (
	"errors"
	"fmt"
)

var (
	// ErrProductNotFound is returned when a product is not found in the repository.
	ErrProductNotFound = errors.New("product not found")
	ErrMealNotFound    = errors.New("meal not found")
	ErrServingNotFound = errors.New("serving not found")
	ErrUserNotFound    = errors.New("user not found")

	ErrAllergenNotFound = errors.New("allergen not found")
	ErrSupplierNotFound = errors.New("supplier not found")
	// ErrSupplierInactive is returned when a delivery names a deactivated supplier.
	ErrSupplierInactive = errors.New("supplier is not active")

	// ErrInvalidQuantityChange is returned when an adjustment would drive stock negative.
	ErrInvalidQuantityChange = errors.New("invalid quantity change")
	// ErrInvalidQuantity is returned for non-positive recipe or consumption quantities.
	ErrInvalidQuantity       = errors.New("quantity must be greater than zero")
	ErrInsufficientStock     = errors.New("insufficient stock")
	ErrDuplicatedValueUnique = errors.New("duplicated value for unique field")
	ErrDuplicateRequirement  = errors.New("meal already has a requirement for this product")
	ErrRequirementNotFound   = errors.New("requirement not found")

	// ErrConflict marks a commit that lost a race with a concurrent transaction.
	// It is safe to retry.
	ErrConflict = errors.New("concurrent update conflict")
)

// StockShortageError names the first product of a batch that could not be covered.
type StockShortageError struct {
	ProductID int
	Required  int
	Available int
}

func (e *StockShortageError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: required %d, available %d", e.ProductID, e.Required, e.Available)
}

func (e *StockShortageError) Is(target error) bool {
	return target == ErrInsufficientStock
}
