package kitchen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rogerio-castellano/kitchen-stock/internal/repo"
)

var (
	ErrInvalidPortionCount = errors.New("portion count must be at least 1")
	ErrMealNotFound        = errors.New("meal not found or inactive")
	ErrNoRecipeDefined     = errors.New("meal has no ingredient requirements")
	// ErrInvalidQuantity reports recipe data with a non-positive per-portion quantity.
	ErrInvalidQuantity   = repo.ErrInvalidQuantity
	ErrInsufficientStock = repo.ErrInsufficientStock
	// ErrTransientConflict means concurrent commits kept winning the race.
	// The serving was not applied and may be retried.
	ErrTransientConflict = errors.New("transient conflict, retry the serving")
)

// Shortage is one ingredient a serving could not cover.
type Shortage struct {
	ProductID int    `json:"product_id"`
	Name      string `json:"name"`
	Required  int    `json:"required"`
	Available int    `json:"available"`
}

// InsufficientStockError lists every short ingredient of a rejected serving.
type InsufficientStockError struct {
	MealID    int
	Shortages []Shortage
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, len(e.Shortages))
	for i, s := range e.Shortages {
		parts[i] = fmt.Sprintf("%s (product %d): required %d, available %d", s.Name, s.ProductID, s.Required, s.Available)
	}
	return fmt.Sprintf("insufficient stock for meal %d: %s", e.MealID, strings.Join(parts, "; "))
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// IsBusinessRejection reports whether err is an expected refusal of the
// request, as opposed to a fault of the system.
func IsBusinessRejection(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidPortionCount),
		errors.Is(err, ErrMealNotFound),
		errors.Is(err, ErrNoRecipeDefined),
		errors.Is(err, ErrInvalidQuantity),
		errors.Is(err, ErrInsufficientStock),
		errors.Is(err, ErrTransientConflict):
		return true
	}
	return false
}
