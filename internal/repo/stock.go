package repo

import (
	"context"

	"github.com/rogerio-castellano/kitchen-stock/internal/models"
)

// StockChange consumes Amount units of a product.
type StockChange struct {
	ProductID int
	Amount    int
}

// StockLedger owns product quantities. Apply is all-or-nothing: either every
// line of the batch is applied or none is.
type StockLedger interface {
	Get(ctx context.Context, productID int) (int, error)
	Decrement(ctx context.Context, productID, amount int) error
	Apply(ctx context.Context, batch []StockChange) error
	// Products returns a snapshot of the requested products keyed by id.
	// The snapshot may be stale by the time it is used.
	Products(ctx context.Context, ids []int) (map[int]models.Product, error)
	ListBelowThreshold(ctx context.Context) ([]models.Product, error)
}

// LedgerTx is the ledger as seen from inside a serving commit. Products read
// through it stay locked until the commit ends, so reads are authoritative.
type LedgerTx interface {
	Products(ctx context.Context, ids []int) (map[int]models.Product, error)
	Apply(ctx context.Context, batch []StockChange) error
	RecordServing(ctx context.Context, rec models.ServingRecord) (models.ServingRecord, error)
	// Recipe reads a meal and its requirements as the commit sees them. Edits
	// to the meal wait for the commit to end where the store supports it.
	Recipe(ctx context.Context, mealID int) (models.Meal, []models.IngredientRequirement, error)
}

// Transactor runs fn with the given products locked. If fn returns an error
// nothing it did is kept.
type Transactor interface {
	InTx(ctx context.Context, productIDs []int, fn func(tx LedgerTx) error) error
}

// aggregate sums amounts per product, keeping first-seen order.
func aggregate(batch []StockChange) ([]StockChange, error) {
	idx := make(map[int]int, len(batch))
	out := make([]StockChange, 0, len(batch))
	for _, c := range batch {
		if c.Amount <= 0 {
			return nil, ErrInvalidQuantity
		}
		if i, ok := idx[c.ProductID]; ok {
			out[i].Amount += c.Amount
			continue
		}
		idx[c.ProductID] = len(out)
		out = append(out, c)
	}
	return out, nil
}
