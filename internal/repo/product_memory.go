package repo

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rogerio-castellano/kitchen-stock/internal/models"
)

// InMemoryProductRepository is an in-memory implementation of ProductRepository.
//
// Every stock mutation, including whole serving commits, runs under commitMu,
// which makes check-then-decrement sequences indivisible.
type InMemoryProductRepository struct {
	commitMu sync.Mutex
	mu       sync.RWMutex
	products []models.Product
	nextID   int
}

// NewInMemoryProductRepository creates a new instance of InMemoryProductRepository.
func NewInMemoryProductRepository() *InMemoryProductRepository {
	return &InMemoryProductRepository{
		products: []models.Product{},
		nextID:   1,
	}
}

func matchesFilter(p models.Product, pf ProductFilter) bool {
	if pf.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(pf.Name)) {
		return false
	}
	if pf.LowStockOnly && !p.LowStock() {
		return false
	}
	return true
}

func (r *InMemoryProductRepository) Filter(_ context.Context, pf ProductFilter) ([]models.Product, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var filtered []models.Product
	for _, p := range r.products {
		if matchesFilter(p, pf) {
			filtered = append(filtered, p)
		}
	}

	if pf.Offset != nil && *pf.Offset > len(filtered) {
		return []models.Product{}, 0, nil
	}

	start := 0
	if pf.Offset != nil {
		start = clamp(*pf.Offset, 0, len(filtered))
	}

	end := len(filtered)
	if pf.Limit != nil && *pf.Limit > 0 {
		end = clamp(start+*pf.Limit, start, len(filtered))
	}

	return filtered[start:end], len(filtered), nil
}

// Create adds a new product to the repository.
func (r *InMemoryProductRepository) Create(_ context.Context, product models.Product) (models.Product, error) {
	if product.Quantity < 0 {
		return models.Product{}, ErrInvalidQuantityChange
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if strings.EqualFold(p.Name, product.Name) && p.Unit.ID == product.Unit.ID {
			return models.Product{}, ErrDuplicatedValueUnique
		}
	}

	now := time.Now().UTC()
	product.ID = r.nextID
	product.CreatedAt = now
	product.UpdatedAt = now
	r.nextID++
	r.products = append(r.products, product)
	return product, nil
}

// GetAll retrieves all products from the repository.
func (r *InMemoryProductRepository) GetAll(_ context.Context) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Product, len(r.products))
	copy(out, r.products)
	return out, nil
}

// GetByID retrieves a product by its ID.
func (r *InMemoryProductRepository) GetByID(_ context.Context, id int) (models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i := r.indexOf(id)
	if i < 0 {
		return models.Product{}, ErrProductNotFound
	}
	return r.products[i], nil
}

func (r *InMemoryProductRepository) Get(ctx context.Context, productID int) (int, error) {
	p, err := r.GetByID(ctx, productID)
	if err != nil {
		return 0, err
	}
	return p.Quantity, nil
}

func (r *InMemoryProductRepository) Products(_ context.Context, ids []int) (map[int]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshotLocked(ids)
}

func (r *InMemoryProductRepository) Decrement(ctx context.Context, productID, amount int) error {
	return r.Apply(ctx, []StockChange{{ProductID: productID, Amount: amount}})
}

func (r *InMemoryProductRepository) Apply(_ context.Context, batch []StockChange) error {
	r.commitMu.Lock()
	defer r.commitMu.Unlock()
	return r.applyCommitted(batch)
}

func (r *InMemoryProductRepository) ListBelowThreshold(ctx context.Context) ([]models.Product, error) {
	low, _, err := r.Filter(ctx, ProductFilter{LowStockOnly: true})
	return low, err
}

func (r *InMemoryProductRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = []models.Product{}
	r.nextID = 1
}

// checkLocked verifies that every aggregated line is covered by stock minus
// what is already staged. Caller holds mu.
func (r *InMemoryProductRepository) checkLocked(batch []StockChange, staged map[int]int) error {
	for _, c := range batch {
		i := r.indexOf(c.ProductID)
		if i < 0 {
			return ErrProductNotFound
		}
		available := r.products[i].Quantity - staged[c.ProductID]
		if c.Amount > available {
			return &StockShortageError{ProductID: c.ProductID, Required: c.Amount, Available: available}
		}
	}
	return nil
}

// applyCommitted applies a batch all-or-nothing. Caller holds commitMu.
func (r *InMemoryProductRepository) applyCommitted(batch []StockChange) error {
	agg, err := aggregate(batch)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkLocked(agg, nil); err != nil {
		return err
	}
	now := time.Now().UTC()
	for _, c := range agg {
		i := r.indexOf(c.ProductID)
		r.products[i].Quantity -= c.Amount
		r.products[i].UpdatedAt = now
	}
	return nil
}

func (r *InMemoryProductRepository) snapshotLocked(ids []int) (map[int]models.Product, error) {
	out := make(map[int]models.Product, len(ids))
	for _, id := range ids {
		i := r.indexOf(id)
		if i < 0 {
			return nil, ErrProductNotFound
		}
		out[id] = r.products[i]
	}
	return out, nil
}

func (r *InMemoryProductRepository) indexOf(id int) int {
	for i, p := range r.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}
