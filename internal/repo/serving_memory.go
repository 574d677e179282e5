package repo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rogerio-castellano/kitchen-stock/internal/models"
)

type InMemoryServingRepository struct {
	mu          sync.RWMutex
	servings    []models.ServingRecord
	nextID      int
	nextUsageID int
}

func NewInMemoryServingRepository() *InMemoryServingRepository {
	return &InMemoryServingRepository{
		servings:    []models.ServingRecord{},
		nextUsageID: 1,
	}
}

// reserve assigns serving and usage ids. Ids of a rolled back commit are
// never reused, the same as a database sequence.
func (r *InMemoryServingRepository) reserve(rec models.ServingRecord) models.ServingRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	rec.ID = r.nextID
	usages := make([]models.IngredientUsage, len(rec.Usages))
	for i, u := range rec.Usages {
		u.ID = r.nextUsageID
		u.ServingID = rec.ID
		r.nextUsageID++
		usages[i] = u
	}
	rec.Usages = usages
	return rec
}

func (r *InMemoryServingRepository) insert(rec models.ServingRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.servings = append(r.servings, rec)
}

func servingMatches(s models.ServingRecord, sf ServingFilter) bool {
	if sf.MealID != nil && s.MealID != *sf.MealID {
		return false
	}
	if sf.Since != nil && s.ServedAt.Before(*sf.Since) {
		return false
	}
	if sf.Until != nil && s.ServedAt.After(*sf.Until) {
		return false
	}
	return true
}

// List returns servings newest first, optionally filtered and paginated.
func (r *InMemoryServingRepository) List(_ context.Context, sf ServingFilter) ([]models.ServingRecord, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var filtered []models.ServingRecord
	for i := len(r.servings) - 1; i >= 0; i-- {
		if servingMatches(r.servings[i], sf) {
			filtered = append(filtered, r.servings[i])
		}
	}

	if sf.Offset != nil && *sf.Offset > len(filtered) {
		return []models.ServingRecord{}, 0, nil
	}

	start := 0
	if sf.Offset != nil {
		start = clamp(*sf.Offset, 0, len(filtered))
	}

	end := len(filtered)
	if sf.Limit != nil && *sf.Limit > 0 {
		end = clamp(start+*sf.Limit, start, len(filtered))
	}

	return filtered[start:end], len(filtered), nil
}

func (r *InMemoryServingRepository) GetByID(_ context.Context, id int) (models.ServingRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.servings {
		if s.ID == id {
			return s, nil
		}
	}
	return models.ServingRecord{}, ErrServingNotFound
}

func (r *InMemoryServingRepository) UsageSummary(_ context.Context, since, until *time.Time) ([]ProductUsage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	totals := map[int]int{}
	for _, s := range r.servings {
		for _, u := range s.Usages {
			if since != nil && u.UsedAt.Before(*since) {
				continue
			}
			if until != nil && u.UsedAt.After(*until) {
				continue
			}
			totals[u.ProductID] += u.QuantityUsed
		}
	}

	out := make([]ProductUsage, 0, len(totals))
	for id, total := range totals {
		out = append(out, ProductUsage{ProductID: id, TotalUsed: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

func (r *InMemoryServingRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.servings = []models.ServingRecord{}
	r.nextID = 0
	r.nextUsageID = 1
}

// InMemoryTransactor commits servings against the in-memory ledger. Staged
// changes are only applied once fn has returned without error.
type InMemoryTransactor struct {
	products *InMemoryProductRepository
	servings *InMemoryServingRepository
	recipes  RecipeCatalog
}

// NewInMemoryTransactor builds a transactor over the in-memory stores. A nil
// catalog knows no meals.
func NewInMemoryTransactor(products *InMemoryProductRepository, servings *InMemoryServingRepository, recipes RecipeCatalog) *InMemoryTransactor {
	return &InMemoryTransactor{products: products, servings: servings, recipes: recipes}
}

func (t *InMemoryTransactor) InTx(ctx context.Context, productIDs []int, fn func(tx LedgerTx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.products.commitMu.Lock()
	defer t.products.commitMu.Unlock()

	tx := &memoryLedgerTx{products: t.products, servings: t.servings, recipes: t.recipes, staged: map[int]int{}}
	if err := fn(tx); err != nil {
		return err
	}

	if len(tx.changes) > 0 {
		if err := t.products.applyCommitted(tx.changes); err != nil {
			return err
		}
	}
	for _, rec := range tx.records {
		t.servings.insert(rec)
	}
	return nil
}

type memoryLedgerTx struct {
	products *InMemoryProductRepository
	servings *InMemoryServingRepository
	recipes  RecipeCatalog
	staged   map[int]int
	changes  []StockChange
	records  []models.ServingRecord
}

func (tx *memoryLedgerTx) Products(_ context.Context, ids []int) (map[int]models.Product, error) {
	tx.products.mu.RLock()
	defer tx.products.mu.RUnlock()
	snap, err := tx.products.snapshotLocked(ids)
	if err != nil {
		return nil, err
	}
	for id, p := range snap {
		p.Quantity -= tx.staged[id]
		snap[id] = p
	}
	return snap, nil
}

func (tx *memoryLedgerTx) Apply(_ context.Context, batch []StockChange) error {
	agg, err := aggregate(batch)
	if err != nil {
		return err
	}

	tx.products.mu.RLock()
	err = tx.products.checkLocked(agg, tx.staged)
	tx.products.mu.RUnlock()
	if err != nil {
		return err
	}
	for _, c := range agg {
		tx.staged[c.ProductID] += c.Amount
	}
	tx.changes = append(tx.changes, agg...)
	return nil
}

// RecordServing stages the record. It becomes visible once InTx commits.
func (tx *memoryLedgerTx) RecordServing(_ context.Context, rec models.ServingRecord) (models.ServingRecord, error) {
	rec = tx.servings.reserve(rec)
	tx.records = append(tx.records, rec)
	return rec, nil
}

func (tx *memoryLedgerTx) Recipe(ctx context.Context, mealID int) (models.Meal, []models.IngredientRequirement, error) {
	if tx.recipes == nil {
		return models.Meal{}, nil, ErrMealNotFound
	}
	meal, err := tx.recipes.GetMeal(ctx, mealID)
	if err != nil {
		return models.Meal{}, nil, err
	}
	reqs, err := tx.recipes.RequirementsFor(ctx, mealID)
	if err != nil {
		return models.Meal{}, nil, err
	}
	return meal, reqs, nil
}
