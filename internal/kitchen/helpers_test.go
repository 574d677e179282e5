package kitchen

import (
	"context"
	"sync"
	"testing"

	"github.com/rogerio-castellano/kitchen-stock/internal/models"
	"github.com/rogerio-castellano/kitchen-stock/internal/notify"
	"github.com/rogerio-castellano/kitchen-stock/internal/repo"
)

type recorder struct {
	mu     sync.Mutex
	events []notify.Event
}

func (r *recorder) Publish(ev notify.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) all() []notify.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]notify.Event, len(r.events))
	copy(out, r.events)
	return out
}

type kitchenFixture struct {
	products    *repo.InMemoryProductRepository
	recipes     *repo.InMemoryRecipeCatalog
	servings    *repo.InMemoryServingRepository
	movements   *repo.InMemoryMovementRepository
	suppliers   *repo.InMemorySupplierRepository
	allergens   *repo.InMemoryAllergenRepository
	events      *recorder
	estimator   *Estimator
	coordinator *Coordinator
	adjuster    *StockAdjuster
	view        *AllergenView
}

func newFixture(t *testing.T) *kitchenFixture {
	t.Helper()
	f := &kitchenFixture{
		products:  repo.NewInMemoryProductRepository(),
		servings:  repo.NewInMemoryServingRepository(),
		movements: repo.NewInMemoryMovementRepository(),
		suppliers: repo.NewInMemorySupplierRepository(),
		events:    &recorder{},
	}
	f.recipes = repo.NewInMemoryRecipeCatalog(f.products)
	f.estimator = NewEstimator(f.recipes, f.products)
	f.coordinator = NewCoordinator(f.recipes, repo.NewInMemoryTransactor(f.products, f.servings, f.recipes), f.events)
	f.allergens = repo.NewInMemoryAllergenRepository(f.products)
	f.adjuster = NewStockAdjuster(repo.NewInMemoryAdjustmentStore(f.products, f.movements), f.suppliers, f.events)
	f.view = NewAllergenView(f.recipes, f.allergens)
	return f
}

func (f *kitchenFixture) product(t *testing.T, name string, qty int, threshold *int) models.Product {
	t.Helper()
	p, err := f.products.Create(context.Background(), models.Product{
		Name:      name,
		Quantity:  qty,
		Threshold: threshold,
		Unit:      models.Unit{ID: 1, Name: "gram", Abbreviation: "g"},
		Active:    true,
	})
	if err != nil {
		t.Fatalf("failed to create product %s: %v", name, err)
	}
	return p
}

func (f *kitchenFixture) meal(t *testing.T, name string, reqs map[int]int, order ...int) models.Meal {
	t.Helper()
	ctx := context.Background()
	m, err := f.recipes.CreateMeal(ctx, models.Meal{Name: name, Category: "lunch", Active: true})
	if err != nil {
		t.Fatalf("failed to create meal %s: %v", name, err)
	}
	for _, productID := range order {
		_, err := f.recipes.AddRequirement(ctx, models.IngredientRequirement{
			MealID:    m.ID,
			ProductID: productID,
			Quantity:  reqs[productID],
		})
		if err != nil {
			t.Fatalf("failed to add requirement: %v", err)
		}
	}
	return m
}

func (f *kitchenFixture) quantity(t *testing.T, productID int) int {
	t.Helper()
	q, err := f.products.Get(context.Background(), productID)
	if err != nil {
		t.Fatalf("failed to read product %d: %v", productID, err)
	}
	if q < 0 {
		t.Fatalf("product %d has negative stock %d", productID, q)
	}
	return q
}

func intPtr(v int) *int { return &v }

// plov sets up beef 1000g (threshold 300g) and potato 500g with a meal
// needing 200g beef and 100g potato per portion.
func plov(t *testing.T, f *kitchenFixture, beefQty int) (beef, potato models.Product, meal models.Meal) {
	t.Helper()
	beef = f.product(t, "Beef", beefQty, intPtr(300))
	potato = f.product(t, "Potato", 500, nil)
	meal = f.meal(t, "Plov", map[int]int{beef.ID: 200, potato.ID: 100}, beef.ID, potato.ID)
	return beef, potato, meal
}

// corruptCatalog serves the stored recipes plus rows that never went through
// validation, the way a hand-edited database would.
type corruptCatalog struct {
	repo.RecipeCatalog
	extra map[int][]models.IngredientRequirement
}

func (c corruptCatalog) RequirementsFor(ctx context.Context, mealID int) ([]models.IngredientRequirement, error) {
	reqs, err := c.RecipeCatalog.RequirementsFor(ctx, mealID)
	if err != nil {
		return nil, err
	}
	return append(reqs, c.extra[mealID]...), nil
}

func (f *kitchenFixture) withCorruptRow(req models.IngredientRequirement) repo.RecipeCatalog {
	return corruptCatalog{RecipeCatalog: f.recipes, extra: map[int][]models.IngredientRequirement{req.MealID: {req}}}
}
