package kitchen

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/rogerio-castellano/kitchen-stock/internal/models"
	"github.com/rogerio-castellano/kitchen-stock/internal/notify"
	"github.com/rogerio-castellano/kitchen-stock/internal/repo"
)

const DefaultMaxRetries = 3

// Coordinator serves meals: it validates a request against authoritative
// stock, commits every decrement and the serving log in one step, and
// announces the change once the commit is durable.
type Coordinator struct {
	recipes    repo.RecipeCatalog
	tx         repo.Transactor
	publisher  notify.Publisher
	maxRetries int
	now        func() time.Time
	log        *zap.Logger
}

type Option func(*Coordinator)

func WithMaxRetries(n int) Option {
	return func(c *Coordinator) {
		if n > 0 {
			c.maxRetries = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

func NewCoordinator(recipes repo.RecipeCatalog, tx repo.Transactor, publisher notify.Publisher, opts ...Option) *Coordinator {
	if publisher == nil {
		publisher = notify.Discard{}
	}
	c := &Coordinator{
		recipes:    recipes,
		tx:         tx,
		publisher:  publisher,
		maxRetries: DefaultMaxRetries,
		now:        func() time.Time { return time.Now().UTC() },
		log:        zap.L().Named("coordinator"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Serve consumes the ingredients of portionCount portions of a meal.
// Nothing is mutated unless every ingredient is covered.
func (c *Coordinator) Serve(ctx context.Context, mealID, portionCount, actorID int) (models.ServingRecord, error) {
	if portionCount < 1 {
		return models.ServingRecord{}, ErrInvalidPortionCount
	}

	var (
		rec      models.ServingRecord
		lowStock map[int]bool
		err      error
	)
	for attempt := 1; ; attempt++ {
		rec, lowStock, err = c.serveOnce(ctx, mealID, portionCount, actorID)
		if err == nil {
			break
		}
		if !errors.Is(err, repo.ErrConflict) {
			return models.ServingRecord{}, err
		}
		if attempt >= c.maxRetries {
			c.log.Warn("serving retries exhausted",
				zap.Int("meal_id", mealID), zap.Int("attempts", attempt), zap.Error(err))
			return models.ServingRecord{}, fmt.Errorf("meal %d after %d attempts: %w", mealID, attempt, ErrTransientConflict)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return models.ServingRecord{}, ctxErr
		}
		c.log.Debug("serving conflict, retrying", zap.Int("meal_id", mealID), zap.Int("attempt", attempt))
	}

	c.log.Info("serving committed",
		zap.Int("serving_id", rec.ID), zap.Int("meal_id", mealID),
		zap.Int("portions", portionCount), zap.Int("actor_id", actorID))
	c.publisher.Publish(notify.NewMealUpdated(mealID, lowStock))
	return rec, nil
}

func (c *Coordinator) serveOnce(ctx context.Context, mealID, portionCount, actorID int) (models.ServingRecord, map[int]bool, error) {
	reqs, err := c.recipe(ctx, mealID)
	if err != nil {
		return models.ServingRecord{}, nil, err
	}
	changes, err := consumption(reqs, portionCount)
	if err != nil {
		return models.ServingRecord{}, nil, fmt.Errorf("meal %d: %w", mealID, err)
	}
	return c.commit(ctx, mealID, portionCount, actorID, reqs, changes)
}

// recipe returns the requirements of a servable meal.
func (c *Coordinator) recipe(ctx context.Context, mealID int) ([]models.IngredientRequirement, error) {
	meal, err := c.recipes.GetMeal(ctx, mealID)
	if err != nil {
		return nil, mapMealError(mealID, err)
	}
	if !meal.Active {
		return nil, fmt.Errorf("meal %d is inactive: %w", mealID, ErrMealNotFound)
	}

	reqs, err := c.recipes.RequirementsFor(ctx, mealID)
	if err != nil {
		return nil, mapMealError(mealID, err)
	}
	if len(reqs) == 0 {
		return nil, fmt.Errorf("meal %d: %w", mealID, ErrNoRecipeDefined)
	}
	return reqs, nil
}

// commit re-reads stock under lock, rejects with every shortage, and applies
// the batch together with the serving record. The meal and its recipe are
// checked again under the same locks; an edit since planning is a conflict
// and the serving is planned again.
func (c *Coordinator) commit(ctx context.Context, mealID, portionCount, actorID int, planned []models.IngredientRequirement, changes []repo.StockChange) (models.ServingRecord, map[int]bool, error) {
	ids := make([]int, len(changes))
	for i, ch := range changes {
		ids[i] = ch.ProductID
	}

	var (
		rec      models.ServingRecord
		lowStock map[int]bool
	)
	err := c.tx.InTx(ctx, ids, func(tx repo.LedgerTx) error {
		meal, current, err := tx.Recipe(ctx, mealID)
		if err != nil {
			return mapMealError(mealID, err)
		}
		if !meal.Active {
			return fmt.Errorf("meal %d was deactivated: %w", mealID, ErrMealNotFound)
		}
		if !sameRecipe(planned, current) {
			return fmt.Errorf("meal %d recipe changed: %w", mealID, repo.ErrConflict)
		}

		products, err := tx.Products(ctx, ids)
		if err != nil {
			return fmt.Errorf("failed to read stock: %w", err)
		}

		var shortages []Shortage
		for _, ch := range changes {
			p := products[ch.ProductID]
			if ch.Amount > p.Quantity {
				shortages = append(shortages, Shortage{
					ProductID: p.ID,
					Name:      p.Name,
					Required:  ch.Amount,
					Available: p.Quantity,
				})
			}
		}
		if len(shortages) > 0 {
			return &InsufficientStockError{MealID: mealID, Shortages: shortages}
		}

		if err := tx.Apply(ctx, changes); err != nil {
			return err
		}

		now := c.now()
		usages := make([]models.IngredientUsage, len(changes))
		lowStock = make(map[int]bool, len(changes))
		for i, ch := range changes {
			usages[i] = models.IngredientUsage{
				ProductID:    ch.ProductID,
				QuantityUsed: ch.Amount,
				UsedAt:       now,
				RecordedBy:   actorID,
			}
			p := products[ch.ProductID]
			p.Quantity -= ch.Amount
			lowStock[p.ID] = p.LowStock()
		}

		rec, err = tx.RecordServing(ctx, models.ServingRecord{
			MealID:       mealID,
			PortionCount: portionCount,
			ServedBy:     actorID,
			ServedAt:     now,
			Usages:       usages,
		})
		return err
	})
	return rec, lowStock, err
}

func sameRecipe(a, b []models.IngredientRequirement) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ProductID != b[i].ProductID || a[i].Quantity != b[i].Quantity {
			return false
		}
	}
	return true
}

// consumption turns per-portion requirements into ledger changes.
func consumption(reqs []models.IngredientRequirement, portionCount int) ([]repo.StockChange, error) {
	changes := make([]repo.StockChange, len(reqs))
	for i, r := range reqs {
		if r.Quantity <= 0 {
			return nil, fmt.Errorf("product %d has per-portion quantity %d: %w", r.ProductID, r.Quantity, ErrInvalidQuantity)
		}
		if portionCount > math.MaxInt/r.Quantity {
			return nil, fmt.Errorf("%d portions overflow the requirement for product %d: %w", portionCount, r.ProductID, ErrInvalidPortionCount)
		}
		changes[i] = repo.StockChange{ProductID: r.ProductID, Amount: r.Quantity * portionCount}
	}
	return changes, nil
}
