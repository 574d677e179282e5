package kitchen

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/rogerio-castellano/kitchen-stock/internal/models"
	"github.com/rogerio-castellano/kitchen-stock/internal/repo"
)

// Estimate is the answer to "how many portions could be served right now".
type Estimate struct {
	MealID      int `json:"meal_id"`
	MaxPortions int `json:"max_portions"`
}

// Estimator computes portion estimates from the catalog and a possibly stale
// stock snapshot. Every caller that needs an estimate goes through it.
type Estimator struct {
	recipes repo.RecipeCatalog
	ledger  repo.StockLedger
	log     *zap.Logger
}

func NewEstimator(recipes repo.RecipeCatalog, ledger repo.StockLedger) *Estimator {
	return &Estimator{recipes: recipes, ledger: ledger, log: zap.L().Named("estimator")}
}

// Estimate returns the number of whole portions the current stock allows.
// A meal without requirements yields 0.
func (e *Estimator) Estimate(ctx context.Context, mealID int) (Estimate, error) {
	if _, err := e.recipes.GetMeal(ctx, mealID); err != nil {
		return Estimate{}, mapMealError(mealID, err)
	}

	reqs, err := e.recipes.RequirementsFor(ctx, mealID)
	if err != nil {
		return Estimate{}, mapMealError(mealID, err)
	}
	if len(reqs) == 0 {
		return Estimate{MealID: mealID, MaxPortions: 0}, nil
	}

	products, err := e.ledger.Products(ctx, productIDs(reqs))
	if err != nil {
		return Estimate{}, fmt.Errorf("failed to read stock for meal %d: %w", mealID, err)
	}
	stock := make(map[int]int, len(products))
	for id, p := range products {
		stock[id] = p.Quantity
	}

	return Estimate{MealID: mealID, MaxPortions: e.maxPortions(mealID, reqs, stock)}, nil
}

func (e *Estimator) maxPortions(mealID int, reqs []models.IngredientRequirement, stock map[int]int) int {
	portions, invalid := MaxPortions(reqs, stock)
	for _, r := range invalid {
		e.log.Warn("recipe requirement has non-positive quantity",
			zap.Int("meal_id", mealID), zap.Int("product_id", r.ProductID), zap.Int("quantity", r.Quantity))
	}
	return portions
}

// MaxPortions is the minimum over requirements of floor(stock / perPortion).
// Requirements with a non-positive quantity count as zero availability and
// are returned so the caller can report them. No requirements means 0.
func MaxPortions(reqs []models.IngredientRequirement, stock map[int]int) (int, []models.IngredientRequirement) {
	if len(reqs) == 0 {
		return 0, nil
	}

	var invalid []models.IngredientRequirement
	portions := -1
	for _, r := range reqs {
		n := 0
		if r.Quantity <= 0 {
			invalid = append(invalid, r)
		} else if available := stock[r.ProductID]; available > 0 {
			n = available / r.Quantity
		}
		if portions < 0 || n < portions {
			portions = n
		}
	}
	return portions, invalid
}

func productIDs(reqs []models.IngredientRequirement) []int {
	ids := make([]int, len(reqs))
	for i, r := range reqs {
		ids[i] = r.ProductID
	}
	return ids
}

func mapMealError(mealID int, err error) error {
	if errors.Is(err, repo.ErrMealNotFound) {
		return fmt.Errorf("meal %d: %w", mealID, ErrMealNotFound)
	}
	return err
}
