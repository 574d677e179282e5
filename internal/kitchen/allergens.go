package kitchen

import (
	"context"
	"sort"

	"github.com/rogerio-castellano/kitchen-stock/internal/models"
	"github.com/rogerio-castellano/kitchen-stock/internal/repo"
)

// MealAllergen is one allergen a meal contains and the ingredients that
// bring it in.
type MealAllergen struct {
	models.Allergen
	ProductIDs []int `json:"product_ids"`
}

// AllergenView derives a meal's allergens from the products in its recipe.
type AllergenView struct {
	recipes   repo.RecipeCatalog
	allergens repo.AllergenRepository
}

func NewAllergenView(recipes repo.RecipeCatalog, allergens repo.AllergenRepository) *AllergenView {
	return &AllergenView{recipes: recipes, allergens: allergens}
}

// ForMeal lists the allergens of a meal sorted by name. Inactive meals are
// reported too; the view does not decide whether a meal may be served.
func (v *AllergenView) ForMeal(ctx context.Context, mealID int) ([]MealAllergen, error) {
	reqs, err := v.recipes.RequirementsFor(ctx, mealID)
	if err != nil {
		return nil, mapMealError(mealID, err)
	}
	if len(reqs) == 0 {
		return []MealAllergen{}, nil
	}

	ids := make([]int, len(reqs))
	for i, r := range reqs {
		ids[i] = r.ProductID
	}
	byProduct, err := v.allergens.ForProducts(ctx, ids)
	if err != nil {
		return nil, err
	}

	index := map[int]int{}
	out := []MealAllergen{}
	for _, r := range reqs {
		for _, a := range byProduct[r.ProductID] {
			i, ok := index[a.ID]
			if !ok {
				i = len(out)
				index[a.ID] = i
				out = append(out, MealAllergen{Allergen: a})
			}
			out[i].ProductIDs = append(out[i].ProductIDs, r.ProductID)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
