package repo

import (
	"context"

	"github.com/rogerio-castellano/kitchen-stock/internal/models"
)

// RecipeCatalog maps meals to their ordered ingredient requirements.
// Quantities are per portion and must be strictly positive; a meal holds at
// most one requirement per product.
type RecipeCatalog interface {
	CreateMeal(ctx context.Context, meal models.Meal) (models.Meal, error)
	GetMeal(ctx context.Context, id int) (models.Meal, error)
	ListMeals(ctx context.Context) ([]models.Meal, error)
	SetMealActive(ctx context.Context, mealID int, active bool) error
	// RequirementsFor returns an empty slice for a meal without ingredients.
	RequirementsFor(ctx context.Context, mealID int) ([]models.IngredientRequirement, error)
	AddRequirement(ctx context.Context, req models.IngredientRequirement) (models.IngredientRequirement, error)
	UpdateRequirement(ctx context.Context, mealID, productID, quantity int) (models.IngredientRequirement, error)
	RemoveRequirement(ctx context.Context, mealID, productID int) error
}

// ProductLookup resolves product identity for the catalog.
type ProductLookup interface {
	GetByID(ctx context.Context, id int) (models.Product, error)
}
