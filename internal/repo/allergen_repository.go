package repo

import (
	"context"

	"github.com/rogerio-castellano/kitchen-stock/internal/models"
)

// AllergenRepository keeps the allergen vocabulary and which products carry
// which allergen.
type AllergenRepository interface {
	Create(ctx context.Context, a models.Allergen) (models.Allergen, error)
	List(ctx context.Context) ([]models.Allergen, error)
	// Tag is idempotent: tagging a product twice keeps a single tag.
	Tag(ctx context.Context, productID, allergenID, actorID int) error
	Untag(ctx context.Context, productID, allergenID int) error
	// ForProducts returns the allergens of each product, sorted by name.
	// Products without allergens are absent from the map.
	ForProducts(ctx context.Context, productIDs []int) (map[int][]models.Allergen, error)
}
