package repo

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rogerio-castellano/kitchen-stock/internal/models"
)

type InMemoryRecipeCatalog struct {
	mu           sync.RWMutex
	products     ProductLookup
	meals        []models.Meal
	requirements map[int][]models.IngredientRequirement
	nextID       int
}

// NewInMemoryRecipeCatalog creates a catalog that checks product identity
// against products. A nil lookup accepts any product id.
func NewInMemoryRecipeCatalog(products ProductLookup) *InMemoryRecipeCatalog {
	return &InMemoryRecipeCatalog{
		products:     products,
		meals:        []models.Meal{},
		requirements: map[int][]models.IngredientRequirement{},
		nextID:       1,
	}
}

func (c *InMemoryRecipeCatalog) CreateMeal(_ context.Context, meal models.Meal) (models.Meal, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, m := range c.meals {
		if strings.EqualFold(m.Name, meal.Name) && strings.EqualFold(m.Category, meal.Category) {
			return models.Meal{}, ErrDuplicatedValueUnique
		}
	}
	meal.ID = c.nextID
	meal.CreatedAt = time.Now().UTC()
	c.nextID++
	c.meals = append(c.meals, meal)
	return meal, nil
}

func (c *InMemoryRecipeCatalog) GetMeal(_ context.Context, id int) (models.Meal, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mealLocked(id)
}

func (c *InMemoryRecipeCatalog) ListMeals(_ context.Context) ([]models.Meal, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Meal, len(c.meals))
	copy(out, c.meals)
	return out, nil
}

func (c *InMemoryRecipeCatalog) RequirementsFor(_ context.Context, mealID int) ([]models.IngredientRequirement, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if _, err := c.mealLocked(mealID); err != nil {
		return nil, err
	}
	reqs := c.requirements[mealID]
	out := make([]models.IngredientRequirement, len(reqs))
	copy(out, reqs)
	return out, nil
}

func (c *InMemoryRecipeCatalog) AddRequirement(ctx context.Context, req models.IngredientRequirement) (models.IngredientRequirement, error) {
	if req.Quantity <= 0 {
		return models.IngredientRequirement{}, ErrInvalidQuantity
	}
	if c.products != nil {
		if _, err := c.products.GetByID(ctx, req.ProductID); err != nil {
			return models.IngredientRequirement{}, err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.mealLocked(req.MealID); err != nil {
		return models.IngredientRequirement{}, err
	}
	reqs := c.requirements[req.MealID]
	for _, existing := range reqs {
		if existing.ProductID == req.ProductID {
			return models.IngredientRequirement{}, ErrDuplicateRequirement
		}
	}
	req.Position = len(reqs) + 1
	c.requirements[req.MealID] = append(reqs, req)
	return req, nil
}

func (c *InMemoryRecipeCatalog) UpdateRequirement(_ context.Context, mealID, productID, quantity int) (models.IngredientRequirement, error) {
	if quantity <= 0 {
		return models.IngredientRequirement{}, ErrInvalidQuantity
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.mealLocked(mealID); err != nil {
		return models.IngredientRequirement{}, err
	}
	reqs := c.requirements[mealID]
	for i := range reqs {
		if reqs[i].ProductID == productID {
			reqs[i].Quantity = quantity
			return reqs[i], nil
		}
	}
	return models.IngredientRequirement{}, ErrRequirementNotFound
}

func (c *InMemoryRecipeCatalog) RemoveRequirement(_ context.Context, mealID, productID int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	reqs := c.requirements[mealID]
	for i := range reqs {
		if reqs[i].ProductID == productID {
			reqs = append(reqs[:i], reqs[i+1:]...)
			for j := range reqs {
				reqs[j].Position = j + 1
			}
			c.requirements[mealID] = reqs
			return nil
		}
	}
	return ErrRequirementNotFound
}

// SetMealActive toggles whether a meal may be served.
func (c *InMemoryRecipeCatalog) SetMealActive(_ context.Context, mealID int, active bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.meals {
		if c.meals[i].ID == mealID {
			c.meals[i].Active = active
			return nil
		}
	}
	return ErrMealNotFound
}

func (c *InMemoryRecipeCatalog) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.meals = []models.Meal{}
	c.requirements = map[int][]models.IngredientRequirement{}
	c.nextID = 1
}

func (c *InMemoryRecipeCatalog) mealLocked(id int) (models.Meal, error) {
	for _, m := range c.meals {
		if m.ID == id {
			return m, nil
		}
	}
	return models.Meal{}, ErrMealNotFound
}
