package repo

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rogerio-castellano/kitchen-stock/internal/models"
)

type productAllergen struct {
	productID  int
	allergenID int
}

type InMemoryAllergenRepository struct {
	mu        sync.RWMutex
	products  ProductLookup
	allergens []models.Allergen
	tags      map[productAllergen]int // tag -> tagging user
}

// NewInMemoryAllergenRepository checks tagged products against products. A
// nil lookup accepts any product id.
func NewInMemoryAllergenRepository(products ProductLookup) *InMemoryAllergenRepository {
	return &InMemoryAllergenRepository{
		products:  products,
		allergens: []models.Allergen{},
		tags:      map[productAllergen]int{},
	}
}

func (r *InMemoryAllergenRepository) Create(_ context.Context, a models.Allergen) (models.Allergen, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.allergens {
		if strings.EqualFold(existing.Name, a.Name) {
			return models.Allergen{}, ErrDuplicatedValueUnique
		}
	}
	a.ID = len(r.allergens) + 1
	a.CreatedAt = time.Now().UTC()
	r.allergens = append(r.allergens, a)
	return a, nil
}

func (r *InMemoryAllergenRepository) List(_ context.Context) ([]models.Allergen, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Allergen, len(r.allergens))
	copy(out, r.allergens)
	sortAllergens(out)
	return out, nil
}

func (r *InMemoryAllergenRepository) Tag(ctx context.Context, productID, allergenID, actorID int) error {
	if r.products != nil {
		if _, err := r.products.GetByID(ctx, productID); err != nil {
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.allergenLocked(allergenID); !ok {
		return ErrAllergenNotFound
	}
	key := productAllergen{productID: productID, allergenID: allergenID}
	if _, ok := r.tags[key]; !ok {
		r.tags[key] = actorID
	}
	return nil
}

func (r *InMemoryAllergenRepository) Untag(_ context.Context, productID, allergenID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := productAllergen{productID: productID, allergenID: allergenID}
	if _, ok := r.tags[key]; !ok {
		return ErrAllergenNotFound
	}
	delete(r.tags, key)
	return nil
}

func (r *InMemoryAllergenRepository) ForProducts(_ context.Context, productIDs []int) (map[int][]models.Allergen, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := map[int][]models.Allergen{}
	for _, productID := range productIDs {
		if _, done := out[productID]; done {
			continue
		}
		var tagged []models.Allergen
		for _, a := range r.allergens {
			if _, ok := r.tags[productAllergen{productID: productID, allergenID: a.ID}]; ok {
				tagged = append(tagged, a)
			}
		}
		if len(tagged) > 0 {
			sortAllergens(tagged)
			out[productID] = tagged
		}
	}
	return out, nil
}

func (r *InMemoryAllergenRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.allergens = []models.Allergen{}
	r.tags = map[productAllergen]int{}
}

func (r *InMemoryAllergenRepository) allergenLocked(id int) (models.Allergen, bool) {
	for _, a := range r.allergens {
		if a.ID == id {
			return a, true
		}
	}
	return models.Allergen{}, false
}

func sortAllergens(as []models.Allergen) {
	sort.Slice(as, func(i, j int) bool { return as[i].Name < as[j].Name })
}
