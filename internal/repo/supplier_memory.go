package repo

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rogerio-castellano/kitchen-stock/internal/models"
)

type InMemorySupplierRepository struct {
	mu        sync.RWMutex
	suppliers []models.Supplier
}

func NewInMemorySupplierRepository() *InMemorySupplierRepository {
	return &InMemorySupplierRepository{suppliers: []models.Supplier{}}
}

func (r *InMemorySupplierRepository) Create(_ context.Context, s models.Supplier) (models.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.suppliers {
		if strings.EqualFold(existing.Name, s.Name) {
			return models.Supplier{}, ErrDuplicatedValueUnique
		}
	}

	now := time.Now().UTC()
	s.ID = len(r.suppliers) + 1
	s.CreatedAt, s.UpdatedAt = now, now
	r.suppliers = append(r.suppliers, s)
	return s, nil
}

func (r *InMemorySupplierRepository) GetByID(_ context.Context, id int) (models.Supplier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.suppliers {
		if s.ID == id {
			return s, nil
		}
	}
	return models.Supplier{}, ErrSupplierNotFound
}

func (r *InMemorySupplierRepository) List(_ context.Context) ([]models.Supplier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Supplier, len(r.suppliers))
	copy(out, r.suppliers)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *InMemorySupplierRepository) SetActive(_ context.Context, id int, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.suppliers {
		if r.suppliers[i].ID == id {
			r.suppliers[i].Active = active
			r.suppliers[i].UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return ErrSupplierNotFound
}

func (r *InMemorySupplierRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.suppliers = []models.Supplier{}
}
