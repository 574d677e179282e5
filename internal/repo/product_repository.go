package repo

import (
	"context"

	"github.com/rogerio-castellano/kitchen-stock/internal/models"
)

// ProductRepository defines the interface for product data operations.
type ProductRepository interface {
	StockLedger
	Create(ctx context.Context, product models.Product) (models.Product, error)
	GetAll(ctx context.Context) ([]models.Product, error)
	Filter(ctx context.Context, pf ProductFilter) ([]models.Product, int, error)
	GetByID(ctx context.Context, id int) (models.Product, error)
}
