package repo

import (
	"context"

	"github.com/rogerio-castellano/kitchen-stock/internal/models"
)

// SupplierRepository keeps the suppliers deliveries are received from.
type SupplierRepository interface {
	Create(ctx context.Context, s models.Supplier) (models.Supplier, error)
	GetByID(ctx context.Context, id int) (models.Supplier, error)
	List(ctx context.Context) ([]models.Supplier, error)
	SetActive(ctx context.Context, id int, active bool) error
}
