package repo

import (
	"context"
	"time"

	"github.com/rogerio-castellano/kitchen-stock/internal/models"
)

type MovementFilter struct {
	Since  *time.Time
	Until  *time.Time
	Offset *int
	Limit  *int
}

// MovementRepository logs administrative stock corrections.
type MovementRepository interface {
	Log(ctx context.Context, m models.Movement) error
	GetByProductID(ctx context.Context, productID int, mf MovementFilter) ([]models.Movement, int, error)
}
