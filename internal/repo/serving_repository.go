package repo

import (
	"context"
	"time"

	"github.com/rogerio-castellano/kitchen-stock/internal/models"
)

type ServingFilter struct {
	MealID *int
	Since  *time.Time
	Until  *time.Time
	Offset *int
	Limit  *int
}

// ProductUsage is the total quantity of a product consumed by servings.
type ProductUsage struct {
	ProductID int `json:"product_id"`
	TotalUsed int `json:"total_used"`
}

// ServingRepository reads the serving log. Records are written only through
// a Transactor commit.
type ServingRepository interface {
	List(ctx context.Context, sf ServingFilter) ([]models.ServingRecord, int, error)
	GetByID(ctx context.Context, id int) (models.ServingRecord, error)
	UsageSummary(ctx context.Context, since, until *time.Time) ([]ProductUsage, error)
}
