package kitchen

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rogerio-castellano/kitchen-stock/internal/models"
	"github.com/rogerio-castellano/kitchen-stock/internal/notify"
	"github.com/rogerio-castellano/kitchen-stock/internal/repo"
)

// ReasonDelivery is the movement reason recorded for supplier deliveries.
const ReasonDelivery = "delivery"

// StockAdjuster applies administrative corrections such as deliveries,
// write-offs and recounts. It is separate from serving and leaves a
// movement behind for every change.
type StockAdjuster struct {
	store     repo.AdjustmentStore
	suppliers repo.SupplierRepository
	publisher notify.Publisher
	now       func() time.Time
}

// NewStockAdjuster builds an adjuster. Without a supplier repository every
// supplier reference is unknown.
func NewStockAdjuster(store repo.AdjustmentStore, suppliers repo.SupplierRepository, publisher notify.Publisher) *StockAdjuster {
	if publisher == nil {
		publisher = notify.Discard{}
	}
	return &StockAdjuster{
		store:     store,
		suppliers: suppliers,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Adjust changes a product's stock by m.Delta and records m. Subscribers hear
// about the change only once both are stored.
func (a *StockAdjuster) Adjust(ctx context.Context, m models.Movement) (models.Product, error) {
	if m.Delta == 0 {
		return models.Product{}, repo.ErrInvalidQuantityChange
	}
	if m.SupplierID != nil {
		if err := a.checkDelivery(ctx, &m); err != nil {
			return models.Product{}, err
		}
	}
	m.CreatedAt = a.now()

	product, err := a.store.Adjust(ctx, m)
	if err != nil {
		return models.Product{}, err
	}

	if product.LowStock() {
		zap.L().Warn("product below threshold",
			zap.Int("product_id", product.ID), zap.String("name", product.Name),
			zap.Int("quantity", product.Quantity), zap.Intp("threshold", product.Threshold))
	}
	a.publisher.Publish(notify.NewStockChanged(map[int]bool{product.ID: product.LowStock()}))
	return product, nil
}

// checkDelivery accepts only positive movements from an active supplier.
func (a *StockAdjuster) checkDelivery(ctx context.Context, m *models.Movement) error {
	if m.Delta < 0 {
		return fmt.Errorf("a supplier delivery cannot remove stock: %w", repo.ErrInvalidQuantityChange)
	}
	if a.suppliers == nil {
		return repo.ErrSupplierNotFound
	}
	supplier, err := a.suppliers.GetByID(ctx, *m.SupplierID)
	if err != nil {
		return err
	}
	if !supplier.Active {
		return fmt.Errorf("supplier %d: %w", supplier.ID, repo.ErrSupplierInactive)
	}
	if m.Reason == "" {
		m.Reason = ReasonDelivery
	}
	return nil
}

// SweepLowStock announces every product currently below its threshold.
func SweepLowStock(ctx context.Context, ledger repo.StockLedger, publisher notify.Publisher) (int, error) {
	low, err := ledger.ListBelowThreshold(ctx)
	if err != nil {
		return 0, err
	}
	if len(low) == 0 {
		return 0, nil
	}
	flags := make(map[int]bool, len(low))
	for _, p := range low {
		flags[p.ID] = true
	}
	publisher.Publish(notify.NewStockChanged(flags))
	return len(low), nil
}
