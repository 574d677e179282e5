package kitchen

import (
	"context"
	"errors"
	"testing"

	"github.com/rogerio-castellano/kitchen-stock/internal/models"
	"github.com/rogerio-castellano/kitchen-stock/internal/notify"
	"github.com/rogerio-castellano/kitchen-stock/internal/repo"
)

func TestAdjustLogsMovementAndPublishes(t *testing.T) {
	f := newFixture(t)
	beef := f.product(t, "Beef", 100, intPtr(300))

	p, err := f.adjuster.Adjust(context.Background(), models.Movement{ProductID: beef.ID, Delta: 250, Reason: "delivery", ActorID: 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Quantity != 350 {
		t.Errorf("expected 350, got %d", p.Quantity)
	}

	movements, total, err := f.movements.GetByProductID(context.Background(), beef.ID, repo.MovementFilter{})
	if err != nil || total != 1 {
		t.Fatalf("expected 1 movement, got %d (%v)", total, err)
	}
	if movements[0].Delta != 250 || movements[0].Reason != "delivery" || movements[0].ActorID != 7 {
		t.Errorf("unexpected movement: %+v", movements[0])
	}

	events := f.events.all()
	if len(events) != 1 || events[0].Type != notify.StockChanged || events[0].LowStock[beef.ID] {
		t.Fatalf("unexpected events: %+v", events)
	}
}

func TestAdjustNeverGoesNegative(t *testing.T) {
	f := newFixture(t)
	beef := f.product(t, "Beef", 100, nil)

	_, err := f.adjuster.Adjust(context.Background(), models.Movement{ProductID: beef.ID, Delta: -101, Reason: "spoiled", ActorID: 1})
	if !errors.Is(err, repo.ErrInvalidQuantityChange) {
		t.Fatalf("expected ErrInvalidQuantityChange, got %v", err)
	}
	if q := f.quantity(t, beef.ID); q != 100 {
		t.Errorf("expected 100, got %d", q)
	}
	if _, total, _ := f.movements.GetByProductID(context.Background(), beef.ID, repo.MovementFilter{}); total != 0 {
		t.Errorf("expected no movement, got %d", total)
	}
	if len(f.events.all()) != 0 {
		t.Error("expected no event")
	}
}

func TestAdjustRejectsZeroDelta(t *testing.T) {
	f := newFixture(t)
	beef := f.product(t, "Beef", 100, nil)

	if _, err := f.adjuster.Adjust(context.Background(), models.Movement{ProductID: beef.ID, ActorID: 1}); !errors.Is(err, repo.ErrInvalidQuantityChange) {
		t.Fatalf("expected ErrInvalidQuantityChange, got %v", err)
	}
}

type failingMovements struct {
	repo.MovementRepository
}

func (failingMovements) Log(context.Context, models.Movement) error {
	return errors.New("db down")
}

func TestAdjustKeepsStockWhenMovementFails(t *testing.T) {
	f := newFixture(t)
	beef := f.product(t, "Beef", 100, nil)
	store := repo.NewInMemoryAdjustmentStore(f.products, failingMovements{f.movements})
	adjuster := NewStockAdjuster(store, f.suppliers, f.events)

	if _, err := adjuster.Adjust(context.Background(), models.Movement{ProductID: beef.ID, Delta: 50, Reason: "delivery", ActorID: 1}); err == nil {
		t.Fatal("expected the failed movement to fail the adjustment")
	}
	if q := f.quantity(t, beef.ID); q != 100 {
		t.Errorf("expected stock unchanged at 100, got %d", q)
	}
	if len(f.events.all()) != 0 {
		t.Errorf("expected no event, got %+v", f.events.all())
	}

	// A retry after recovery applies the delivery exactly once.
	if _, err := f.adjuster.Adjust(context.Background(), models.Movement{ProductID: beef.ID, Delta: 50, Reason: "delivery", ActorID: 1}); err != nil {
		t.Fatalf("unexpected error on retry: %v", err)
	}
	if q := f.quantity(t, beef.ID); q != 150 {
		t.Errorf("expected 150 after the retry, got %d", q)
	}
}

func TestAdjustDeliveryFromSupplier(t *testing.T) {
	f := newFixture(t)
	beef := f.product(t, "Beef", 100, nil)
	farm, err := f.suppliers.Create(context.Background(), models.Supplier{Name: "Green Farm", Active: true})
	if err != nil {
		t.Fatalf("failed to create supplier: %v", err)
	}

	if _, err := f.adjuster.Adjust(context.Background(), models.Movement{ProductID: beef.ID, Delta: 400, SupplierID: &farm.ID, ActorID: 2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	movements, _, err := f.movements.GetByProductID(context.Background(), beef.ID, repo.MovementFilter{})
	if err != nil || len(movements) != 1 {
		t.Fatalf("expected 1 movement, got %d (%v)", len(movements), err)
	}
	m := movements[0]
	if m.SupplierID == nil || *m.SupplierID != farm.ID || m.Reason != ReasonDelivery {
		t.Errorf("expected a delivery from supplier %d, got %+v", farm.ID, m)
	}
}

func TestAdjustDeliveryRejections(t *testing.T) {
	f := newFixture(t)
	beef := f.product(t, "Beef", 100, nil)
	ctx := context.Background()
	closed, _ := f.suppliers.Create(ctx, models.Supplier{Name: "Closed Dairy", Active: false})
	open, _ := f.suppliers.Create(ctx, models.Supplier{Name: "Open Dairy", Active: true})
	unknown := 404

	tests := []struct {
		name     string
		movement models.Movement
		want     error
	}{
		{"unknown supplier", models.Movement{ProductID: beef.ID, Delta: 10, SupplierID: &unknown}, repo.ErrSupplierNotFound},
		{"inactive supplier", models.Movement{ProductID: beef.ID, Delta: 10, SupplierID: &closed.ID}, repo.ErrSupplierInactive},
		{"withdrawal", models.Movement{ProductID: beef.ID, Delta: -10, SupplierID: &open.ID}, repo.ErrInvalidQuantityChange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.adjuster.Adjust(ctx, tt.movement); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
	if q := f.quantity(t, beef.ID); q != 100 {
		t.Errorf("expected stock unchanged, got %d", q)
	}
	if len(f.events.all()) != 0 {
		t.Error("expected no event")
	}
}

func TestSweepLowStock(t *testing.T) {
	f := newFixture(t)
	low := f.product(t, "Milk", 2, intPtr(5))
	f.product(t, "Flour", 50, intPtr(5))
	f.product(t, "Salt", 1, nil)

	n, err := SweepLowStock(context.Background(), f.products, f.events)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 low-stock product, got %d", n)
	}
	events := f.events.all()
	if len(events) != 1 || len(events[0].ProductIDs) != 1 || events[0].ProductIDs[0] != low.ID {
		t.Fatalf("unexpected events: %+v", events)
	}
}
