package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rogerio-castellano/kitchen-stock/internal/models"
)

func TestInMemoryTransactorCommits(t *testing.T) {
	products, ps := seedLedger(t, 100, 50)
	servings := NewInMemoryServingRepository()
	tx := NewInMemoryTransactor(products, servings, nil)
	ctx := context.Background()
	ids := []int{ps[0].ID, ps[1].ID}

	var rec models.ServingRecord
	err := tx.InTx(ctx, ids, func(ltx LedgerTx) error {
		if err := ltx.Apply(ctx, []StockChange{{ProductID: ps[0].ID, Amount: 30}, {ProductID: ps[1].ID, Amount: 20}}); err != nil {
			return err
		}

		snap, err := ltx.Products(ctx, ids)
		if err != nil {
			return err
		}
		if snap[ps[0].ID].Quantity != 70 {
			t.Errorf("expected staged view 70, got %d", snap[ps[0].ID].Quantity)
		}

		rec, err = ltx.RecordServing(ctx, models.ServingRecord{
			MealID:       1,
			PortionCount: 1,
			ServedAt:     time.Now(),
			Usages: []models.IngredientUsage{
				{ProductID: ps[0].ID, QuantityUsed: 30},
				{ProductID: ps[1].ID, QuantityUsed: 20},
			},
		})
		return err
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if quantityOf(t, products, ps[0].ID) != 70 || quantityOf(t, products, ps[1].ID) != 30 {
		t.Fatal("expected staged changes to be applied")
	}
	stored, err := servings.GetByID(ctx, rec.ID)
	if err != nil {
		t.Fatalf("expected stored serving, got %v", err)
	}
	if len(stored.Usages) != 2 || stored.Usages[0].ServingID != rec.ID || stored.Usages[0].ID == 0 {
		t.Errorf("unexpected usages: %+v", stored.Usages)
	}
}

func TestInMemoryTransactorRollsBack(t *testing.T) {
	products, ps := seedLedger(t, 100, 50)
	servings := NewInMemoryServingRepository()
	tx := NewInMemoryTransactor(products, servings, nil)
	ctx := context.Background()
	boom := errors.New("boom")

	err := tx.InTx(ctx, []int{ps[0].ID}, func(ltx LedgerTx) error {
		if err := ltx.Apply(ctx, []StockChange{{ProductID: ps[0].ID, Amount: 30}}); err != nil {
			return err
		}
		if _, err := ltx.RecordServing(ctx, models.ServingRecord{MealID: 1, PortionCount: 1}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if q := quantityOf(t, products, ps[0].ID); q != 100 {
		t.Fatalf("expected rollback to keep 100, got %d", q)
	}
	if _, total, _ := servings.List(ctx, ServingFilter{}); total != 0 {
		t.Fatalf("expected no servings, got %d", total)
	}
}

func TestInMemoryTransactorSeesStagedAmounts(t *testing.T) {
	products, ps := seedLedger(t, 100)
	tx := NewInMemoryTransactor(products, NewInMemoryServingRepository(), nil)
	ctx := context.Background()

	err := tx.InTx(ctx, []int{ps[0].ID}, func(ltx LedgerTx) error {
		if err := ltx.Apply(ctx, []StockChange{{ProductID: ps[0].ID, Amount: 70}}); err != nil {
			return err
		}
		return ltx.Apply(ctx, []StockChange{{ProductID: ps[0].ID, Amount: 40}})
	})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if q := quantityOf(t, products, ps[0].ID); q != 100 {
		t.Fatalf("expected 100, got %d", q)
	}
}

func TestInMemoryTransactorHonoursCancelledContext(t *testing.T) {
	products, ps := seedLedger(t, 100)
	tx := NewInMemoryTransactor(products, NewInMemoryServingRepository(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := tx.InTx(ctx, []int{ps[0].ID}, func(LedgerTx) error {
		called = true
		return nil
	})
	if !errors.Is(err, context.Canceled) || called {
		t.Fatalf("expected context.Canceled without running fn, got %v (called=%v)", err, called)
	}
}

func TestServingHistoryAndUsage(t *testing.T) {
	products, ps := seedLedger(t, 1000, 1000)
	servings := NewInMemoryServingRepository()
	tx := NewInMemoryTransactor(products, servings, nil)
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	serve := func(mealID int, at time.Time, amounts ...int) {
		t.Helper()
		err := tx.InTx(ctx, []int{ps[0].ID, ps[1].ID}, func(ltx LedgerTx) error {
			var usages []models.IngredientUsage
			var changes []StockChange
			for i, a := range amounts {
				changes = append(changes, StockChange{ProductID: ps[i].ID, Amount: a})
				usages = append(usages, models.IngredientUsage{ProductID: ps[i].ID, QuantityUsed: a, UsedAt: at})
			}
			if err := ltx.Apply(ctx, changes); err != nil {
				return err
			}
			_, err := ltx.RecordServing(ctx, models.ServingRecord{MealID: mealID, PortionCount: 1, ServedAt: at, Usages: usages})
			return err
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	serve(1, base, 10, 20)
	serve(2, base.Add(time.Hour), 5)
	serve(1, base.Add(48*time.Hour), 1, 1)

	list, total, err := servings.List(ctx, ServingFilter{})
	if err != nil || total != 3 {
		t.Fatalf("expected 3 servings, got %d (%v)", total, err)
	}
	if !list[0].ServedAt.After(list[2].ServedAt) {
		t.Error("expected newest first")
	}

	mealID := 1
	_, total, _ = servings.List(ctx, ServingFilter{MealID: &mealID})
	if total != 2 {
		t.Errorf("expected 2 servings for meal 1, got %d", total)
	}

	until := base.Add(24 * time.Hour)
	usage, err := servings.UsageSummary(ctx, &base, &until)
	if err != nil {
		t.Fatal(err)
	}
	if len(usage) != 2 || usage[0].TotalUsed != 15 || usage[1].TotalUsed != 20 {
		t.Fatalf("unexpected usage summary: %+v", usage)
	}
}
