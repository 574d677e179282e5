package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/rogerio-castellano/kitchen-stock/internal/models"
)

func TestInMemoryAllergenTagging(t *testing.T) {
	products, ps := seedLedger(t, 10, 20)
	r := NewInMemoryAllergenRepository(products)
	ctx := context.Background()

	nuts, err := r.Create(ctx, models.Allergen{Name: "nuts"})
	if err != nil {
		t.Fatal(err)
	}
	eggs, _ := r.Create(ctx, models.Allergen{Name: "eggs"})
	if _, err := r.Create(ctx, models.Allergen{Name: "Nuts"}); !errors.Is(err, ErrDuplicatedValueUnique) {
		t.Fatalf("expected ErrDuplicatedValueUnique, got %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := r.Tag(ctx, ps[0].ID, nuts.ID, 1); err != nil {
			t.Fatalf("tag %d: %v", i, err)
		}
	}
	if err := r.Tag(ctx, ps[0].ID, eggs.ID, 1); err != nil {
		t.Fatal(err)
	}
	if err := r.Tag(ctx, 404, nuts.ID, 1); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	if err := r.Tag(ctx, ps[1].ID, 404, 1); !errors.Is(err, ErrAllergenNotFound) {
		t.Fatalf("expected ErrAllergenNotFound, got %v", err)
	}

	got, err := r.ForProducts(ctx, []int{ps[0].ID, ps[1].ID})
	if err != nil {
		t.Fatal(err)
	}
	if len(got[ps[0].ID]) != 2 || got[ps[0].ID][0].Name != "eggs" || got[ps[0].ID][1].Name != "nuts" {
		t.Errorf("expected eggs and nuts sorted by name, got %+v", got[ps[0].ID])
	}
	if _, ok := got[ps[1].ID]; ok {
		t.Errorf("expected untagged product to be absent, got %+v", got[ps[1].ID])
	}

	if err := r.Untag(ctx, ps[0].ID, nuts.ID); err != nil {
		t.Fatal(err)
	}
	if err := r.Untag(ctx, ps[0].ID, nuts.ID); !errors.Is(err, ErrAllergenNotFound) {
		t.Fatalf("expected ErrAllergenNotFound on second untag, got %v", err)
	}
}

func TestInMemorySuppliers(t *testing.T) {
	r := NewInMemorySupplierRepository()
	ctx := context.Background()

	dairy, err := r.Create(ctx, models.Supplier{Name: "Dairy", Phone: "+7 700 000", Active: true})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.Create(ctx, models.Supplier{Name: "dairy"}); !errors.Is(err, ErrDuplicatedValueUnique) {
		t.Fatalf("expected ErrDuplicatedValueUnique, got %v", err)
	}
	if _, err := r.Create(ctx, models.Supplier{Name: "Bakery", Active: true}); err != nil {
		t.Fatal(err)
	}

	list, _ := r.List(ctx)
	if len(list) != 2 || list[0].Name != "Bakery" {
		t.Fatalf("expected suppliers sorted by name, got %+v", list)
	}

	if err := r.SetActive(ctx, dairy.ID, false); err != nil {
		t.Fatal(err)
	}
	got, err := r.GetByID(ctx, dairy.ID)
	if err != nil || got.Active {
		t.Fatalf("expected inactive supplier, got %+v (%v)", got, err)
	}
	if _, err := r.GetByID(ctx, 404); !errors.Is(err, ErrSupplierNotFound) {
		t.Fatalf("expected ErrSupplierNotFound, got %v", err)
	}
}
