package handlers_integrated_test_suite

import (
	"fmt"
	"net/http"
	"sync"
	"testing"

	api "github.com/rogerio-castellano/kitchen-stock/internal/http"
	handler "github.com/rogerio-castellano/kitchen-stock/internal/http/handlers"
	"github.com/rogerio-castellano/kitchen-stock/internal/kitchen"
	"github.com/rogerio-castellano/kitchen-stock/internal/models"
	"github.com/rogerio-castellano/kitchen-stock/internal/repo"
)

func setupPlov(t *testing.T, r http.Handler, beefQty int) (beef, potato handler.ProductResponse, meal models.Meal) {
	t.Helper()
	threshold := 200
	gram := handler.UnitRequest{Name: "gram", Abbreviation: "g"}

	w := doRequest(r, http.MethodPost, "/products", handler.ProductRequest{Name: "Beef", Quantity: beefQty, Threshold: &threshold, Unit: gram})
	if w.Code != http.StatusCreated {
		t.Fatalf("beef creation failed: %d %s", w.Code, w.Body.String())
	}
	beef = decode[handler.ProductResponse](t, w)

	w = doRequest(r, http.MethodPost, "/products", handler.ProductRequest{Name: "Potato", Quantity: 1000, Unit: gram})
	if w.Code != http.StatusCreated {
		t.Fatalf("potato creation failed: %d %s", w.Code, w.Body.String())
	}
	potato = decode[handler.ProductResponse](t, w)

	w = doRequest(r, http.MethodPost, "/meals", handler.MealRequest{Name: "Plov", Category: "lunch"})
	if w.Code != http.StatusCreated {
		t.Fatalf("meal creation failed: %d %s", w.Code, w.Body.String())
	}
	meal = decode[models.Meal](t, w)

	for _, req := range []handler.RequirementRequest{
		{ProductID: beef.Id, Quantity: 100},
		{ProductID: potato.Id, Quantity: 50},
	} {
		w = doRequest(r, http.MethodPost, fmt.Sprintf("/meals/%d/ingredients", meal.ID), req)
		if w.Code != http.StatusCreated {
			t.Fatalf("requirement failed: %d %s", w.Code, w.Body.String())
		}
	}
	return beef, potato, meal
}

func productQuantity(t *testing.T, r http.Handler, id int) int {
	t.Helper()
	w := doRequest(r, http.MethodGet, fmt.Sprintf("/products/%d", id), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get product failed: %d", w.Code)
	}
	return decode[handler.ProductResponse](t, w).Quantity
}

func TestServingFlow(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	beef, potato, meal := setupPlov(t, r, 1000)

	w := doRequest(r, http.MethodGet, fmt.Sprintf("/meals/%d/estimate", meal.ID), nil)
	if est := decode[kitchen.Estimate](t, w); est.MaxPortions != 10 {
		t.Errorf("expected estimate 10, got %d", est.MaxPortions)
	}

	w = doRequest(r, http.MethodPost, fmt.Sprintf("/meals/%d/serve", meal.ID), handler.ServeRequest{Portions: 3})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 Created, got %d: %s", w.Code, w.Body.String())
	}
	rec := decode[models.ServingRecord](t, w)
	if len(rec.Usages) != 2 {
		t.Errorf("expected 2 usages, got %d", len(rec.Usages))
	}

	if got := productQuantity(t, r, beef.Id); got != 700 {
		t.Errorf("expected beef 700, got %d", got)
	}
	if got := productQuantity(t, r, potato.Id); got != 850 {
		t.Errorf("expected potato 850, got %d", got)
	}

	w = doRequest(r, http.MethodPost, fmt.Sprintf("/meals/%d/serve", meal.ID), handler.ServeRequest{Portions: 8})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 Conflict, got %d", w.Code)
	}
	if got := productQuantity(t, r, beef.Id); got != 700 {
		t.Errorf("expected beef untouched at 700, got %d", got)
	}

	w = doRequest(r, http.MethodGet, "/servings/usage", nil)
	usage := decode[[]repo.ProductUsage](t, w)
	if len(usage) != 2 {
		t.Errorf("expected usage for 2 products, got %+v", usage)
	}
}

func TestConcurrentServings(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	beef, _, meal := setupPlov(t, r, 1000)

	const requests = 15
	var wg sync.WaitGroup
	codes := make(chan int, requests)
	for i := 0; i < requests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			codes <- doRequest(r, http.MethodPost, fmt.Sprintf("/meals/%d/serve", meal.ID), handler.ServeRequest{Portions: 1}).Code
		}()
	}
	wg.Wait()
	close(codes)

	served := 0
	for code := range codes {
		switch code {
		case http.StatusCreated:
			served++
		case http.StatusConflict, http.StatusServiceUnavailable:
		default:
			t.Errorf("unexpected status %d", code)
		}
	}

	remaining := productQuantity(t, r, beef.Id)
	if remaining < 0 {
		t.Fatalf("stock went negative: %d", remaining)
	}
	if remaining != 1000-served*100 {
		t.Errorf("stock not conserved: %d servings left %d", served, remaining)
	}
}

func TestAdjustAndMovements(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	beef, _, _ := setupPlov(t, r, 100)

	w := doRequest(r, http.MethodPost, fmt.Sprintf("/products/%d/adjust", beef.Id), handler.QuantityAdjustmentRequest{Delta: 400, Reason: "delivery"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}
	if p := decode[handler.ProductResponse](t, w); p.Quantity != 500 {
		t.Errorf("expected 500 after delivery, got %d", p.Quantity)
	}

	w = doRequest(r, http.MethodPost, fmt.Sprintf("/products/%d/adjust", beef.Id), handler.QuantityAdjustmentRequest{Delta: -501})
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409 Conflict, got %d", w.Code)
	}

	w = doRequest(r, http.MethodGet, fmt.Sprintf("/products/%d/movements", beef.Id), nil)
	res := decode[handler.MovementsSearchResult](t, w)
	if res.Meta.TotalCount != 1 || res.Data[0].Reason != "delivery" {
		t.Errorf("expected one delivery movement, got %+v", res)
	}
}
