package handlers_test_suite

import (
	"encoding/json"
	"net/http"
	"testing"

	api "github.com/rogerio-castellano/kitchen-stock/internal/http"
	"github.com/rogerio-castellano/kitchen-stock/internal/repo"
)

func TestDashboardMetricsHandler(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	// Plov products plus one below threshold
	_, _, meal := plov(r, 1000)
	mustProduct(r, "Apples", 2, intPtr(10))
	mustMeal(r, "Soup")

	for _, portions := range []int{2, 3} {
		if w := serve(r, cookToken, meal.ID, portions); w.Code != http.StatusCreated {
			t.Fatalf("serving failed: %d", w.Code)
		}
	}

	w := doRequest(r, http.MethodGet, "/metrics/dashboard", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}

	var metrics repo.Metrics
	if err := json.NewDecoder(w.Body).Decode(&metrics); err != nil {
		t.Fatalf("failed to decode metrics: %v", err)
	}

	if metrics.TotalProducts != 3 {
		t.Errorf("expected 3 products, got %d", metrics.TotalProducts)
	}
	if metrics.LowStockCount != 1 {
		t.Errorf("expected 1 low-stock product, got %d", metrics.LowStockCount)
	}
	if metrics.ActiveMeals != 2 {
		t.Errorf("expected 2 active meals, got %d", metrics.ActiveMeals)
	}
	if metrics.TotalServings != 2 {
		t.Errorf("expected 2 servings, got %d", metrics.TotalServings)
	}
	if metrics.PortionsServed != 5 {
		t.Errorf("expected 5 portions served, got %d", metrics.PortionsServed)
	}
	if metrics.MostServedMeal.Name != "Plov" || metrics.MostServedMeal.Portions != 5 {
		t.Errorf("unexpected most served meal %+v", metrics.MostServedMeal)
	}
}

func TestDashboardMetricsHandler_CookForbidden(t *testing.T) {
	r := api.NewRouter()

	w := doRequest(r, http.MethodGet, "/metrics/dashboard", cookToken, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 Forbidden, got %d", w.Code)
	}
}
