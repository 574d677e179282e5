package handlers_test_suite

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	api "github.com/rogerio-castellano/kitchen-stock/internal/http"
	handler "github.com/rogerio-castellano/kitchen-stock/internal/http/handlers"
)

func TestCreateProductHandler_Valid(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	w := createProduct(r, handler.ProductRequest{
		Name:      "Rice",
		Quantity:  5000,
		Threshold: intPtr(1000),
		Unit:      handler.UnitRequest{ID: 1, Name: "gram", Abbreviation: "g"},
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 Created, got %d", w.Code)
	}

	var resp handler.ProductResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}

	if resp.Name != "Rice" {
		t.Errorf("expected name 'Rice', got %v", resp.Name)
	}
	if resp.Quantity != 5000 {
		t.Errorf("expected quantity 5000, got %v", resp.Quantity)
	}
	if !resp.Active {
		t.Error("expected new product to be active")
	}
	if resp.LowStock {
		t.Error("expected product above threshold not to be flagged")
	}
}

func TestCreateProductHandler_Invalid(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	tests := []struct {
		name           string
		payload        handler.ProductRequest
		expectedErrors []string
	}{
		{
			name:           "Empty name and unit",
			payload:        handler.ProductRequest{Name: ""},
			expectedErrors: []string{"Name", "Unit"},
		},
		{
			name:           "Negative quantity",
			payload:        handler.ProductRequest{Name: "Milk", Quantity: -1, Unit: handler.UnitRequest{Name: "liter"}},
			expectedErrors: []string{"Quantity"},
		},
		{
			name:           "Negative threshold",
			payload:        handler.ProductRequest{Name: "Milk", Threshold: intPtr(-5), Unit: handler.UnitRequest{Name: "liter"}},
			expectedErrors: []string{"Threshold"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := createProduct(r, tt.payload)

			if w.Code != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d", w.Code)
			}

			var resp []handler.ValidationError
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("error decoding response: %v", err)
			}

			for _, field := range tt.expectedErrors {
				found := false
				for _, err := range resp {
					if strings.EqualFold(err.Field, field) {
						found = true
						break
					}
				}
				if !found {
					t.Errorf("expected error for field %q, but not found", field)
				}
			}
		})
	}
}

func TestCreateProductHandler_MalformedJSON(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	badJSON := `{Name: "Invalid" Quantity: 100 "}` // missing comma
	req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewBufferString(badJSON))
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 Bad Request, got %d", w.Code)
	}

	expectedBody := "invalid input\n"
	if w.Body.String() != expectedBody {
		t.Errorf("expected response body %q, got %q", expectedBody, w.Body.String())
	}
}

func TestCreateProductHandler_Duplicate(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	mustProduct(r, "Flour", 100, nil)
	w := createProduct(r, handler.ProductRequest{Name: "flour", Unit: handler.UnitRequest{ID: 1, Name: "gram"}})

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409 Conflict, got %d", w.Code)
	}
}

func TestGetProductsHandler(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	mustProduct(r, "Carrot", 10, intPtr(50))
	mustProduct(r, "Onion", 500, intPtr(50))
	mustProduct(r, "Garlic", 5, nil)

	tests := []struct {
		name      string
		query     string
		wantNames []string
		wantTotal int
	}{
		{"All", "", []string{"Carrot", "Onion", "Garlic"}, 3},
		{"By name", "?name=on", []string{"Onion"}, 1},
		{"Low stock only", "?low_stock=true", []string{"Carrot"}, 1},
		{"Paginated", "?offset=1&limit=1", []string{"Onion"}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(r, http.MethodGet, "/products"+tt.query, cookToken, nil)
			if w.Code != http.StatusOK {
				t.Fatalf("expected 200 OK, got %d", w.Code)
			}

			var resp handler.ProductsSearchResult
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("error decoding response: %v", err)
			}
			if resp.Meta.TotalCount != tt.wantTotal {
				t.Errorf("expected total %d, got %d", tt.wantTotal, resp.Meta.TotalCount)
			}
			if len(resp.Data) != len(tt.wantNames) {
				t.Fatalf("expected %d products, got %d", len(tt.wantNames), len(resp.Data))
			}
			for i, name := range tt.wantNames {
				if resp.Data[i].Name != name {
					t.Errorf("expected product %d to be %q, got %q", i, name, resp.Data[i].Name)
				}
			}
		})
	}
}

func TestGetProductsHandler_InvalidPagination(t *testing.T) {
	r := api.NewRouter()

	w := doRequest(r, http.MethodGet, "/products?limit=abc", token, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 Bad Request, got %d", w.Code)
	}
}

func TestGetProductByIDHandler(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	p := mustProduct(r, "Butter", 250, nil)

	tests := []struct {
		name string
		path string
		code int
	}{
		{"Existing", fmt.Sprintf("/products/%d", p.Id), http.StatusOK},
		{"Missing", "/products/999", http.StatusNotFound},
		{"Invalid ID", "/products/abc", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(r, http.MethodGet, tt.path, token, nil)
			if w.Code != tt.code {
				t.Errorf("expected %d, got %d", tt.code, w.Code)
			}
		})
	}
}

func TestGetLowStockHandler(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	low := mustProduct(r, "Eggs", 3, intPtr(10))
	mustProduct(r, "Salt", 900, intPtr(100))
	mustProduct(r, "Pepper", 1, nil)
	inactive := false
	w := createProduct(r, handler.ProductRequest{
		Name: "Old Jam", Quantity: 0, Threshold: intPtr(5), Active: &inactive,
		Unit: handler.UnitRequest{ID: 1, Name: "gram"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("product creation failed: %d", w.Code)
	}

	w = doRequest(r, http.MethodGet, "/products/low-stock", cookToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}

	var items []handler.LowStockItem
	if err := json.NewDecoder(w.Body).Decode(&items); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 low-stock product, got %d: %+v", len(items), items)
	}
	if items[0].ProductID != low.Id || items[0].Quantity != 3 || items[0].Threshold != 10 || items[0].Unit != "gram" {
		t.Errorf("unexpected low-stock item %+v", items[0])
	}
}
