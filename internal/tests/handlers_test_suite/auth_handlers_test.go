package handlers_test_suite

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	api "github.com/rogerio-castellano/kitchen-stock/internal/http"
	handler "github.com/rogerio-castellano/kitchen-stock/internal/http/handlers"
)

func TestLoginHandler(t *testing.T) {
	r := api.NewRouter()

	tests := []struct {
		name     string
		body     string
		code     int
		hasToken bool
	}{
		{"Valid credentials", `{"username":"cook","password":"secret"}`, http.StatusOK, true},
		{"Wrong password", `{"username":"cook","password":"nope"}`, http.StatusUnauthorized, false},
		{"Unknown user", `{"username":"ghost","password":"secret"}`, http.StatusUnauthorized, false},
		{"Malformed body", `{"username":`, http.StatusBadRequest, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.code {
				t.Fatalf("expected %d, got %d", tt.code, w.Code)
			}
			if !tt.hasToken {
				return
			}
			var resp handler.LoginResult
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode token response: %v", err)
			}
			if resp.Token == "" {
				t.Error("expected token in response")
			}
		})
	}
}

func TestProtectedRoutes(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	beef, _, meal := plov(r, 1000)
	adjust := fmt.Sprintf("/products/%d/adjust", beef.Id)
	serveURL := fmt.Sprintf("/meals/%d/serve", meal.ID)

	tests := []struct {
		name    string
		method  string
		path    string
		bearer  string
		payload any
		code    int
	}{
		{"No token", http.MethodGet, "/products", "", nil, http.StatusUnauthorized},
		{"Garbage token", http.MethodGet, "/products", "not-a-jwt", nil, http.StatusUnauthorized},
		{"Cook reads products", http.MethodGet, "/products", cookToken, nil, http.StatusOK},
		{"Cook cannot create product", http.MethodPost, "/products", cookToken,
			handler.ProductRequest{Name: "Tea", Unit: handler.UnitRequest{Name: "gram"}}, http.StatusForbidden},
		{"Cook cannot adjust stock", http.MethodPost, adjust, cookToken,
			handler.QuantityAdjustmentRequest{Delta: 5}, http.StatusForbidden},
		{"Manager adjusts stock", http.MethodPost, adjust, managerToken,
			handler.QuantityAdjustmentRequest{Delta: 5, Reason: "delivery"}, http.StatusOK},
		{"Manager edits recipe", http.MethodPut, fmt.Sprintf("/meals/%d/ingredients/%d", meal.ID, beef.Id), managerToken,
			handler.RequirementUpdateRequest{Quantity: 100}, http.StatusOK},
		{"Manager cannot serve", http.MethodPost, serveURL, managerToken,
			handler.ServeRequest{Portions: 1}, http.StatusForbidden},
		{"Cook serves", http.MethodPost, serveURL, cookToken,
			handler.ServeRequest{Portions: 1}, http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(r, tt.method, tt.path, tt.bearer, tt.payload)
			if w.Code != tt.code {
				t.Errorf("expected %d, got %d: %s", tt.code, w.Code, w.Body.String())
			}
		})
	}
}

func TestRequestIDHeader(t *testing.T) {
	r := api.NewRouter()

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.Header.Set(api.RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get(api.RequestIDHeader); got != "req-123" {
		t.Errorf("expected request id to be echoed, got %q", got)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products", nil))
	if w.Header().Get(api.RequestIDHeader) == "" {
		t.Error("expected a generated request id")
	}
}
