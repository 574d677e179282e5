package handlers_test_suite

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/rogerio-castellano/kitchen-stock/internal/auth"
	api "github.com/rogerio-castellano/kitchen-stock/internal/http"
	handler "github.com/rogerio-castellano/kitchen-stock/internal/http/handlers"
	"github.com/rogerio-castellano/kitchen-stock/internal/kitchen"
	"github.com/rogerio-castellano/kitchen-stock/internal/models"
	"github.com/rogerio-castellano/kitchen-stock/internal/notify"
	"github.com/rogerio-castellano/kitchen-stock/internal/repo"
)

const password = "secret"

var (
	token        string // admin
	managerToken string
	cookToken    string

	productRepo  *repo.InMemoryProductRepository
	recipes      *repo.InMemoryRecipeCatalog
	servingRepo  *repo.InMemoryServingRepository
	allergenRepo *repo.InMemoryAllergenRepository
	supplierRepo *repo.InMemorySupplierRepository
	hub          *notify.Hub
)

func init() {
	setupTestRepos()
	r := api.NewRouter()

	var err error
	for username, dst := range map[string]*string{"admin": &token, "manager": &managerToken, "cook": &cookToken} {
		*dst, err = generateToken(r, username, password)
		if err != nil {
			panic(fmt.Sprintf("error generating token: %v", err))
		}
	}
}

func setupTestRepos() {
	productRepo = repo.NewInMemoryProductRepository()
	handler.SetProductRepo(productRepo)

	movementRepo := repo.NewInMemoryMovementRepository()
	handler.SetMovementRepo(movementRepo)

	recipes = repo.NewInMemoryRecipeCatalog(productRepo)
	handler.SetRecipeCatalog(recipes)

	servingRepo = repo.NewInMemoryServingRepository()
	handler.SetServingRepo(servingRepo)

	userRepo := repo.NewInMemoryUserRepository()
	handler.SetUserRepo(userRepo)

	hash, _ := auth.HashPassword(password)
	for _, u := range []models.User{
		{Username: "admin", Role: models.RoleAdmin},
		{Username: "manager", Role: models.RoleManager},
		{Username: "cook", Role: models.RoleCook},
	} {
		u.PasswordHash = hash
		if _, err := userRepo.CreateUser(context.Background(), u); err != nil {
			panic(err)
		}
	}

	metricsRepo := repo.NewInMemoryMetricsRepository()
	handler.SetMetricsRepo(metricsRepo)
	metricsRepo.SetRepositories(productRepo, recipes, servingRepo)

	estimator := kitchen.NewEstimator(recipes, productRepo)
	var err error
	hub, err = notify.NewHub(4, func(ctx context.Context, mealID int) (int, error) {
		est, err := estimator.Estimate(ctx, mealID)
		return est.MaxPortions, err
	})
	if err != nil {
		panic(err)
	}
	handler.SetHub(hub)

	coordinator := kitchen.NewCoordinator(recipes, repo.NewInMemoryTransactor(productRepo, servingRepo, recipes), hub)
	allergenRepo = repo.NewInMemoryAllergenRepository(productRepo)
	handler.SetAllergenRepo(allergenRepo)
	handler.SetAllergenView(kitchen.NewAllergenView(recipes, allergenRepo))

	supplierRepo = repo.NewInMemorySupplierRepository()
	handler.SetSupplierRepo(supplierRepo)

	adjuster := kitchen.NewStockAdjuster(repo.NewInMemoryAdjustmentStore(productRepo, movementRepo), supplierRepo, hub)
	handler.SetKitchen(estimator, coordinator, adjuster)

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	handler.SetTokenManager(tokens)
	api.SetTokenManager(tokens)
}

func clearAll() {
	productRepo.Clear()
	recipes.Clear()
	servingRepo.Clear()
	allergenRepo.Clear()
	supplierRepo.Clear()
}

func generateToken(r http.Handler, username, password string) (string, error) {
	payload := handler.UserLogin{Username: username, Password: password}
	body, _ := json.Marshal(payload)

	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp handler.LoginResult
	err := json.NewDecoder(w.Body).Decode(&resp)
	if err != nil {
		return "", fmt.Errorf("token decoding failed: %v", err)
	}
	return resp.Token, nil
}

func doRequest(r http.Handler, method, path, bearer string, payload any) *httptest.ResponseRecorder {
	var body *bytes.Reader
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewReader(b)
	} else {
		body = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, body)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createProduct(r http.Handler, p handler.ProductRequest) *httptest.ResponseRecorder {
	return doRequest(r, http.MethodPost, "/products", token, p)
}

func adjustProduct(r http.Handler, productID int, adj handler.QuantityAdjustmentRequest) *httptest.ResponseRecorder {
	return doRequest(r, http.MethodPost, fmt.Sprintf("/products/%d/adjust", productID), token, adj)
}

func intPtr(v int) *int { return &v }

func mustProduct(r http.Handler, name string, qty int, threshold *int) handler.ProductResponse {
	w := createProduct(r, handler.ProductRequest{
		Name:      name,
		Quantity:  qty,
		Threshold: threshold,
		Unit:      handler.UnitRequest{ID: 1, Name: "gram", Abbreviation: "g"},
	})
	if w.Code != http.StatusCreated {
		panic(fmt.Sprintf("product %s creation failed: %d %s", name, w.Code, w.Body.String()))
	}
	var resp handler.ProductResponse
	_ = json.NewDecoder(w.Body).Decode(&resp)
	return resp
}

// mustMeal creates a meal and adds its requirements in the given order.
func mustMeal(r http.Handler, name string, reqs ...handler.RequirementRequest) models.Meal {
	w := doRequest(r, http.MethodPost, "/meals", token, handler.MealRequest{Name: name, Category: "lunch"})
	if w.Code != http.StatusCreated {
		panic(fmt.Sprintf("meal %s creation failed: %d %s", name, w.Code, w.Body.String()))
	}
	var meal models.Meal
	_ = json.NewDecoder(w.Body).Decode(&meal)

	for _, req := range reqs {
		w := doRequest(r, http.MethodPost, fmt.Sprintf("/meals/%d/ingredients", meal.ID), token, req)
		if w.Code != http.StatusCreated {
			panic(fmt.Sprintf("requirement for meal %s failed: %d %s", name, w.Code, w.Body.String()))
		}
	}
	return meal
}

// plov is the reference meal: 100 beef and 50 potato per portion.
func plov(r http.Handler, beefQty int) (beef, potato handler.ProductResponse, meal models.Meal) {
	beef = mustProduct(r, "Beef", beefQty, intPtr(200))
	potato = mustProduct(r, "Potato", 1000, intPtr(100))
	meal = mustMeal(r, "Plov",
		handler.RequirementRequest{ProductID: beef.Id, Quantity: 100},
		handler.RequirementRequest{ProductID: potato.Id, Quantity: 50},
	)
	return beef, potato, meal
}

func serve(r http.Handler, bearer string, mealID, portions int) *httptest.ResponseRecorder {
	return doRequest(r, http.MethodPost, fmt.Sprintf("/meals/%d/serve", mealID), bearer, handler.ServeRequest{Portions: portions})
}

func quantityOf(productID int) int {
	p, err := productRepo.GetByID(context.Background(), productID)
	if err != nil {
		panic(err)
	}
	return p.Quantity
}
