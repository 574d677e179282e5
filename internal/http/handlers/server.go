package handlers

import (
	"github.com/rogerio-castellano/kitchen-stock/internal/auth"
	"github.com/rogerio-castellano/kitchen-stock/internal/kitchen"
	"github.com/rogerio-castellano/kitchen-stock/internal/notify"
	repo "github.com/rogerio-castellano/kitchen-stock/internal/repo"
)

var (
	productRepo  repo.ProductRepository
	movementRepo repo.MovementRepository
	metricsRepo  repo.MetricsRepository
	userRepo     repo.UserRepository
	recipes      repo.RecipeCatalog
	servingRepo  repo.ServingRepository
	allergenRepo repo.AllergenRepository
	supplierRepo repo.SupplierRepository

	estimator    *kitchen.Estimator
	coordinator  *kitchen.Coordinator
	adjuster     *kitchen.StockAdjuster
	allergenView *kitchen.AllergenView

	tokens *auth.TokenManager
	hub    *notify.Hub
)

func SetProductRepo(r repo.ProductRepository) {
	productRepo = r
}

func SetMovementRepo(r repo.MovementRepository) {
	movementRepo = r
}

func SetMetricsRepo(r repo.MetricsRepository) {
	metricsRepo = r
}

func SetUserRepo(r repo.UserRepository) {
	userRepo = r
}

func SetRecipeCatalog(c repo.RecipeCatalog) {
	recipes = c
}

func SetServingRepo(r repo.ServingRepository) {
	servingRepo = r
}

func SetAllergenRepo(r repo.AllergenRepository) {
	allergenRepo = r
}

func SetSupplierRepo(r repo.SupplierRepository) {
	supplierRepo = r
}

func SetAllergenView(v *kitchen.AllergenView) {
	allergenView = v
}

func SetKitchen(e *kitchen.Estimator, c *kitchen.Coordinator, a *kitchen.StockAdjuster) {
	estimator = e
	coordinator = c
	adjuster = a
}

func SetTokenManager(m *auth.TokenManager) {
	tokens = m
}

func SetHub(h *notify.Hub) {
	hub = h
}
