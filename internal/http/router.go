package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/rogerio-castellano/kitchen-stock/docs"
	h "github.com/rogerio-castellano/kitchen-stock/internal/http/handlers"
	"github.com/rogerio-castellano/kitchen-stock/internal/models"
)

func NewRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(AccessLog)
	r.Use(middleware.Recoverer)

	r.Group(func(r chi.Router) {
		r.Use(RateLimit)
		r.Post("/login", h.LoginHandler)
	})
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware)
		r.Use(RateLimit)

		r.Get("/products", h.GetProductsHandler)
		r.Get("/products/low-stock", h.GetLowStockHandler)
		r.Get("/products/{id}", h.GetProductByIDHandler)
		r.Get("/products/{id}/movements", h.GetMovementsHandler)
		r.Get("/products/{id}/allergens", h.GetProductAllergensHandler)
		r.Get("/allergens", h.GetAllergensHandler)

		r.Get("/meals", h.GetMealsHandler)
		r.Get("/meals/{id}/estimate", h.GetEstimateHandler)
		r.Get("/meals/{id}/ingredients", h.GetRequirementsHandler)
		r.Get("/meals/{id}/allergens", h.GetMealAllergensHandler)

		r.Get("/servings", h.GetServingsHandler)
		r.Get("/servings/usage", h.GetUsageHandler)
		r.Get("/servings/{id}", h.GetServingHandler)

		r.Get("/ws/events", h.EventsHandler)

		r.Group(func(r chi.Router) {
			r.Use(RequireRole(models.RoleAdmin, models.RoleManager))
			r.Post("/products", h.CreateProductHandler)
			r.Post("/products/{id}/adjust", h.AdjustQuantityHandler)
			r.Get("/metrics/dashboard", h.GetDashboardMetricsHandler)

			r.Post("/allergens", h.CreateAllergenHandler)
			r.Put("/products/{id}/allergens/{allergenID}", h.TagProductHandler)
			r.Delete("/products/{id}/allergens/{allergenID}", h.UntagProductHandler)

			r.Get("/suppliers", h.GetSuppliersHandler)
			r.Post("/suppliers", h.CreateSupplierHandler)
			r.Put("/suppliers/{id}/status", h.SetSupplierStatusHandler)
		})

		r.Group(func(r chi.Router) {
			r.Use(RequireRole(models.RoleAdmin, models.RoleManager, models.RoleCook))
			r.Post("/meals", h.CreateMealHandler)
			r.Put("/meals/{id}/status", h.SetMealStatusHandler)
			r.Post("/meals/{id}/ingredients", h.AddRequirementHandler)
			r.Put("/meals/{id}/ingredients/{productID}", h.UpdateRequirementHandler)
			r.Delete("/meals/{id}/ingredients/{productID}", h.RemoveRequirementHandler)
		})

		r.Group(func(r chi.Router) {
			r.Use(RequireRole(models.RoleAdmin, models.RoleCook))
			r.Post("/meals/{id}/serve", h.ServeMealHandler)
		})
	})

	return r
}
