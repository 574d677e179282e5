package handlers

import (
	"net/http"

	repo "github.com/rogerio-castellano/kitchen-stock/internal/repo"
)

// ServeMealHandler godoc
// @Summary Serve portions of a meal
// @Description Consumes every ingredient of the requested portions in one step, or nothing at all.
// @Tags servings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Meal ID"
// @Param serving body ServeRequest true "Number of portions"
// @Success 201 {object} models.ServingRecord
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} InsufficientStockResponse
// @Failure 422 {object} ErrorResponse "Meal has no recipe"
// @Failure 503 {object} ErrorResponse "Concurrent servings, retry"
// @Router /meals/{id}/serve [post]
func ServeMealHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid meal ID", http.StatusBadRequest)
		return
	}
	var req ServeRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	rec, err := coordinator.Serve(r.Context(), id, req.Portions, actorID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// GetServingsHandler godoc
// @Summary Serving history, newest first
// @Tags servings
// @Produce json
// @Security BearerAuth
// @Param meal_id query int false "Only servings of this meal"
// @Param since query string false "From this timestamp (RFC3339)"
// @Param until query string false "Until this timestamp (RFC3339)"
// @Param offset query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination"
// @Success 200 {object} ServingsSearchResult
// @Failure 400 {string} string "Invalid input"
// @Router /servings [get]
func GetServingsHandler(w http.ResponseWriter, r *http.Request) {
	mealID, err := intQuery(r, "meal_id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	since, err := timeQuery(r, "since")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	until, err := timeQuery(r, "until")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	offset, limit, err := pagination(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	servings, total, err := servingRepo.List(r.Context(), repo.ServingFilter{
		MealID: mealID, Since: since, Until: until, Offset: offset, Limit: limit,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ServingsSearchResult{Data: servings, Meta: Meta{TotalCount: total}})
}

// GetServingHandler godoc
// @Summary A serving with its ingredient usages
// @Tags servings
// @Produce json
// @Security BearerAuth
// @Param id path int true "Serving ID"
// @Success 200 {object} models.ServingRecord
// @Failure 404 {object} ErrorResponse
// @Router /servings/{id} [get]
func GetServingHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid serving ID", http.StatusBadRequest)
		return
	}

	rec, err := servingRepo.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// GetUsageHandler godoc
// @Summary Total consumption per product
// @Tags servings
// @Produce json
// @Security BearerAuth
// @Param since query string false "From this timestamp (RFC3339)"
// @Param until query string false "Until this timestamp (RFC3339)"
// @Success 200 {array} repo.ProductUsage
// @Failure 400 {string} string "Invalid input"
// @Router /servings/usage [get]
func GetUsageHandler(w http.ResponseWriter, r *http.Request) {
	since, err := timeQuery(r, "since")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	until, err := timeQuery(r, "until")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	usage, err := servingRepo.UsageSummary(r.Context(), since, until)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, usage)
}
