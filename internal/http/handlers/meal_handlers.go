package handlers

import (
	"net/http"

	models "github.com/rogerio-castellano/kitchen-stock/internal/models"
)

// CreateMealHandler godoc
// @Summary Create a meal
// @Tags meals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param meal body MealRequest true "Meal to add"
// @Success 201 {object} models.Meal
// @Failure 400 {array} ValidationError
// @Failure 409 {object} ErrorResponse
// @Router /meals [post]
func CreateMealHandler(w http.ResponseWriter, r *http.Request) {
	var req MealRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	if errs := validateMeal(req); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, errs)
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	meal, err := recipes.CreateMeal(r.Context(), models.Meal{Name: req.Name, Category: req.Category, Active: active})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, meal)
}

// GetMealsHandler godoc
// @Summary List meals
// @Tags meals
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Meal
// @Router /meals [get]
func GetMealsHandler(w http.ResponseWriter, r *http.Request) {
	meals, err := recipes.ListMeals(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if meals == nil {
		meals = []models.Meal{}
	}
	writeJSON(w, http.StatusOK, meals)
}

// SetMealStatusHandler godoc
// @Summary Activate or deactivate a meal
// @Tags meals
// @Accept json
// @Security BearerAuth
// @Param id path int true "Meal ID"
// @Param status body MealStatusRequest true "New status"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /meals/{id}/status [put]
func SetMealStatusHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid meal ID", http.StatusBadRequest)
		return
	}
	var req MealStatusRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	if err := recipes.SetMealActive(r.Context(), id, req.Active); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetEstimateHandler godoc
// @Summary How many portions the current stock allows
// @Tags meals
// @Produce json
// @Security BearerAuth
// @Param id path int true "Meal ID"
// @Success 200 {object} kitchen.Estimate
// @Failure 404 {object} ErrorResponse
// @Router /meals/{id}/estimate [get]
func GetEstimateHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid meal ID", http.StatusBadRequest)
		return
	}

	est, err := estimator.Estimate(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, est)
}

// GetRequirementsHandler godoc
// @Summary Ingredient requirements of a meal, per portion
// @Tags recipes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Meal ID"
// @Success 200 {array} models.IngredientRequirement
// @Failure 404 {object} ErrorResponse
// @Router /meals/{id}/ingredients [get]
func GetRequirementsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid meal ID", http.StatusBadRequest)
		return
	}

	reqs, err := recipes.RequirementsFor(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reqs)
}

// AddRequirementHandler godoc
// @Summary Add an ingredient to a meal's recipe
// @Tags recipes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Meal ID"
// @Param requirement body RequirementRequest true "Per-portion requirement"
// @Success 201 {object} models.IngredientRequirement
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /meals/{id}/ingredients [post]
func AddRequirementHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid meal ID", http.StatusBadRequest)
		return
	}
	var req RequirementRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	created, err := recipes.AddRequirement(r.Context(), models.IngredientRequirement{
		MealID:    id,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateRequirementHandler godoc
// @Summary Change the per-portion quantity of an ingredient
// @Tags recipes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Meal ID"
// @Param productID path int true "Product ID"
// @Param requirement body RequirementUpdateRequest true "New quantity"
// @Success 200 {object} models.IngredientRequirement
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /meals/{id}/ingredients/{productID} [put]
func UpdateRequirementHandler(w http.ResponseWriter, r *http.Request) {
	mealID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid meal ID", http.StatusBadRequest)
		return
	}
	productID, err := pathID(r, "productID")
	if err != nil {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return
	}
	var req RequirementUpdateRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	updated, err := recipes.UpdateRequirement(r.Context(), mealID, productID, req.Quantity)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// RemoveRequirementHandler godoc
// @Summary Remove an ingredient from a meal's recipe
// @Tags recipes
// @Security BearerAuth
// @Param id path int true "Meal ID"
// @Param productID path int true "Product ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /meals/{id}/ingredients/{productID} [delete]
func RemoveRequirementHandler(w http.ResponseWriter, r *http.Request) {
	mealID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid meal ID", http.StatusBadRequest)
		return
	}
	productID, err := pathID(r, "productID")
	if err != nil {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return
	}

	if err := recipes.RemoveRequirement(r.Context(), mealID, productID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
