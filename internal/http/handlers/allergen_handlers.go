package handlers

import (
	"net/http"

	"github.com/rogerio-castellano/kitchen-stock/internal/models"
)

// CreateAllergenHandler godoc
// @Summary Create an allergen
// @Tags allergens
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param allergen body AllergenRequest true "Allergen to add"
// @Success 201 {object} models.Allergen
// @Failure 400 {array} ValidationError
// @Failure 409 {object} ErrorResponse
// @Router /allergens [post]
func CreateAllergenHandler(w http.ResponseWriter, r *http.Request) {
	var req AllergenRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	if errs := validateAllergen(req); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, errs)
		return
	}

	a, err := allergenRepo.Create(r.Context(), models.Allergen{Name: req.Name})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// GetAllergensHandler godoc
// @Summary List allergens
// @Tags allergens
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Allergen
// @Router /allergens [get]
func GetAllergensHandler(w http.ResponseWriter, r *http.Request) {
	list, err := allergenRepo.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// TagProductHandler godoc
// @Summary Mark a product as containing an allergen
// @Tags allergens
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param allergenID path int true "Allergen ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /products/{id}/allergens/{allergenID} [put]
func TagProductHandler(w http.ResponseWriter, r *http.Request) {
	productID, allergenID, ok := productAllergenIDs(w, r)
	if !ok {
		return
	}
	if err := allergenRepo.Tag(r.Context(), productID, allergenID, actorID(r)); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UntagProductHandler godoc
// @Summary Remove an allergen from a product
// @Tags allergens
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param allergenID path int true "Allergen ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /products/{id}/allergens/{allergenID} [delete]
func UntagProductHandler(w http.ResponseWriter, r *http.Request) {
	productID, allergenID, ok := productAllergenIDs(w, r)
	if !ok {
		return
	}
	if err := allergenRepo.Untag(r.Context(), productID, allergenID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetProductAllergensHandler godoc
// @Summary Allergens of a product
// @Tags allergens
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 200 {array} models.Allergen
// @Failure 404 {object} ErrorResponse
// @Router /products/{id}/allergens [get]
func GetProductAllergensHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return
	}
	if _, err := productRepo.GetByID(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	byProduct, err := allergenRepo.ForProducts(r.Context(), []int{id})
	if err != nil {
		writeError(w, r, err)
		return
	}
	list := byProduct[id]
	if list == nil {
		list = []models.Allergen{}
	}
	writeJSON(w, http.StatusOK, list)
}

// GetMealAllergensHandler godoc
// @Summary Allergens a meal contains, derived from its ingredients
// @Tags allergens
// @Produce json
// @Security BearerAuth
// @Param id path int true "Meal ID"
// @Success 200 {array} kitchen.MealAllergen
// @Failure 404 {object} ErrorResponse
// @Router /meals/{id}/allergens [get]
func GetMealAllergensHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid meal ID", http.StatusBadRequest)
		return
	}

	list, err := allergenView.ForMeal(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func productAllergenIDs(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	productID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return 0, 0, false
	}
	allergenID, err := pathID(r, "allergenID")
	if err != nil {
		http.Error(w, "invalid allergen ID", http.StatusBadRequest)
		return 0, 0, false
	}
	return productID, allergenID, true
}
