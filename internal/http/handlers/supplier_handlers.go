package handlers

import (
	"net/http"

	"github.com/rogerio-castellano/kitchen-stock/internal/models"
)

// CreateSupplierHandler godoc
// @Summary Register a supplier
// @Tags suppliers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param supplier body SupplierRequest true "Supplier to add"
// @Success 201 {object} models.Supplier
// @Failure 400 {array} ValidationError
// @Failure 409 {object} ErrorResponse
// @Router /suppliers [post]
func CreateSupplierHandler(w http.ResponseWriter, r *http.Request) {
	var req SupplierRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	if errs := validateSupplier(req); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, errs)
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	s, err := supplierRepo.Create(r.Context(), models.Supplier{
		Name:         req.Name,
		ContactEmail: req.ContactEmail,
		Phone:        req.Phone,
		Active:       active,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, s)
}

// GetSuppliersHandler godoc
// @Summary List suppliers
// @Tags suppliers
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Supplier
// @Router /suppliers [get]
func GetSuppliersHandler(w http.ResponseWriter, r *http.Request) {
	list, err := supplierRepo.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// SetSupplierStatusHandler godoc
// @Summary Activate or deactivate a supplier
// @Tags suppliers
// @Accept json
// @Security BearerAuth
// @Param id path int true "Supplier ID"
// @Param status body SupplierStatusRequest true "New status"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /suppliers/{id}/status [put]
func SetSupplierStatusHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid supplier ID", http.StatusBadRequest)
		return
	}
	var req SupplierStatusRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	if err := supplierRepo.SetActive(r.Context(), id, req.Active); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
