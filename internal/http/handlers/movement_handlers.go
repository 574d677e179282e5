package handlers

import (
	"net/http"
	"time"

	"github.com/rogerio-castellano/kitchen-stock/internal/models"
	repo "github.com/rogerio-castellano/kitchen-stock/internal/repo"
)

// AdjustQuantityHandler godoc
// @Summary Adjust quantity of a product
// @Description Administrative correction such as a delivery or write-off. Stock never goes below zero.
// @Description A supplier_id marks the adjustment as a delivery from that supplier.
// @Tags movements
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param adjustment body QuantityAdjustmentRequest true "Quantity change"
// @Success 200 {object} ProductResponse
// @Failure 400 {string} string "Invalid adjustment"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /products/{id}/adjust [post]
// @Security BearerAuth
func AdjustQuantityHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return
	}

	var req QuantityAdjustmentRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	if req.Delta == 0 {
		http.Error(w, "delta must not be zero", http.StatusBadRequest)
		return
	}

	product, err := adjuster.Adjust(r.Context(), models.Movement{
		ProductID:  id,
		Delta:      req.Delta,
		Reason:     req.Reason,
		SupplierID: req.SupplierID,
		ActorID:    actorID(r),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toProductResponse(product))
}

// GetMovementsHandler godoc
// @Summary Get product movement logs
// @Tags movements
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param since query string false "Filter movements from this timestamp (RFC3339)"
// @Param until query string false "Filter movements until this timestamp (RFC3339)"
// @Param offset query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination"
// @Success 200 {object} MovementsSearchResult
// @Failure 400 {string} string "Invalid input"
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /products/{id}/movements [get]
func GetMovementsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return
	}

	if _, err := productRepo.GetByID(r.Context(), id); err != nil {
		writeError(w, r, err)
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

	mf := repo.MovementFilter{Since: since, Until: until, Offset: offset, Limit: limit}
	movements, total, err := movementRepo.GetByProductID(r.Context(), id, mf)
	if err != nil {
		writeError(w, r, err)
		return
	}

	data := make([]MovementResponse, len(movements))
	for i, m := range movements {
		data[i] = MovementResponse{
			ID:         m.ID,
			ProductID:  m.ProductID,
			Delta:      m.Delta,
			Reason:     m.Reason,
			SupplierID: m.SupplierID,
			ActorID:    m.ActorID,
			CreatedAt:  m.CreatedAt.Format(time.RFC3339),
		}
	}
	writeJSON(w, http.StatusOK, MovementsSearchResult{Data: data, Meta: Meta{TotalCount: total}})
}
