package handlers

import (
	"net/http"

	models "github.com/rogerio-castellano/kitchen-stock/internal/models"
	repo "github.com/rogerio-castellano/kitchen-stock/internal/repo"
)

// CreateProductHandler godoc
// @Summary Create a new product
// @Description Adds a stocked ingredient to the kitchen store
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param product body ProductRequest true "Product to add"
// @Success 201 {object} ProductResponse
// @Failure 400 {array} ValidationError
// @Failure 409 {object} ErrorResponse
// @Router /products [post]
func CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	validationErrors := validateProduct(req)
	if len(validationErrors) > 0 {
		writeJSON(w, http.StatusBadRequest, validationErrors)
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	product := models.Product{
		Name:      req.Name,
		Quantity:  req.Quantity,
		Threshold: req.Threshold,
		Unit:      models.Unit{ID: req.Unit.ID, Name: req.Unit.Name, Abbreviation: req.Unit.Abbreviation},
		Active:    active,
	}
	created, err := productRepo.Create(r.Context(), product)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toProductResponse(created))
}

// GetProductsHandler godoc
// @Summary List products
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param name query string false "Filter by name"
// @Param low_stock query bool false "Only products below threshold"
// @Param offset query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination"
// @Success 200 {object} ProductsSearchResult
// @Failure 400 {string} string "Invalid input"
// @Failure 500 {object} ErrorResponse
// @Router /products [get]
func GetProductsHandler(w http.ResponseWriter, r *http.Request) {
	offset, limit, err := pagination(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	pf := repo.ProductFilter{
		Name:         r.URL.Query().Get("name"),
		LowStockOnly: r.URL.Query().Get("low_stock") == "true",
		Offset:       offset,
		Limit:        limit,
	}
	products, total, err := productRepo.Filter(r.Context(), pf)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response := make([]ProductResponse, len(products))
	for i, p := range products {
		response[i] = toProductResponse(p)
	}
	writeJSON(w, http.StatusOK, ProductsSearchResult{Data: response, Meta: Meta{TotalCount: total}})
}

// GetProductByIDHandler godoc
// @Summary Get product by ID
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 200 {object} ProductResponse
// @Failure 400 {string} string "Invalid ID"
// @Failure 404 {object} ErrorResponse
// @Router /products/{id} [get]
func GetProductByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return
	}

	product, err := productRepo.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(product))
}

// GetLowStockHandler godoc
// @Summary Products below their low-stock threshold
// @Description Only active products with a threshold set are considered
// @Tags products
// @Produce json
// @Security BearerAuth
// @Success 200 {array} LowStockItem
// @Failure 500 {object} ErrorResponse
// @Router /products/low-stock [get]
func GetLowStockHandler(w http.ResponseWriter, r *http.Request) {
	low, err := productRepo.ListBelowThreshold(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	items := make([]LowStockItem, len(low))
	for i, p := range low {
		items[i] = LowStockItem{
			ProductID: p.ID,
			Name:      p.Name,
			Quantity:  p.Quantity,
			Threshold: *p.Threshold,
			Unit:      p.Unit.Name,
		}
	}
	writeJSON(w, http.StatusOK, items)
}
