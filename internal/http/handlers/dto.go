package handlers

import (
	"github.com/rogerio-castellano/kitchen-stock/internal/kitchen"
	"github.com/rogerio-castellano/kitchen-stock/internal/models"
)

type UnitRequest struct {
	ID           int    `json:"id,omitempty"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
}

type ProductRequest struct {
	Name      string      `json:"name"`
	Quantity  int         `json:"quantity"`
	Threshold *int        `json:"threshold,omitempty"`
	Unit      UnitRequest `json:"unit"`
	Active    *bool       `json:"active,omitempty"`
}

type ProductResponse struct {
	Id        int         `json:"id"`
	Name      string      `json:"name"`
	Quantity  int         `json:"quantity"`
	Threshold *int        `json:"threshold,omitempty"`
	Unit      models.Unit `json:"unit"`
	Active    bool        `json:"active"`
	LowStock  bool        `json:"low_stock"`
}

// LowStockItem is one row of the low-stock view.
type LowStockItem struct {
	ProductID int    `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Threshold int    `json:"threshold"`
	Unit      string `json:"unit"`
}

type Meta struct {
	TotalCount int `json:"total_count"`
}

type ProductsSearchResult struct {
	Data []ProductResponse `json:"data"`
	Meta Meta              `json:"meta,omitempty"`
}

type QuantityAdjustmentRequest struct {
	Delta      int    `json:"delta"` // can be positive or negative
	Reason     string `json:"reason"`
	SupplierID *int   `json:"supplier_id,omitempty"` // deliveries only
}

type MovementResponse struct {
	ID         int    `json:"id"`
	ProductID  int    `json:"product_id"`
	Delta      int    `json:"delta"`
	Reason     string `json:"reason"`
	SupplierID *int   `json:"supplier_id,omitempty"`
	ActorID    int    `json:"actor_id"`
	CreatedAt  string `json:"created_at"`
}

type MovementsSearchResult struct {
	Data []MovementResponse `json:"data"`
	Meta Meta               `json:"meta,omitempty"`
}

type MealRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Active   *bool  `json:"active,omitempty"`
}

type MealStatusRequest struct {
	Active bool `json:"active"`
}

type RequirementRequest struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

type RequirementUpdateRequest struct {
	Quantity int `json:"quantity"`
}

type ServeRequest struct {
	Portions int `json:"portions"`
}

type ServingsSearchResult struct {
	Data []models.ServingRecord `json:"data"`
	Meta Meta                   `json:"meta,omitempty"`
}

type AllergenRequest struct {
	Name string `json:"name"`
}

type SupplierRequest struct {
	Name         string `json:"name"`
	ContactEmail string `json:"contact_email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Active       *bool  `json:"active,omitempty"`
}

type SupplierStatusRequest struct {
	Active bool `json:"active"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type InsufficientStockResponse struct {
	Error     string             `json:"error"`
	MealID    int                `json:"meal_id"`
	Shortages []kitchen.Shortage `json:"shortages"`
}

type UserLogin struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResult struct {
	Token string `json:"token"`
}
