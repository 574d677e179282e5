package models

import "time"

// Unit is the measure a product's quantity is counted in (gram, liter, piece).
type Unit struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
}

// Product represents a stocked ingredient in the kitchen store.
type Product struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	Threshold *int      `json:"threshold,omitempty"`
	Unit      Unit      `json:"unit"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LowStock reports whether the product is active, has a threshold and sits below it.
func (p Product) LowStock() bool {
	return p.Active && p.Threshold != nil && p.Quantity < *p.Threshold
}
