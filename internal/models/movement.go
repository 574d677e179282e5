package models

import "time"

// Movement is an administrative stock correction (delivery, write-off, recount).
// Deliveries may name the supplier they came from.
type Movement struct {
	ID         int       `json:"id"`
	ProductID  int       `json:"product_id"`
	Delta      int       `json:"delta"`
	Reason     string    `json:"reason"`
	SupplierID *int      `json:"supplier_id,omitempty"`
	ActorID    int       `json:"actor_id"`
	CreatedAt  time.Time `json:"created_at"`
}
