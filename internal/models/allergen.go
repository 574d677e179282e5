package models

import "time"

// Allergen is a named allergen products can be tagged with (nuts, gluten, lactose).
type Allergen struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
