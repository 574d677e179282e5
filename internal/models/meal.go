package models

import "time"

type Meal struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// IngredientRequirement is the per-portion quantity of one product in a meal's recipe.
type IngredientRequirement struct {
	MealID    int `json:"meal_id"`
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
	Position  int `json:"position"`
}
