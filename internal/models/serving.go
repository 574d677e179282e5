package models

import "time"

// ServingRecord is the immutable fact of N portions of a meal being served.
type ServingRecord struct {
	ID           int               `json:"id"`
	MealID       int               `json:"meal_id"`
	PortionCount int               `json:"portion_count"`
	ServedBy     int               `json:"served_by"`
	ServedAt     time.Time         `json:"served_at"`
	Usages       []IngredientUsage `json:"usages"`
}

// IngredientUsage records how much of one product a serving consumed.
type IngredientUsage struct {
	ID           int       `json:"id"`
	ServingID    int       `json:"serving_id"`
	ProductID    int       `json:"product_id"`
	QuantityUsed int       `json:"quantity_used"`
	UsedAt       time.Time `json:"used_at"`
	RecordedBy   int       `json:"recorded_by"`
}
