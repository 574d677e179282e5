package repo

import "context"

type MostServedMeal struct {
	Name     string `json:"name"`
	Portions int    `json:"portions"`
}

type Metrics struct {
	TotalProducts  int            `json:"total_products"`
	LowStockCount  int            `json:"low_stock_count"`
	ActiveMeals    int            `json:"active_meals"`
	TotalServings  int            `json:"total_servings"`
	PortionsServed int            `json:"portions_served"`
	MostServedMeal MostServedMeal `json:"most_served_meal"`
}

type MetricsRepository interface {
	GetDashboardMetrics(ctx context.Context) (Metrics, error)
}
