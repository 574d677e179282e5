package repo

import "context"

type InMemoryMetricsRepository struct {
	productRepo ProductRepository
	recipes     RecipeCatalog
	servings    ServingRepository
}

// GetDashboardMetrics implements MetricsRepository.
func (i *InMemoryMetricsRepository) GetDashboardMetrics(ctx context.Context) (Metrics, error) {
	m := Metrics{}

	products, err := i.productRepo.GetAll(ctx)
	if err != nil {
		return m, err
	}
	m.TotalProducts = len(products)
	for _, p := range products {
		if p.LowStock() {
			m.LowStockCount++
		}
	}

	meals, err := i.recipes.ListMeals(ctx)
	if err != nil {
		return m, err
	}
	names := make(map[int]string, len(meals))
	for _, meal := range meals {
		names[meal.ID] = meal.Name
		if meal.Active {
			m.ActiveMeals++
		}
	}

	servings, total, err := i.servings.List(ctx, ServingFilter{})
	if err != nil {
		return m, err
	}
	m.TotalServings = total

	portions := map[int]int{}
	for _, s := range servings {
		m.PortionsServed += s.PortionCount
		portions[s.MealID] += s.PortionCount
	}
	for mealID, count := range portions {
		if count > m.MostServedMeal.Portions {
			m.MostServedMeal.Name = names[mealID]
			m.MostServedMeal.Portions = count
		}
	}

	return m, nil
}

func NewInMemoryMetricsRepository() *InMemoryMetricsRepository {
	return &InMemoryMetricsRepository{}
}

func (i *InMemoryMetricsRepository) SetRepositories(
	productRepo ProductRepository,
	recipes RecipeCatalog,
	servings ServingRepository,
) {
	i.productRepo = productRepo
	i.recipes = recipes
	i.servings = servings
}
