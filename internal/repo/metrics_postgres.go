package repo

import (
	"context"
	"database/sql"
	"errors"
)

type PostgresMetricsRepository struct {
	db *sql.DB
}

func NewPostgresMetricsRepository(db *sql.DB) *PostgresMetricsRepository {
	return &PostgresMetricsRepository{db: db}
}

func (r *PostgresMetricsRepository) GetDashboardMetrics(ctx context.Context) (Metrics, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var m Metrics
	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM products),
			(SELECT COUNT(*) FROM products WHERE is_active AND threshold IS NOT NULL AND quantity < threshold),
			(SELECT COUNT(*) FROM meals WHERE is_active),
			(SELECT COUNT(*) FROM servings),
			(SELECT COALESCE(SUM(portion_count), 0) FROM servings)`).
		Scan(&m.TotalProducts, &m.LowStockCount, &m.ActiveMeals, &m.TotalServings, &m.PortionsServed)
	if err != nil {
		return m, err
	}

	err = r.db.QueryRowContext(ctx, `
		SELECT m.name, SUM(s.portion_count) AS portions
		FROM servings s
		JOIN meals m ON s.meal_id = m.id
		GROUP BY m.name
		ORDER BY portions DESC
		LIMIT 1
	`).Scan(&m.MostServedMeal.Name, &m.MostServedMeal.Portions)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return m, err
	}

	return m, nil
}
