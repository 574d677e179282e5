package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rogerio-castellano/kitchen-stock/internal/models"
)

const defaultLimit = 100

type PostgresServingRepository struct {
	db *sql.DB
}

func NewPostgresServingRepository(db *sql.DB) *PostgresServingRepository {
	return &PostgresServingRepository{db: db}
}

// buildWhereClause constructs the WHERE clause and returns arguments
func (r *PostgresServingRepository) buildWhereClause(sf ServingFilter) (string, []any) {
	whereClause := "WHERE 1=1"
	args := []any{}
	argIndex := 1

	if sf.MealID != nil {
		whereClause += fmt.Sprintf(" AND meal_id = $%d", argIndex)
		args = append(args, *sf.MealID)
		argIndex++
	}
	if sf.Since != nil {
		whereClause += fmt.Sprintf(" AND served_at >= $%d", argIndex)
		args = append(args, *sf.Since)
		argIndex++
	}
	if sf.Until != nil {
		whereClause += fmt.Sprintf(" AND served_at <= $%d", argIndex)
		args = append(args, *sf.Until)
	}
	return whereClause, args
}

// List returns servings newest first
func (r *PostgresServingRepository) List(ctx context.Context, sf ServingFilter) ([]models.ServingRecord, int, error) {
	if sf.Offset != nil && *sf.Offset < 0 {
		return nil, 0, fmt.Errorf("offset must be non-negative")
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	whereClause, args := r.buildWhereClause(sf)

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM servings "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to get total count: %w", err)
	}
	if sf.Offset != nil && *sf.Offset >= total {
		return []models.ServingRecord{}, total, nil
	}

	query := fmt.Sprintf("SELECT id, meal_id, portion_count, served_by, served_at FROM servings %s ORDER BY served_at DESC, id DESC", whereClause)
	limit := defaultLimit
	if sf.Limit != nil && *sf.Limit > 0 {
		limit = min(*sf.Limit, defaultLimit)
	}
	query += fmt.Sprintf(" LIMIT $%d", len(args)+1)
	args = append(args, limit)
	if sf.Offset != nil && *sf.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", len(args)+1)
		args = append(args, *sf.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	var servings []models.ServingRecord
	for rows.Next() {
		var s models.ServingRecord
		if err := rows.Scan(&s.ID, &s.MealID, &s.PortionCount, &s.ServedBy, &s.ServedAt); err != nil {
			return nil, 0, err
		}
		servings = append(servings, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return servings, total, nil
}

func (r *PostgresServingRepository) GetByID(ctx context.Context, id int) (models.ServingRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var s models.ServingRecord
	err := r.db.QueryRowContext(ctx, `SELECT id, meal_id, portion_count, served_by, served_at FROM servings WHERE id = $1`, id).
		Scan(&s.ID, &s.MealID, &s.PortionCount, &s.ServedBy, &s.ServedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ServingRecord{}, ErrServingNotFound
	}
	if err != nil {
		return models.ServingRecord{}, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, serving_id, product_id, quantity_used, used_at, recorded_by
		FROM ingredient_usages WHERE serving_id = $1 ORDER BY id`, id)
	if err != nil {
		return models.ServingRecord{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var u models.IngredientUsage
		if err := rows.Scan(&u.ID, &u.ServingID, &u.ProductID, &u.QuantityUsed, &u.UsedAt, &u.RecordedBy); err != nil {
			return models.ServingRecord{}, err
		}
		s.Usages = append(s.Usages, u)
	}
	return s, rows.Err()
}

func (r *PostgresServingRepository) UsageSummary(ctx context.Context, since, until *time.Time) ([]ProductUsage, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT product_id, SUM(quantity_used)
		FROM ingredient_usages
		WHERE ($1::timestamptz IS NULL OR used_at >= $1)
		  AND ($2::timestamptz IS NULL OR used_at <= $2)
		GROUP BY product_id
		ORDER BY product_id`, since, until)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	usage := []ProductUsage{}
	for rows.Next() {
		var u ProductUsage
		if err := rows.Scan(&u.ProductID, &u.TotalUsed); err != nil {
			return nil, err
		}
		usage = append(usage, u)
	}
	return usage, rows.Err()
}
