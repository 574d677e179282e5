package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rogerio-castellano/kitchen-stock/internal/models"
)

type PostgresAllergenRepository struct {
	db *sql.DB
}

func NewPostgresAllergenRepository(db *sql.DB) *PostgresAllergenRepository {
	return &PostgresAllergenRepository{db: db}
}

func (r *PostgresAllergenRepository) Create(ctx context.Context, a models.Allergen) (models.Allergen, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	err := r.db.QueryRowContext(ctx, `INSERT INTO allergens (name) VALUES ($1) RETURNING id, created_at`, a.Name).
		Scan(&a.ID, &a.CreatedAt)
	if pgCode(err) == pgUniqueViolation {
		return models.Allergen{}, ErrDuplicatedValueUnique
	}
	return a, err
}

func (r *PostgresAllergenRepository) List(ctx context.Context) ([]models.Allergen, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT id, name, created_at FROM allergens ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	allergens := []models.Allergen{}
	for rows.Next() {
		var a models.Allergen
		if err := rows.Scan(&a.ID, &a.Name, &a.CreatedAt); err != nil {
			return nil, err
		}
		allergens = append(allergens, a)
	}
	return allergens, rows.Err()
}

func (r *PostgresAllergenRepository) Tag(ctx context.Context, productID, allergenID, actorID int) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO product_allergens (product_id, allergen_id, created_by)
		VALUES ($1, $2, $3)
		ON CONFLICT (product_id, allergen_id) DO NOTHING`, productID, allergenID, actorID)
	if pgCode(err) == pgForeignKeyViolation {
		return r.missingSide(ctx, productID)
	}
	if err != nil {
		return fmt.Errorf("failed to tag product: %w", err)
	}
	return nil
}

// missingSide tells which end of a rejected tag does not exist.
func (r *PostgresAllergenRepository) missingSide(ctx context.Context, productID int) error {
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, productID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrProductNotFound
	}
	return ErrAllergenNotFound
}

func (r *PostgresAllergenRepository) Untag(ctx context.Context, productID, allergenID int) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM product_allergens WHERE product_id = $1 AND allergen_id = $2`, productID, allergenID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAllergenNotFound
	}
	return nil
}

func (r *PostgresAllergenRepository) ForProducts(ctx context.Context, productIDs []int) (map[int][]models.Allergen, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT pa.product_id, a.id, a.name, a.created_at
		FROM product_allergens pa
		JOIN allergens a ON a.id = pa.allergen_id
		WHERE pa.product_id = ANY($1)
		ORDER BY pa.product_id, a.name`, int64s(productIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[int][]models.Allergen{}
	for rows.Next() {
		var productID int
		var a models.Allergen
		if err := rows.Scan(&productID, &a.ID, &a.Name, &a.CreatedAt); err != nil {
			return nil, err
		}
		out[productID] = append(out[productID], a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
