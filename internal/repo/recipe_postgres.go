package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rogerio-castellano/kitchen-stock/internal/models"
)

type PostgresRecipeCatalog struct {
	db *sql.DB
}

func NewPostgresRecipeCatalog(db *sql.DB) *PostgresRecipeCatalog {
	return &PostgresRecipeCatalog{db: db}
}

func (c *PostgresRecipeCatalog) CreateMeal(ctx context.Context, meal models.Meal) (models.Meal, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	err := c.db.QueryRowContext(ctx, `
		INSERT INTO meals (name, category, is_active) VALUES ($1, $2, $3)
		RETURNING id, created_at`, meal.Name, meal.Category, meal.Active).Scan(&meal.ID, &meal.CreatedAt)
	if pgCode(err) == pgUniqueViolation {
		return models.Meal{}, ErrDuplicatedValueUnique
	}
	return meal, err
}

func (c *PostgresRecipeCatalog) GetMeal(ctx context.Context, id int) (models.Meal, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var m models.Meal
	err := c.db.QueryRowContext(ctx, `SELECT id, name, category, is_active, created_at FROM meals WHERE id = $1`, id).
		Scan(&m.ID, &m.Name, &m.Category, &m.Active, &m.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Meal{}, ErrMealNotFound
	}
	return m, err
}

func (c *PostgresRecipeCatalog) ListMeals(ctx context.Context) ([]models.Meal, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := c.db.QueryContext(ctx, `SELECT id, name, category, is_active, created_at FROM meals ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var meals []models.Meal
	for rows.Next() {
		var m models.Meal
		if err := rows.Scan(&m.ID, &m.Name, &m.Category, &m.Active, &m.CreatedAt); err != nil {
			return nil, err
		}
		meals = append(meals, m)
	}
	return meals, rows.Err()
}

func (c *PostgresRecipeCatalog) SetMealActive(ctx context.Context, mealID int, active bool) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := c.db.ExecContext(ctx, `UPDATE meals SET is_active = $1 WHERE id = $2`, active, mealID)
	if err != nil {
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrMealNotFound
	}
	return nil
}

func (c *PostgresRecipeCatalog) RequirementsFor(ctx context.Context, mealID int) ([]models.IngredientRequirement, error) {
	if _, err := c.GetMeal(ctx, mealID); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := c.db.QueryContext(ctx, `
		SELECT meal_id, product_id, quantity, position
		FROM meal_ingredients WHERE meal_id = $1
		ORDER BY position, product_id`, mealID)
	if err != nil {
		return nil, err
	}
	return scanRequirements(rows)
}

func scanRequirements(rows *sql.Rows) ([]models.IngredientRequirement, error) {
	defer rows.Close()

	reqs := []models.IngredientRequirement{}
	for rows.Next() {
		var r models.IngredientRequirement
		if err := rows.Scan(&r.MealID, &r.ProductID, &r.Quantity, &r.Position); err != nil {
			return nil, err
		}
		reqs = append(reqs, r)
	}
	return reqs, rows.Err()
}

func (c *PostgresRecipeCatalog) AddRequirement(ctx context.Context, req models.IngredientRequirement) (models.IngredientRequirement, error) {
	if req.Quantity <= 0 {
		return models.IngredientRequirement{}, ErrInvalidQuantity
	}
	if _, err := c.GetMeal(ctx, req.MealID); err != nil {
		return models.IngredientRequirement{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	err := c.db.QueryRowContext(ctx, `
		INSERT INTO meal_ingredients (meal_id, product_id, quantity, position)
		VALUES ($1, $2, $3, (SELECT COALESCE(MAX(position), 0) + 1 FROM meal_ingredients WHERE meal_id = $1))
		RETURNING position`, req.MealID, req.ProductID, req.Quantity).Scan(&req.Position)
	switch pgCode(err) {
	case pgUniqueViolation:
		return models.IngredientRequirement{}, ErrDuplicateRequirement
	case pgForeignKeyViolation:
		return models.IngredientRequirement{}, ErrProductNotFound
	case pgCheckViolation:
		return models.IngredientRequirement{}, ErrInvalidQuantity
	}
	return req, err
}

func (c *PostgresRecipeCatalog) UpdateRequirement(ctx context.Context, mealID, productID, quantity int) (models.IngredientRequirement, error) {
	if quantity <= 0 {
		return models.IngredientRequirement{}, ErrInvalidQuantity
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	req := models.IngredientRequirement{MealID: mealID, ProductID: productID, Quantity: quantity}
	err := c.db.QueryRowContext(ctx, `
		UPDATE meal_ingredients SET quantity = $1
		WHERE meal_id = $2 AND product_id = $3
		RETURNING position`, quantity, mealID, productID).Scan(&req.Position)
	if errors.Is(err, sql.ErrNoRows) {
		return models.IngredientRequirement{}, ErrRequirementNotFound
	}
	return req, err
}

func (c *PostgresRecipeCatalog) RemoveRequirement(ctx context.Context, mealID, productID int) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := c.db.ExecContext(ctx, `DELETE FROM meal_ingredients WHERE meal_id = $1 AND product_id = $2`, mealID, productID)
	if err != nil {
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrRequirementNotFound
	}
	return nil
}
