package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rogerio-castellano/kitchen-stock/internal/models"
)

const productSelect = `
	SELECT p.id, p.name, p.quantity, p.threshold, p.is_active, p.created_at, p.updated_at,
	       u.id, u.name, u.abbreviation
	FROM products p
	JOIN units u ON u.id = p.unit_id`

type PostgresProductRepository struct {
	db *sql.DB
}

func NewPostgresProductRepository(db *sql.DB) *PostgresProductRepository {
	return &PostgresProductRepository{db: db}
}

func scanProduct(row rowScanner) (models.Product, error) {
	var p models.Product
	var threshold sql.NullInt64
	err := row.Scan(&p.ID, &p.Name, &p.Quantity, &threshold, &p.Active, &p.CreatedAt, &p.UpdatedAt,
		&p.Unit.ID, &p.Unit.Name, &p.Unit.Abbreviation)
	if err != nil {
		return models.Product{}, err
	}
	if threshold.Valid {
		t := int(threshold.Int64)
		p.Threshold = &t
	}
	return p, nil
}

func scanProducts(rows *sql.Rows) ([]models.Product, error) {
	defer rows.Close()
	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *PostgresProductRepository) Create(ctx context.Context, p models.Product) (models.Product, error) {
	if p.Quantity < 0 {
		return models.Product{}, ErrInvalidQuantityChange
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if p.Unit.ID == 0 {
		err := r.db.QueryRowContext(ctx, `
			INSERT INTO units (name, abbreviation) VALUES ($1, $2)
			ON CONFLICT (name) DO UPDATE SET abbreviation = EXCLUDED.abbreviation
			RETURNING id`, p.Unit.Name, p.Unit.Abbreviation).Scan(&p.Unit.ID)
		if err != nil {
			return models.Product{}, fmt.Errorf("failed to upsert unit: %w", err)
		}
	}

	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	query := `INSERT INTO products (name, quantity, threshold, unit_id, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, p.Name, p.Quantity, p.Threshold, p.Unit.ID, p.Active, p.CreatedAt, p.UpdatedAt).Scan(&p.ID)
	if pgCode(err) == pgUniqueViolation {
		return models.Product{}, ErrDuplicatedValueUnique
	}
	return p, err
}

func (r *PostgresProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, productSelect+` ORDER BY p.id`)
	if err != nil {
		return nil, err
	}
	return scanProducts(rows)
}

func (r *PostgresProductRepository) Filter(ctx context.Context, pf ProductFilter) ([]models.Product, int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	where := " WHERE 1=1"
	args := []any{}
	argIdx := 1
	if pf.Name != "" {
		where += fmt.Sprintf(" AND p.name ILIKE $%d", argIdx)
		args = append(args, "%"+pf.Name+"%")
		argIdx++
	}
	if pf.LowStockOnly {
		where += " AND p.is_active AND p.threshold IS NOT NULL AND p.quantity < p.threshold"
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM products p" + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := productSelect + where + " ORDER BY p.id"
	if pf.Limit != nil && *pf.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, *pf.Limit)
		argIdx++
	}
	if pf.Offset != nil && *pf.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIdx)
		args = append(args, *pf.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	products, err := scanProducts(rows)
	return products, total, err
}

func (r *PostgresProductRepository) GetByID(ctx context.Context, id int) (models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	p, err := scanProduct(r.db.QueryRowContext(ctx, productSelect+` WHERE p.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	return p, err
}

func (r *PostgresProductRepository) Get(ctx context.Context, productID int) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var qty int
	err := r.db.QueryRowContext(ctx, `SELECT quantity FROM products WHERE id = $1`, productID).Scan(&qty)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrProductNotFound
	}
	return qty, err
}

func (r *PostgresProductRepository) Products(ctx context.Context, ids []int) (map[int]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	return productsByID(ctx, r.db, ids)
}

func (r *PostgresProductRepository) ListBelowThreshold(ctx context.Context) ([]models.Product, error) {
	low, _, err := r.Filter(ctx, ProductFilter{LowStockOnly: true})
	return low, err
}

func (r *PostgresProductRepository) Decrement(ctx context.Context, productID, amount int) error {
	return r.Apply(ctx, []StockChange{{ProductID: productID, Amount: amount}})
}

func (r *PostgresProductRepository) Apply(ctx context.Context, batch []StockChange) error {
	ids := make([]int, len(batch))
	for i, c := range batch {
		ids[i] = c.ProductID
	}
	return NewPostgresTransactor(r.db).InTx(ctx, ids, func(tx LedgerTx) error {
		return tx.Apply(ctx, batch)
	})
}

func productsByID(ctx context.Context, q querier, ids []int) (map[int]models.Product, error) {
	rows, err := q.QueryContext(ctx, productSelect+` WHERE p.id = ANY($1)`, int64s(ids))
	if err != nil {
		return nil, err
	}
	products, err := scanProducts(rows)
	if err != nil {
		return nil, err
	}

	out := make(map[int]models.Product, len(products))
	for _, p := range products {
		out[p.ID] = p
	}
	for _, id := range ids {
		if _, ok := out[id]; !ok {
			return nil, fmt.Errorf("product %d: %w", id, ErrProductNotFound)
		}
	}
	return out, nil
}

// PostgresTransactor runs serving commits in a database transaction holding
// row locks on every affected product.
type PostgresTransactor struct {
	db *sql.DB
}

func NewPostgresTransactor(db *sql.DB) *PostgresTransactor {
	return &PostgresTransactor{db: db}
}

func (t *PostgresTransactor) InTx(ctx context.Context, productIDs []int, fn func(tx LedgerTx) error) (err error) {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = lockProducts(ctx, tx, productIDs); err != nil {
		return classifyTxError(err)
	}
	if err = fn(&postgresLedgerTx{tx: tx}); err != nil {
		return classifyTxError(err)
	}
	if err = tx.Commit(); err != nil {
		return classifyTxError(err)
	}
	return nil
}

// lockProducts takes row locks in id order so overlapping commits cannot deadlock.
func lockProducts(ctx context.Context, tx *sql.Tx, ids []int) error {
	uniq := make([]int, 0, len(ids))
	seen := make(map[int]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			uniq = append(uniq, id)
		}
	}
	sort.Ints(uniq)

	rows, err := tx.QueryContext(ctx, `SELECT id FROM products WHERE id = ANY($1) ORDER BY id FOR UPDATE`, int64s(uniq))
	if err != nil {
		return err
	}
	defer rows.Close()

	locked := 0
	for rows.Next() {
		locked++
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if locked != len(uniq) {
		return ErrProductNotFound
	}
	return nil
}

type postgresLedgerTx struct {
	tx *sql.Tx
}

func (t *postgresLedgerTx) Products(ctx context.Context, ids []int) (map[int]models.Product, error) {
	return productsByID(ctx, t.tx, ids)
}

func (t *postgresLedgerTx) Apply(ctx context.Context, batch []StockChange) error {
	agg, err := aggregate(batch)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for _, c := range agg {
		var remaining int
		err := t.tx.QueryRowContext(ctx, `
			UPDATE products SET quantity = quantity - $1, updated_at = $2
			WHERE id = $3 AND quantity >= $1
			RETURNING quantity`, c.Amount, now, c.ProductID).Scan(&remaining)
		if errors.Is(err, sql.ErrNoRows) {
			var available int
			err := t.tx.QueryRowContext(ctx, `SELECT quantity FROM products WHERE id = $1`, c.ProductID).Scan(&available)
			if errors.Is(err, sql.ErrNoRows) {
				return ErrProductNotFound
			}
			if err != nil {
				return err
			}
			return &StockShortageError{ProductID: c.ProductID, Required: c.Amount, Available: available}
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (t *postgresLedgerTx) RecordServing(ctx context.Context, rec models.ServingRecord) (models.ServingRecord, error) {
	err := t.tx.QueryRowContext(ctx, `
		INSERT INTO servings (meal_id, portion_count, served_by, served_at)
		VALUES ($1, $2, $3, $4) RETURNING id`,
		rec.MealID, rec.PortionCount, rec.ServedBy, rec.ServedAt).Scan(&rec.ID)
	if err != nil {
		return models.ServingRecord{}, fmt.Errorf("failed to insert serving: %w", err)
	}

	for i := range rec.Usages {
		u := &rec.Usages[i]
		u.ServingID = rec.ID
		err := t.tx.QueryRowContext(ctx, `
			INSERT INTO ingredient_usages (serving_id, product_id, quantity_used, used_at, recorded_by)
			VALUES ($1, $2, $3, $4, $5) RETURNING id`,
			u.ServingID, u.ProductID, u.QuantityUsed, u.UsedAt, u.RecordedBy).Scan(&u.ID)
		if err != nil {
			return models.ServingRecord{}, fmt.Errorf("failed to insert ingredient usage: %w", err)
		}
	}
	return rec, nil
}

// Recipe share-locks the meal and its requirement rows, so deactivation and
// quantity edits wait for this commit.
func (t *postgresLedgerTx) Recipe(ctx context.Context, mealID int) (models.Meal, []models.IngredientRequirement, error) {
	var m models.Meal
	err := t.tx.QueryRowContext(ctx, `
		SELECT id, name, category, is_active, created_at FROM meals
		WHERE id = $1 FOR SHARE`, mealID).
		Scan(&m.ID, &m.Name, &m.Category, &m.Active, &m.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Meal{}, nil, ErrMealNotFound
	}
	if err != nil {
		return models.Meal{}, nil, err
	}

	rows, err := t.tx.QueryContext(ctx, `
		SELECT meal_id, product_id, quantity, position
		FROM meal_ingredients WHERE meal_id = $1
		ORDER BY position, product_id FOR SHARE`, mealID)
	if err != nil {
		return models.Meal{}, nil, err
	}
	reqs, err := scanRequirements(rows)
	if err != nil {
		return models.Meal{}, nil, err
	}
	return m, reqs, nil
}
