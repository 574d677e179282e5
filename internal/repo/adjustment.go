package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rogerio-castellano/kitchen-stock/internal/models"
)

// AdjustmentStore applies a stock correction together with its movement row.
// Either both are kept or neither is.
type AdjustmentStore interface {
	Adjust(ctx context.Context, m models.Movement) (models.Product, error)
}

type InMemoryAdjustmentStore struct {
	products  *InMemoryProductRepository
	movements MovementRepository
}

func NewInMemoryAdjustmentStore(products *InMemoryProductRepository, movements MovementRepository) *InMemoryAdjustmentStore {
	return &InMemoryAdjustmentStore{products: products, movements: movements}
}

// Adjust holds the product commit lock across the check, the movement write
// and the quantity change, so a failed movement leaves stock untouched.
func (s *InMemoryAdjustmentStore) Adjust(ctx context.Context, m models.Movement) (models.Product, error) {
	r := s.products
	r.commitMu.Lock()
	defer r.commitMu.Unlock()

	r.mu.RLock()
	i := r.indexOf(m.ProductID)
	var current models.Product
	if i >= 0 {
		current = r.products[i]
	}
	r.mu.RUnlock()

	if i < 0 {
		return models.Product{}, ErrProductNotFound
	}
	if current.Quantity+m.Delta < 0 {
		return models.Product{}, ErrInvalidQuantityChange
	}

	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	if err := s.movements.Log(ctx, m); err != nil {
		return models.Product{}, fmt.Errorf("failed to log movement: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	i = r.indexOf(m.ProductID)
	r.products[i].Quantity += m.Delta
	r.products[i].UpdatedAt = m.CreatedAt
	return r.products[i], nil
}

type PostgresAdjustmentStore struct {
	db *sql.DB
}

func NewPostgresAdjustmentStore(db *sql.DB) *PostgresAdjustmentStore {
	return &PostgresAdjustmentStore{db: db}
}

func (s *PostgresAdjustmentStore) Adjust(ctx context.Context, m models.Movement) (product models.Product, err error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	var id int
	err = tx.QueryRowContext(ctx, `
		UPDATE products
		SET quantity = quantity + $1, updated_at = $2
		WHERE id = $3 AND quantity + $1 >= 0
		RETURNING id`, m.Delta, m.CreatedAt, m.ProductID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		var exists bool
		if err = tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, m.ProductID).Scan(&exists); err != nil {
			return models.Product{}, err
		}
		if !exists {
			err = ErrProductNotFound
			return models.Product{}, err
		}
		err = ErrInvalidQuantityChange
		return models.Product{}, err
	}
	if err != nil {
		return models.Product{}, classifyTxError(err)
	}

	if err = insertMovement(ctx, tx, m); err != nil {
		return models.Product{}, err
	}

	byID, err := productsByID(ctx, tx, []int{id})
	if err != nil {
		return models.Product{}, err
	}
	if err = tx.Commit(); err != nil {
		return models.Product{}, classifyTxError(err)
	}
	return byID[id], nil
}
