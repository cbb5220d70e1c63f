package stock

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrIngredientNotFound = errors.New("ingredient not found")
	ErrProductNotFound    = errors.New("product not found")
)

// Repository is the authoritative stock ledger. All mutations are relative
// deltas applied by the store (stock = stock + delta), never read-then-write
// from application code, so concurrent settlements compose without locking.
// Deltas are unconditional: stock may go negative, which is the documented
// trade-off of validating against a snapshot instead of reserving stock.
type Repository interface {
	AddIngredientStock(ctx context.Context, id uuid.UUID, delta float64) error
	AddProductStock(ctx context.Context, id uuid.UUID, delta float64) error
	AddSoldCount(ctx context.Context, id uuid.UUID, delta int64) error
	// IngredientIDByName resolves a packaging ingredient by its exact name.
	// Returns ErrIngredientNotFound when no such ingredient exists.
	IngredientIDByName(ctx context.Context, name string) (uuid.UUID, error)
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) AddIngredientStock(ctx context.Context, id uuid.UUID, delta float64) error {
	query := `
		UPDATE ingredients
		SET stock = stock + $2, updated_at = now()
		WHERE id = $1
	`

	cmdTag, err := r.db.Exec(ctx, query, id, delta)
	if err != nil {
		return fmt.Errorf("repository: failed to update ingredient stock %s: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrIngredientNotFound
	}

	return nil
}

func (r *postgresRepository) AddProductStock(ctx context.Context, id uuid.UUID, delta float64) error {
	query := `
		UPDATE products
		SET stock = stock + $2, updated_at = now()
		WHERE id = $1
	`

	cmdTag, err := r.db.Exec(ctx, query, id, delta)
	if err != nil {
		return fmt.Errorf("repository: failed to update product stock %s: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrProductNotFound
	}

	return nil
}

func (r *postgresRepository) AddSoldCount(ctx context.Context, id uuid.UUID, delta int64) error {
	query := `
		UPDATE products
		SET sold_count = sold_count + $2, updated_at = now()
		WHERE id = $1
	`

	cmdTag, err := r.db.Exec(ctx, query, id, delta)
	if err != nil {
		return fmt.Errorf("repository: failed to update product sold count %s: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrProductNotFound
	}

	return nil
}

func (r *postgresRepository) IngredientIDByName(ctx context.Context, name string) (uuid.UUID, error) {
	query := `
		SELECT id
		FROM ingredients
		WHERE lower(name) = lower($1)
	`

	var id uuid.UUID
	err := r.db.QueryRow(ctx, query, name).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, ErrIngredientNotFound
		}
		return uuid.Nil, fmt.Errorf("repository: failed to select ingredient by name %q: %w", name, err)
	}

	return id, nil
}
