package catalog

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	// ProductsByIDs loads the products with the given ids together with their
	// recipes, recipe items and current ingredient stock, as one snapshot.
	// Missing ids are simply absent from the result, not an error.
	ProductsByIDs(ctx context.Context, ids []uuid.UUID) (Snapshot, error)
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) ProductsByIDs(ctx context.Context, ids []uuid.UUID) (Snapshot, error) {
	snapshot := make(Snapshot)
	if len(ids) == 0 {
		return snapshot, nil
	}

	productsQuery := `
		SELECT id, name, category, price, stock, sold_count, created_at, updated_at
		FROM products
		WHERE id = ANY($1)
	`

	productRows, err := r.db.Query(ctx, productsQuery, ids)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query products: %w", err)
	}
	defer productRows.Close()

	for productRows.Next() {
		var p Product
		err := productRows.Scan(
			&p.ID,
			&p.Name,
			&p.Category,
			&p.Price,
			&p.Stock,
			&p.SoldCount,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan product: %w", err)
		}
		p.Recipes = make([]Recipe, 0)
		snapshot[p.ID] = &p
	}
	if err = productRows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating products: %w", err)
	}

	if len(snapshot) == 0 {
		return snapshot, nil
	}

	foundIDs := make([]uuid.UUID, 0, len(snapshot))
	for id := range snapshot {
		foundIDs = append(foundIDs, id)
	}

	recipesQuery := `
		SELECT id, product_id, size
		FROM recipes
		WHERE product_id = ANY($1)
		ORDER BY created_at
	`

	recipeRows, err := r.db.Query(ctx, recipesQuery, foundIDs)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query recipes: %w", err)
	}
	defer recipeRows.Close()

	recipesByID := make(map[uuid.UUID]*Recipe)
	var recipeIDs []uuid.UUID

	for recipeRows.Next() {
		var rec Recipe
		if err := recipeRows.Scan(&rec.ID, &rec.ProductID, &rec.Size); err != nil {
			return nil, fmt.Errorf("repository: failed to scan recipe: %w", err)
		}
		rec.Items = make([]RecipeItem, 0)
		recipesByID[rec.ID] = &rec
		recipeIDs = append(recipeIDs, rec.ID)
	}
	if err = recipeRows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating recipes: %w", err)
	}

	if len(recipeIDs) > 0 {
		itemsQuery := `
			SELECT ri.id, ri.recipe_id, ri.ingredient_id, ri.quantity,
			       i.id, i.name, i.stock, i.cost_per_unit
			FROM recipe_items ri
			JOIN ingredients i ON i.id = ri.ingredient_id
			WHERE ri.recipe_id = ANY($1)
		`

		itemRows, err := r.db.Query(ctx, itemsQuery, recipeIDs)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to query recipe items: %w", err)
		}
		defer itemRows.Close()

		for itemRows.Next() {
			var item RecipeItem
			err := itemRows.Scan(
				&item.ID,
				&item.RecipeID,
				&item.IngredientID,
				&item.Quantity,
				&item.Ingredient.ID,
				&item.Ingredient.Name,
				&item.Ingredient.Stock,
				&item.Ingredient.CostPerUnit,
			)
			if err != nil {
				return nil, fmt.Errorf("repository: failed to scan recipe item: %w", err)
			}
			if rec, ok := recipesByID[item.RecipeID]; ok {
				rec.Items = append(rec.Items, item)
			}
		}
		if err = itemRows.Err(); err != nil {
			return nil, fmt.Errorf("repository: error iterating recipe items: %w", err)
		}
	}

	// Attach recipes in load order so the resolver's last-resort fallback
	// stays stable for a given snapshot.
	for _, recipeID := range recipeIDs {
		rec := recipesByID[recipeID]
		if p, ok := snapshot[rec.ProductID]; ok {
			p.Recipes = append(p.Recipes, *rec)
		}
	}

	return snapshot, nil
}
