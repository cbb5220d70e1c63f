package catalog

import (
	"time"

	"github.com/gofrs/uuid"
)

// SizeStandart is the sentinel recipe size meaning "the default serving".
// It is kept verbatim (including the spelling) because packaging ingredient
// names and existing catalog rows reference it.
const SizeStandart = "Standart"

type Product struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Category  string    `json:"category" db:"category"`
	Price     float64   `json:"price" db:"price"`
	Stock     float64   `json:"stock" db:"stock"`
	SoldCount int64     `json:"sold_count" db:"sold_count"`
	Recipes   []Recipe  `json:"recipes" db:"-"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Recipe maps a (product, size) pair to the ingredients consumed per unit
// sold. Size nil means the recipe applies to any size.
type Recipe struct {
	ID        uuid.UUID    `json:"id" db:"id"`
	ProductID uuid.UUID    `json:"product_id" db:"product_id"`
	Size      *string      `json:"size" db:"size"`
	Items     []RecipeItem `json:"items" db:"-"`
}

type RecipeItem struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	RecipeID     uuid.UUID  `json:"recipe_id" db:"recipe_id"`
	IngredientID uuid.UUID  `json:"ingredient_id" db:"ingredient_id"`
	Quantity     float64    `json:"quantity" db:"quantity"`
	Ingredient   Ingredient `json:"ingredient" db:"-"`
}

type Ingredient struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Stock       float64   `json:"stock" db:"stock"`
	CostPerUnit float64   `json:"cost_per_unit" db:"cost_per_unit"`
}

// Snapshot is a point-in-time view of the products referenced by one order,
// with recipes, recipe items and ingredient stock eagerly loaded. It is
// fetched once per request; validation and settlement both read from it and
// never re-query, so all checks see the same stock values.
type Snapshot map[uuid.UUID]*Product
