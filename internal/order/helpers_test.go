package order_test

import (
	"context"
	"strings"
	"sync"

	"github.com/gofrs/uuid"

	"github.com/cafepos/order-service/internal/catalog"
	"github.com/cafepos/order-service/internal/stock"
)

func mustUUID() uuid.UUID {
	id, err := uuid.NewV4()
	if err != nil {
		panic(err)
	}
	return id
}

func strPtr(s string) *string {
	return &s
}

type ingredientSpec struct {
	name    string
	stock   float64
	perUnit float64
}

// recipeProduct builds a product governed by a single recipe at the given
// size, with one recipe item per ingredient spec.
func recipeProduct(name, category string, size *string, ingredients ...ingredientSpec) *catalog.Product {
	p := &catalog.Product{
		ID:       mustUUID(),
		Name:     name,
		Category: category,
	}
	rec := catalog.Recipe{
		ID:        mustUUID(),
		ProductID: p.ID,
		Size:      size,
	}
	for _, spec := range ingredients {
		ingID := mustUUID()
		rec.Items = append(rec.Items, catalog.RecipeItem{
			ID:           mustUUID(),
			RecipeID:     rec.ID,
			IngredientID: ingID,
			Quantity:     spec.perUnit,
			Ingredient: catalog.Ingredient{
				ID:    ingID,
				Name:  spec.name,
				Stock: spec.stock,
			},
		})
	}
	p.Recipes = []catalog.Recipe{rec}
	return p
}

func unitProduct(name, category string, stockCount float64) *catalog.Product {
	return &catalog.Product{
		ID:       mustUUID(),
		Name:     name,
		Category: category,
		Stock:    stockCount,
	}
}

func snapshotOf(products ...*catalog.Product) catalog.Snapshot {
	snap := make(catalog.Snapshot, len(products))
	for _, p := range products {
		snap[p.ID] = p
	}
	return snap
}

// fakeLedger is an in-memory stock.Repository applying relative deltas under
// a mutex, like the real store does. It records final balances so tests can
// assert exact decrement arithmetic, including negative stock.
type fakeLedger struct {
	mu              sync.Mutex
	ingredientStock map[uuid.UUID]float64
	ingredientNames map[string]uuid.UUID
	productStock    map[uuid.UUID]float64
	soldCount       map[uuid.UUID]int64
	failIngredients map[uuid.UUID]error
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		ingredientStock: make(map[uuid.UUID]float64),
		ingredientNames: make(map[string]uuid.UUID),
		productStock:    make(map[uuid.UUID]float64),
		soldCount:       make(map[uuid.UUID]int64),
		failIngredients: make(map[uuid.UUID]error),
	}
}

func (f *fakeLedger) seedProduct(p *catalog.Product) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.productStock[p.ID] = p.Stock
	for _, rec := range p.Recipes {
		for _, item := range rec.Items {
			f.ingredientStock[item.IngredientID] = item.Ingredient.Stock
			f.ingredientNames[strings.ToLower(item.Ingredient.Name)] = item.IngredientID
		}
	}
}

func (f *fakeLedger) seedIngredient(name string, stockCount float64) uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := mustUUID()
	f.ingredientStock[id] = stockCount
	f.ingredientNames[strings.ToLower(name)] = id
	return id
}

func (f *fakeLedger) AddIngredientStock(_ context.Context, id uuid.UUID, delta float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failIngredients[id]; ok {
		return err
	}
	if _, ok := f.ingredientStock[id]; !ok {
		return stock.ErrIngredientNotFound
	}
	f.ingredientStock[id] += delta
	return nil
}

func (f *fakeLedger) AddProductStock(_ context.Context, id uuid.UUID, delta float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.productStock[id]; !ok {
		return stock.ErrProductNotFound
	}
	f.productStock[id] += delta
	return nil
}

func (f *fakeLedger) AddSoldCount(_ context.Context, id uuid.UUID, delta int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.soldCount[id] += delta
	return nil
}

func (f *fakeLedger) IngredientIDByName(_ context.Context, name string) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.ingredientNames[strings.ToLower(name)]
	if !ok {
		return uuid.Nil, stock.ErrIngredientNotFound
	}
	return id, nil
}

func (f *fakeLedger) ingredientBalance(id uuid.UUID) float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ingredientStock[id]
}

func (f *fakeLedger) productBalance(id uuid.UUID) float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.productStock[id]
}

func (f *fakeLedger) sold(id uuid.UUID) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.soldCount[id]
}
