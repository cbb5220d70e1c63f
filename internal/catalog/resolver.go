package catalog

import (
	"github.com/rs/zerolog/log"
)

// BasisKind classifies how a cart line item is allowed to consume stock.
type BasisKind int

const (
	// RecipeBased items consume ingredient stock through a resolved recipe.
	RecipeBased BasisKind = iota
	// UnitBased items are sold directly from the product's own stock count.
	UnitBased
	// Unsellable items have neither a recipe nor a unit-tracked category.
	Unsellable
)

// SaleBasis is the single decision both validation and settlement act on.
// Producing it in one place keeps the two phases from drifting apart.
type SaleBasis struct {
	Kind     BasisKind
	Recipe   *Recipe
	Fallback bool
}

// ResolveRecipe picks the recipe governing a (product, size) pair.
// Resolution order, first match wins:
//  1. recipe whose size equals the requested size exactly,
//  2. recipe with the "Standart" sentinel size,
//  3. recipe with no size (applies to all sizes),
//  4. any remaining recipe, taken in load order.
//
// Step 4 exists to avoid blocking a sale on misconfigured catalog data; the
// returned fallback flag is true in that case so callers can log it for audit.
// Steps 1-3 are deterministic for a fixed recipe set.
func ResolveRecipe(p *Product, requestedSize string) (recipe *Recipe, fallback bool) {
	if p == nil || len(p.Recipes) == 0 {
		return nil, false
	}

	for i := range p.Recipes {
		r := &p.Recipes[i]
		if r.Size != nil && *r.Size == requestedSize {
			return r, false
		}
	}
	for i := range p.Recipes {
		r := &p.Recipes[i]
		if r.Size != nil && *r.Size == SizeStandart {
			return r, false
		}
	}
	for i := range p.Recipes {
		r := &p.Recipes[i]
		if r.Size == nil {
			return r, false
		}
	}

	return &p.Recipes[0], true
}

// ResolveBasis turns a (product, size) pair into a SaleBasis. unitBased
// reports whether a category is sold directly from product stock; it is
// injected so the category allow-list stays policy configuration rather than
// catalog logic.
func ResolveBasis(p *Product, requestedSize string, unitBased func(category string) bool) SaleBasis {
	recipe, fallback := ResolveRecipe(p, requestedSize)
	if recipe != nil {
		if fallback {
			log.Warn().
				Stringer("product_id", p.ID).
				Str("product_name", p.Name).
				Str("requested_size", requestedSize).
				Stringer("recipe_id", recipe.ID).
				Msg("catalog: no size-matched recipe, using arbitrary fallback recipe")
		}
		return SaleBasis{Kind: RecipeBased, Recipe: recipe, Fallback: fallback}
	}

	if p != nil && unitBased != nil && unitBased(p.Category) {
		return SaleBasis{Kind: UnitBased}
	}

	return SaleBasis{Kind: Unsellable}
}
