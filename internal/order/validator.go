package order

import (
	"fmt"

	"github.com/cafepos/order-service/internal/catalog"
	"github.com/cafepos/order-service/internal/policy"
)

// RejectionError is a validation refusal surfaced to the caller before any
// write happens. Message is the human-readable (Turkish) text shown to the
// cashier, naming the offending product or ingredient.
type RejectionError struct {
	Message string
}

func (e *RejectionError) Error() string {
	return e.Message
}

func reject(format string, args ...any) error {
	return &RejectionError{Message: fmt.Sprintf(format, args...)}
}

// Validator is the pure read phase of checkout: it decides whether every cart
// line can legally be sold against a point-in-time catalog snapshot, without
// mutating anything. The snapshot is fetched once per request, so this check
// is inherently racy against concurrent orders; see the settlement docs.
type Validator struct {
	policy *policy.SalePolicy
}

func NewValidator(pol *policy.SalePolicy) *Validator {
	return &Validator{policy: pol}
}

// Validate checks cart lines in order and fails fast on the first violation.
// Re-validating the same cart against the same snapshot yields the same
// decision.
func (v *Validator) Validate(snapshot catalog.Snapshot, items []CartItem) error {
	for _, item := range items {
		product, ok := snapshot[item.ProductID]
		if !ok {
			return reject("Ürün bulunamadı: %s", item.ProductName)
		}

		basis := catalog.ResolveBasis(product, item.Size, v.policy.IsUnitBased)

		switch basis.Kind {
		case catalog.RecipeBased:
			for _, ri := range basis.Recipe.Items {
				needed := ri.Quantity * float64(item.Quantity)
				if ri.Ingredient.Stock < needed {
					return reject("Yetersiz malzeme stoğu: %s (%s için gerekli %.2f, mevcut %.2f)",
						ri.Ingredient.Name, product.Name, needed, ri.Ingredient.Stock)
				}
			}
		case catalog.UnitBased:
			if product.Stock < float64(item.Quantity) {
				return reject("Yetersiz stok: %s (kalan: %.0f)", product.Name, product.Stock)
			}
		case catalog.Unsellable:
			// Neither recipe-governed nor unit-tracked: the product has no
			// sellable definition and the sale must not proceed.
			return reject("Bu ürün için satış tanımı yok: %s", product.Name)
		}
	}

	return nil
}
