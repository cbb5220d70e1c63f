// Package policy holds the sale-policy configuration that used to live as
// hardcoded literals scattered through the checkout flow: which categories are
// sold straight from product stock, which products are beverages, how hot and
// cold drinks are told apart, and how packaging ingredients are named.
// Everything here is injected into validation and settlement so it can be
// varied in tests without touching core logic.
package policy

import (
	"fmt"
	"strings"

	"github.com/cafepos/order-service/internal/catalog"
)

// Material is the cup material class derived from hot/cold classification.
type Material string

const (
	MaterialHot  Material = "Sıcak Bardak"
	MaterialCold Material = "Soğuk Bardak"
)

func (m Material) String() string {
	return string(m)
}

type SalePolicy struct {
	// UnitBasedCategories are sold directly from product stock, with no
	// ingredient breakdown.
	UnitBasedCategories map[string]struct{}
	// BeverageCategories mark products that are served in a cup at all.
	BeverageCategories map[string]struct{}
	// ColdCategories classify a beverage as cold regardless of its name.
	ColdCategories map[string]struct{}
	// ColdNameHints classify a beverage as cold when its name contains one
	// of these substrings (matched case-insensitively).
	ColdNameHints []string
	// PorcelainProductNames are traditionally served in porcelain and never
	// consume a disposable cup, independent of the per-line porcelain flag.
	PorcelainProductNames map[string]struct{}
	// PackagingName derives the packaging ingredient name from material and
	// size. The result is looked up verbatim in the ingredients table.
	PackagingName func(material Material, size string) string
}

// Default returns the production policy for the café catalog.
func Default() *SalePolicy {
	return &SalePolicy{
		UnitBasedCategories: Set(
			"Tatlılar",
			"Pastalar",
			"Atıştırmalıklar",
			"Şişe İçecekler",
		),
		BeverageCategories: Set(
			"Sıcak İçecekler",
			"Soğuk İçecekler",
			"Kahveler",
			"Çaylar",
		),
		ColdCategories: Set(
			"Soğuk İçecekler",
		),
		ColdNameHints: []string{"iced", "cold", "soğuk", "buzlu", "ice"},
		PorcelainProductNames: Set(
			"Türk Kahvesi",
			"Çay",
			"Fincan Çay",
		),
		PackagingName: func(material Material, size string) string {
			return fmt.Sprintf("%s %s", material, size)
		},
	}
}

func (p *SalePolicy) IsUnitBased(category string) bool {
	return containsFold(p.UnitBasedCategories, category)
}

func (p *SalePolicy) isBeverage(category string) bool {
	return containsFold(p.BeverageCategories, category)
}

func (p *SalePolicy) isCold(product *catalog.Product) bool {
	if containsFold(p.ColdCategories, product.Category) {
		return true
	}
	name := strings.ToLower(product.Name)
	for _, hint := range p.ColdNameHints {
		if strings.Contains(name, hint) {
			return true
		}
	}
	return false
}

// CupFor decides whether selling one unit of product at the given size
// consumes a disposable cup, and if so which packaging ingredient it is.
// Porcelain-marked lines and traditional porcelain products never do.
func (p *SalePolicy) CupFor(product *catalog.Product, size string, isPorcelain bool) (name string, ok bool) {
	if product == nil || isPorcelain {
		return "", false
	}
	if containsFold(p.PorcelainProductNames, product.Name) {
		return "", false
	}
	if !p.isBeverage(product.Category) {
		return "", false
	}

	material := MaterialHot
	if p.isCold(product) {
		material = MaterialCold
	}
	if size == "" {
		size = catalog.SizeStandart
	}
	return p.PackagingName(material, size), true
}

// Set builds a case-insensitive lookup set for policy configuration.
func Set(values ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[strings.ToLower(v)] = struct{}{}
	}
	return set
}

func containsFold(set map[string]struct{}, value string) bool {
	_, ok := set[strings.ToLower(value)]
	return ok
}
