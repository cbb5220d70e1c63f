package order

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/cafepos/order-service/internal/catalog"
	"github.com/cafepos/order-service/internal/policy"
	"github.com/cafepos/order-service/internal/stock"
)

// SettlementOutcome is the result of one settlement sub-operation. Op names
// the operation and its target so failures can be reconciled later.
type SettlementOutcome struct {
	Op  string
	Err error
}

// SettlementReport collects the outcomes of every decrement and increment
// issued for one order. The order itself is already durably committed by the
// time settlement runs, so the report is an observability artifact, never a
// reason to fail the request.
type SettlementReport struct {
	Outcomes []SettlementOutcome
}

func (r *SettlementReport) Failures() []SettlementOutcome {
	var failed []SettlementOutcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			failed = append(failed, o)
		}
	}
	return failed
}

// Settler applies the stock consequences of a committed order: ingredient
// decrements per recipe, product stock decrements for unit-based items,
// sold-count increments, and disposable cup deductions.
//
// All writes are relative deltas issued concurrently and joined all-settled:
// a failing sub-operation never aborts the others and never rolls back the
// order. Because validation checked a snapshot rather than reserving stock,
// two orders racing over the same ingredient can both pass validation and
// both decrement, driving stock negative. That race is accepted: the ledger
// stays consistent as a sum of deltas and negative stock is surfaced to
// back-office reconciliation instead of blocking sales.
type Settler struct {
	stock  stock.Repository
	policy *policy.SalePolicy
}

func NewSettler(stockRepo stock.Repository, pol *policy.SalePolicy) *Settler {
	return &Settler{stock: stockRepo, policy: pol}
}

// Settle fans out every stock mutation for the order and waits for all of
// them to finish. It uses the same SaleBasis resolution as validation, so the
// two phases cannot drift apart.
func (s *Settler) Settle(ctx context.Context, committed *Order, items []CartItem, snapshot catalog.Snapshot) SettlementReport {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		outcomes []SettlementOutcome
	)

	run := func(op string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := fn()
			mu.Lock()
			outcomes = append(outcomes, SettlementOutcome{Op: op, Err: err})
			mu.Unlock()
		}()
	}

	for _, item := range items {
		product, ok := snapshot[item.ProductID]
		if !ok {
			// Validation guarantees presence; a miss here means the snapshot
			// and the committed order disagree, which is worth a report entry.
			mu.Lock()
			outcomes = append(outcomes, SettlementOutcome{
				Op:  fmt.Sprintf("resolve:%s", item.ProductName),
				Err: errors.New("product missing from snapshot"),
			})
			mu.Unlock()
			continue
		}

		basis := catalog.ResolveBasis(product, item.Size, s.policy.IsUnitBased)

		switch basis.Kind {
		case catalog.RecipeBased:
			run(fmt.Sprintf("sold_count:%s", product.Name), func() error {
				return s.stock.AddSoldCount(ctx, product.ID, item.Quantity)
			})
			for _, ri := range basis.Recipe.Items {
				run(fmt.Sprintf("ingredient:%s", ri.Ingredient.Name), func() error {
					return s.stock.AddIngredientStock(ctx, ri.IngredientID, -ri.Quantity*float64(item.Quantity))
				})
			}
		case catalog.UnitBased:
			run(fmt.Sprintf("sold_count:%s", product.Name), func() error {
				return s.stock.AddSoldCount(ctx, product.ID, item.Quantity)
			})
			run(fmt.Sprintf("product_stock:%s", product.Name), func() error {
				return s.stock.AddProductStock(ctx, product.ID, -float64(item.Quantity))
			})
		case catalog.Unsellable:
			// Unreachable after validation; recorded rather than ignored.
			mu.Lock()
			outcomes = append(outcomes, SettlementOutcome{
				Op:  fmt.Sprintf("resolve:%s", item.ProductName),
				Err: errors.New("no sale basis for committed item"),
			})
			mu.Unlock()
			continue
		}

		if cupName, needsCup := s.policy.CupFor(product, item.Size, item.IsPorcelain); needsCup {
			run(fmt.Sprintf("cup:%s", cupName), func() error {
				id, err := s.stock.IngredientIDByName(ctx, cupName)
				if errors.Is(err, stock.ErrIngredientNotFound) {
					// No matching packaging ingredient: deduction is skipped
					// silently, the catalog just does not track this cup.
					return nil
				}
				if err != nil {
					return err
				}
				return s.stock.AddIngredientStock(ctx, id, -float64(item.Quantity))
			})
		}
	}

	wg.Wait()

	report := SettlementReport{Outcomes: outcomes}
	for _, failure := range report.Failures() {
		log.Error().
			Err(failure.Err).
			Str("op", failure.Op).
			Stringer("order_id", committed.ID).
			Str("order_number", committed.OrderNumber).
			Msg("settlement: stock operation failed for committed order")
	}

	return report
}
