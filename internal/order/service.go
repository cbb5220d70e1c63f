package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/cafepos/order-service/internal/catalog"
)

// Service runs the checkout flow: snapshot fetch, validation, the single
// durable commit, then best-effort stock settlement.
type Service interface {
	CreateOrder(ctx context.Context, req *CreateOrderRequest) (*Order, error)
	GetOrderByID(ctx context.Context, id uuid.UUID) (*Order, error)
}

type service struct {
	catalogRepo catalog.Repository
	orderRepo   Repository
	validator   *Validator
	settler     *Settler
}

func NewService(catalogRepo catalog.Repository, orderRepo Repository, validator *Validator, settler *Settler) Service {
	return &service{
		catalogRepo: catalogRepo,
		orderRepo:   orderRepo,
		validator:   validator,
		settler:     settler,
	}
}

func (s *service) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*Order, error) {
	if len(req.Items) == 0 {
		return nil, reject("Sipariş en az bir ürün içermelidir")
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, reject("Geçersiz adet: %s", item.ProductName)
		}
	}

	productIDs := make([]uuid.UUID, 0, len(req.Items))
	seen := make(map[uuid.UUID]struct{}, len(req.Items))
	for _, item := range req.Items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		productIDs = append(productIDs, item.ProductID)
	}

	// One snapshot per request: every validation check and every settlement
	// delta is derived from this single point-in-time view.
	snapshot, err := s.catalogRepo.ProductsByIDs(ctx, productIDs)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to load catalog snapshot")
		return nil, fmt.Errorf("service: failed to load catalog snapshot: %w", err)
	}

	if err := s.validator.Validate(snapshot, req.Items); err != nil {
		log.Warn().Err(err).Msg("service: order rejected by validation")
		return nil, err
	}

	ord := buildOrder(req)

	if err := s.orderRepo.Create(ctx, ord); err != nil {
		log.Error().Err(err).Str("order_number", ord.OrderNumber).Msg("service: failed to create order in repository")
		return nil, fmt.Errorf("service: failed to create order: %w", err)
	}

	log.Info().
		Stringer("order_id", ord.ID).
		Str("order_number", ord.OrderNumber).
		Int("items", len(ord.Items)).
		Float64("final_amount", ord.FinalAmount).
		Msg("service: order created successfully")

	// The order is durable from here on. Settlement failures are logged by
	// the settler and must never surface into the checkout response.
	report := s.settler.Settle(ctx, ord, req.Items, snapshot)
	if failed := report.Failures(); len(failed) > 0 {
		log.Warn().
			Stringer("order_id", ord.ID).
			Int("failed_ops", len(failed)).
			Int("total_ops", len(report.Outcomes)).
			Msg("service: order settled partially, stock requires reconciliation")
	}

	return ord, nil
}

func (s *service) GetOrderByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	ord, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			log.Warn().Stringer("order_id", id).Msg("service: order not found by id")
			return nil, ErrOrderNotFound
		}
		log.Error().Err(err).Msg("service: failed to fetch order by id in repository")
		return nil, fmt.Errorf("service: failed to fetch order by id: %w", err)
	}

	return ord, nil
}

// buildOrder fills in the defaults the POS client is allowed to omit:
// status, payment method, final amount and payment records.
func buildOrder(req *CreateOrderRequest) *Order {
	ord := &Order{
		OrderNumber:    NewOrderNumber(),
		UserID:         req.UserID,
		CustomerName:   req.CustomerName,
		CustomerPhone:  req.CustomerPhone,
		TotalAmount:    req.TotalAmount,
		DiscountAmount: req.DiscountAmount,
		Status:         StatusPending,
		PaymentMethod:  DefaultPaymentMethod,
		PaymentStatus:  PaymentPaid,
	}

	if req.Status != "" {
		ord.Status = OrderStatus(req.Status)
	}
	if req.PaymentMethod != "" {
		ord.PaymentMethod = req.PaymentMethod
	}

	if req.FinalAmount != nil {
		ord.FinalAmount = *req.FinalAmount
	} else {
		ord.FinalAmount = req.TotalAmount - req.DiscountAmount
	}

	ord.Items = make([]OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		ord.Items = append(ord.Items, OrderItem{
			ProductName: item.ProductName,
			Size:        item.Size,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  item.TotalPrice,
		})
	}

	if len(req.Payments) == 0 {
		// No explicit split payments supplied: one implicit payment covers
		// the full final amount via the order's nominal method.
		ord.Payments = []Payment{{
			Amount: ord.FinalAmount,
			Method: ord.PaymentMethod,
			Status: ord.PaymentStatus,
		}}
		return ord
	}

	ord.Payments = make([]Payment, 0, len(req.Payments))
	for _, p := range req.Payments {
		status := ord.PaymentStatus
		if p.Status != "" {
			status = PaymentStatus(p.Status)
		}
		ord.Payments = append(ord.Payments, Payment{
			Amount: p.Amount,
			Method: p.Method,
			Status: status,
		})
	}

	return ord
}
