package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

var ErrOrderNotFound = errors.New("order not found")

// Repository persists committed orders. Create is the single durable write of
// the checkout flow: the order row, its items and its payments go in as one
// transaction, and no stock is touched inside it.
type Repository interface {
	Create(ctx context.Context, order *Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, orderInput *Order) (err error) {
	if orderInput.ID == uuid.Nil {
		genID, genErr := uuid.NewV4()
		if genErr != nil {
			return fmt.Errorf("repository: failed to generate order ID: %w", genErr)
		}
		orderInput.ID = genID
	}

	tx, beginErr := r.db.Begin(ctx)
	if beginErr != nil {
		return fmt.Errorf("repository: failed to begin transaction: %w", beginErr)
	}
	defer func() {
		if p := recover(); p != nil {
			log.Error().Interface("panic_value", p).Stringer("order_id", orderInput.ID).Msg("Panic recovered during Create, rolling back")
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				log.Error().Err(rbErr).Stringer("order_id", orderInput.ID).Msg("Failed to rollback transaction after panic")
			}
			panic(p)
		} else if err != nil {
			log.Warn().Err(err).Stringer("order_id", orderInput.ID).Msg("Transaction for Create failed, rolling back")
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				log.Error().Err(rbErr).Stringer("order_id", orderInput.ID).Msg("Failed to rollback transaction")
			}
		} else {
			if commitErr := tx.Commit(ctx); commitErr != nil {
				log.Error().Err(commitErr).Stringer("order_id", orderInput.ID).Msg("Failed to commit transaction")
				err = fmt.Errorf("repository: failed to commit transaction: %w", commitErr)
			}
		}
	}()

	orderInput.CreatedAt = time.Now().UTC()

	orderQuery := `
		INSERT INTO orders (id, order_number, user_id, customer_name, customer_phone,
		                    total_amount, discount_amount, final_amount,
		                    status, payment_method, payment_status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err = tx.Exec(ctx, orderQuery,
		orderInput.ID,
		orderInput.OrderNumber,
		orderInput.UserID,
		orderInput.CustomerName,
		orderInput.CustomerPhone,
		orderInput.TotalAmount,
		orderInput.DiscountAmount,
		orderInput.FinalAmount,
		string(orderInput.Status),
		orderInput.PaymentMethod,
		string(orderInput.PaymentStatus),
		orderInput.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to insert order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (id, order_id, product_name, size, quantity, unit_price, total_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for i := range orderInput.Items {
		item := &orderInput.Items[i]

		itemID, genErr := uuid.NewV4()
		if genErr != nil {
			return fmt.Errorf("repository: failed to generate order item ID: %w", genErr)
		}
		item.ID = itemID
		item.OrderID = orderInput.ID

		_, err = tx.Exec(ctx, itemQuery,
			item.ID,
			item.OrderID,
			item.ProductName,
			item.Size,
			item.Quantity,
			item.UnitPrice,
			item.TotalPrice,
		)
		if err != nil {
			return fmt.Errorf("repository: failed to insert order item for order %s: %w", orderInput.ID, err)
		}
	}

	paymentQuery := `
		INSERT INTO payments (id, order_id, amount, method, status)
		VALUES ($1, $2, $3, $4, $5)
	`
	for i := range orderInput.Payments {
		payment := &orderInput.Payments[i]

		paymentID, genErr := uuid.NewV4()
		if genErr != nil {
			return fmt.Errorf("repository: failed to generate payment ID: %w", genErr)
		}
		payment.ID = paymentID
		payment.OrderID = orderInput.ID

		_, err = tx.Exec(ctx, paymentQuery,
			payment.ID,
			payment.OrderID,
			payment.Amount,
			payment.Method,
			string(payment.Status),
		)
		if err != nil {
			return fmt.Errorf("repository: failed to insert payment for order %s: %w", orderInput.ID, err)
		}
	}

	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, orderID uuid.UUID) (*Order, error) {
	orderQuery := `
		SELECT id, order_number, user_id, customer_name, customer_phone,
		       total_amount, discount_amount, final_amount,
		       status, payment_method, payment_status, created_at
		FROM orders
		WHERE id = $1
	`

	var ord Order
	err := r.db.QueryRow(ctx, orderQuery, orderID).Scan(
		&ord.ID,
		&ord.OrderNumber,
		&ord.UserID,
		&ord.CustomerName,
		&ord.CustomerPhone,
		&ord.TotalAmount,
		&ord.DiscountAmount,
		&ord.FinalAmount,
		&ord.Status,
		&ord.PaymentMethod,
		&ord.PaymentStatus,
		&ord.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("repository: failed to select order by id %s: %w", orderID, err)
	}

	itemsQuery := `
		SELECT id, order_id, product_name, size, quantity, unit_price, total_price
		FROM order_items
		WHERE order_id = $1
	`

	itemRows, err := r.db.Query(ctx, itemsQuery, orderID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query order items for order id %s: %w", orderID, err)
	}
	defer itemRows.Close()

	ord.Items = make([]OrderItem, 0)
	for itemRows.Next() {
		var item OrderItem
		err := itemRows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductName,
			&item.Size,
			&item.Quantity,
			&item.UnitPrice,
			&item.TotalPrice,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan order item for order id %s: %w", orderID, err)
		}
		ord.Items = append(ord.Items, item)
	}
	if err = itemRows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating order items for order id %s: %w", orderID, err)
	}

	paymentsQuery := `
		SELECT id, order_id, amount, method, status
		FROM payments
		WHERE order_id = $1
	`

	paymentRows, err := r.db.Query(ctx, paymentsQuery, orderID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query payments for order id %s: %w", orderID, err)
	}
	defer paymentRows.Close()

	ord.Payments = make([]Payment, 0)
	for paymentRows.Next() {
		var payment Payment
		err := paymentRows.Scan(
			&payment.ID,
			&payment.OrderID,
			&payment.Amount,
			&payment.Method,
			&payment.Status,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan payment for order id %s: %w", orderID, err)
		}
		ord.Payments = append(ord.Payments, payment)
	}
	if err = paymentRows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating payments for order id %s: %w", orderID, err)
	}

	return &ord, nil
}
