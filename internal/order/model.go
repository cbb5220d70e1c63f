package order

import (
	"time"

	"github.com/gofrs/uuid"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPreparing OrderStatus = "preparing"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

func (os OrderStatus) String() string {
	return string(os)
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

const DefaultPaymentMethod = "cash"

type Order struct {
	ID             uuid.UUID     `json:"id" db:"id"`
	OrderNumber    string        `json:"order_number" db:"order_number"`
	UserID         *uuid.UUID    `json:"user_id" db:"user_id"`
	CustomerName   string        `json:"customer_name" db:"customer_name"`
	CustomerPhone  string        `json:"customer_phone" db:"customer_phone"`
	TotalAmount    float64       `json:"total_amount" db:"total_amount"`
	DiscountAmount float64       `json:"discount_amount" db:"discount_amount"`
	FinalAmount    float64       `json:"final_amount" db:"final_amount"`
	Status         OrderStatus   `json:"status" db:"status"`
	PaymentMethod  string        `json:"payment_method" db:"payment_method"`
	PaymentStatus  PaymentStatus `json:"payment_status" db:"payment_status"`
	Items          []OrderItem   `json:"items" db:"-"`
	Payments       []Payment     `json:"payments" db:"-"`
	CreatedAt      time.Time     `json:"created_at" db:"created_at"`
}

// OrderItem is a denormalized snapshot of what was sold. It deliberately
// carries the product name, size and prices as of the sale instead of foreign
// keys into the live catalog, so historical orders stay accurate when recipes
// or prices change later.
type OrderItem struct {
	ID          uuid.UUID `json:"id" db:"id"`
	OrderID     uuid.UUID `json:"order_id" db:"order_id"`
	ProductName string    `json:"product_name" db:"product_name"`
	Size        string    `json:"size" db:"size"`
	Quantity    int64     `json:"quantity" db:"quantity"`
	UnitPrice   float64   `json:"unit_price" db:"unit_price"`
	TotalPrice  float64   `json:"total_price" db:"total_price"`
}

type Payment struct {
	ID      uuid.UUID     `json:"id" db:"id"`
	OrderID uuid.UUID     `json:"order_id" db:"order_id"`
	Amount  float64       `json:"amount" db:"amount"`
	Method  string        `json:"method" db:"method"`
	Status  PaymentStatus `json:"status" db:"status"`
}

// CreateOrderRequest is the checkout payload sent by the POS UI. Field names
// follow the client contract, which is camelCase.
type CreateOrderRequest struct {
	UserID         *uuid.UUID     `json:"userId"`
	CustomerName   string         `json:"customerName"`
	CustomerPhone  string         `json:"customerPhone"`
	Items          []CartItem     `json:"items"`
	TotalAmount    float64        `json:"totalAmount"`
	DiscountAmount float64        `json:"discountAmount"`
	FinalAmount    *float64       `json:"finalAmount"`
	Status         string         `json:"status"`
	PaymentMethod  string         `json:"paymentMethod"`
	Payments       []PaymentInput `json:"payments"`
}

type CartItem struct {
	ProductID   uuid.UUID `json:"productId"`
	ProductName string    `json:"productName"`
	Size        string    `json:"size"`
	Quantity    int64     `json:"quantity"`
	UnitPrice   float64   `json:"unitPrice"`
	TotalPrice  float64   `json:"totalPrice"`
	IsPorcelain bool      `json:"isPorcelain"`
}

type PaymentInput struct {
	Amount float64 `json:"amount"`
	Method string  `json:"method"`
	Status string  `json:"status"`
}
