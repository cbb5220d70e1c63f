package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/cafepos/order-service/internal/order"
)

type mockOrderService struct {
	createOrderFunc  func(ctx context.Context, req *order.CreateOrderRequest) (*order.Order, error)
	getOrderByIDFunc func(ctx context.Context, id uuid.UUID) (*order.Order, error)
}

func (m *mockOrderService) CreateOrder(ctx context.Context, req *order.CreateOrderRequest) (*order.Order, error) {
	return m.createOrderFunc(ctx, req)
}

func (m *mockOrderService) GetOrderByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	return m.getOrderByIDFunc(ctx, id)
}

func TestOrderHandler_CreateOrder(t *testing.T) {
	orderID, _ := uuid.FromString("550e8400-e29b-41d4-a716-446655440000")

	tests := []struct {
		name           string
		body           string
		createOrder    func(ctx context.Context, req *order.CreateOrderRequest) (*order.Order, error)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "success",
			body: `{
				"customerName": "Ayşe",
				"items": [{"productId": "123e4567-e89b-12d3-a456-426614174000", "productName": "Latte", "size": "M", "quantity": 2, "unitPrice": 90, "totalPrice": 180}],
				"totalAmount": 180
			}`,
			createOrder: func(ctx context.Context, req *order.CreateOrderRequest) (*order.Order, error) {
				return &order.Order{ID: orderID, OrderNumber: "SIP-483920154-7301"}, nil
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `{"success":true,"orderId":"550e8400-e29b-41d4-a716-446655440000","orderNumber":"SIP-483920154-7301"}` + "\n",
		},
		{
			name: "validation_rejection_returns_turkish_message",
			body: `{"items": [{"productId": "123e4567-e89b-12d3-a456-426614174000", "productName": "Latte", "quantity": 99}], "totalAmount": 100}`,
			createOrder: func(ctx context.Context, req *order.CreateOrderRequest) (*order.Order, error) {
				return nil, &order.RejectionError{Message: "Yetersiz malzeme stoğu: Süt (Latte için gerekli 19800.00, mevcut 1000.00)"}
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"success":false,"error":"Yetersiz malzeme stoğu: Süt (Latte için gerekli 19800.00, mevcut 1000.00)"}` + "\n",
		},
		{
			name: "unexpected_failure_is_generic",
			body: `{"items": [{"productId": "123e4567-e89b-12d3-a456-426614174000", "productName": "Latte", "quantity": 1}], "totalAmount": 90}`,
			createOrder: func(ctx context.Context, req *order.CreateOrderRequest) (*order.Order, error) {
				return nil, assert.AnError
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"success":false,"error":"Sipariş oluşturulamadı, lütfen tekrar deneyin"}` + "\n",
		},
		{
			name: "invalid_body",
			body: `{not json`,
			createOrder: func(ctx context.Context, req *order.CreateOrderRequest) (*order.Order, error) {
				t.Fatal("service must not be called for an undecodable body")
				return nil, nil
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"success":false,"error":"Geçersiz istek gövdesi"}` + "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewOrderHandler(&mockOrderService{createOrderFunc: tt.createOrder})

			req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()

			h.CreateOrder(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, tt.expectedBody, rec.Body.String())
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestOrderHandler_GetOrderByID(t *testing.T) {
	existingID, _ := uuid.FromString("550e8400-e29b-41d4-a716-446655440000")

	h := NewOrderHandler(&mockOrderService{
		getOrderByIDFunc: func(ctx context.Context, id uuid.UUID) (*order.Order, error) {
			if id == existingID {
				return &order.Order{ID: id, OrderNumber: "SIP-483920154-7301"}, nil
			}
			return nil, order.ErrOrderNotFound
		},
	})

	r := chi.NewRouter()
	r.Get("/api/orders/{id}", h.GetOrderByID)

	tests := []struct {
		name           string
		url            string
		expectedStatus int
	}{
		{name: "found", url: "/api/orders/" + existingID.String(), expectedStatus: http.StatusOK},
		{name: "not_found", url: "/api/orders/" + uuid.Must(uuid.NewV4()).String(), expectedStatus: http.StatusNotFound},
		{name: "invalid_id", url: "/api/orders/not-a-uuid", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			rec := httptest.NewRecorder()

			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}
