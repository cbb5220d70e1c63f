package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/cafepos/order-service/internal/order"
)

// OrderHandler handles HTTP requests for checkout.
type OrderHandler struct {
	svc order.Service
}

func NewOrderHandler(svc order.Service) *OrderHandler {
	return &OrderHandler{svc: svc}
}

type createOrderResponse struct {
	Success     bool   `json:"success"`
	OrderID     string `json:"orderId,omitempty"`
	OrderNumber string `json:"orderNumber,omitempty"`
	Error       string `json:"error,omitempty"`
}

// CreateOrder handles the POS checkout request. Validation rejections come
// back as client errors with the Turkish message naming the blocked product
// or ingredient; anything past validation is a generic server error because
// the cashier can do nothing about it.
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req order.CreateOrderRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, createOrderResponse{
			Success: false,
			Error:   "Geçersiz istek gövdesi",
		})
		return
	}

	ord, err := h.svc.CreateOrder(r.Context(), &req)
	if err != nil {
		var rejection *order.RejectionError
		if errors.As(err, &rejection) {
			writeJSON(w, http.StatusBadRequest, createOrderResponse{
				Success: false,
				Error:   rejection.Message,
			})
			return
		}
		log.Error().Err(err).Msg("handler: failed to create order")
		writeJSON(w, http.StatusInternalServerError, createOrderResponse{
			Success: false,
			Error:   "Sipariş oluşturulamadı, lütfen tekrar deneyin",
		})
		return
	}

	writeJSON(w, http.StatusCreated, createOrderResponse{
		Success:     true,
		OrderID:     ord.ID.String(),
		OrderNumber: ord.OrderNumber,
	})
}

// GetOrderByID returns a committed order, used by the POS UI after checkout.
func (h *OrderHandler) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.FromString(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)
		return
	}

	ord, err := h.svc.GetOrderByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			http.Error(w, "order not found", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Msg("handler: failed to get order by id")
		http.Error(w, "failed to get order", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, ord)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("handler: failed to encode response")
	}
}
