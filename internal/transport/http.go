package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cafepos/order-service/internal/catalog"
	"github.com/cafepos/order-service/internal/handler"
	"github.com/cafepos/order-service/internal/order"
	"github.com/cafepos/order-service/internal/policy"
	"github.com/cafepos/order-service/internal/stock"
)

func NewRouter(pool *pgxpool.Pool, pol *policy.SalePolicy) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	catalogRepo := catalog.NewRepository(pool)
	orderRepo := order.NewRepository(pool)
	stockRepo := stock.NewRepository(pool)

	validator := order.NewValidator(pol)
	settler := order.NewSettler(stockRepo, pol)
	svc := order.NewService(catalogRepo, orderRepo, validator, settler)
	h := handler.NewOrderHandler(svc)

	r.Post("/api/orders", h.CreateOrder)
	r.Get("/api/orders/{id}", h.GetOrderByID)

	return r
}
