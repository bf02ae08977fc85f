package transport

import (
	"net/http"

	"github.com/Yaswanth0403/BookHaven/internal/middleware"
	"github.com/Yaswanth0403/BookHaven/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// OrderHandler serves the order history
type OrderHandler struct {
	orderService service.OrderService
	logger       *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

func (h *OrderHandler) RegisterRoutes(r chi.Router, guards Guards) {
	r.With(guards.Auth).Get("/api/orders", h.List)
}

// List returns the caller's order records, oldest first
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	records, err := h.orderService.ListByUser(r.Context(), userID)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to get orders")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, records)
}
