package transport

import (
	"net/http"
	"strings"

	"github.com/Yaswanth0403/BookHaven/internal/middleware"
	"github.com/Yaswanth0403/BookHaven/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// IdempotencyKeyHeader lets a client retry a purchase without buying twice
const IdempotencyKeyHeader = "Idempotency-Key"

// AddToCartRequest is the cart line posted by the storefront. Only bookId
// and quantity are trusted; the other fields are refreshed from the catalog.
type AddToCartRequest struct {
	BookID   string          `json:"bookId" validate:"required,max=64"`
	BookName string          `json:"bookName"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity" validate:"required,gte=1"`
	Image    string          `json:"image"`
}

// CheckoutResponse confirms a purchase
type CheckoutResponse struct {
	Message    string          `json:"message"`
	CheckoutID string          `json:"checkout_id"`
	ItemCount  int             `json:"item_count"`
	Total      decimal.Decimal `json:"total"`
}

// CartHandler serves the cart and the purchase endpoint
type CartHandler struct {
	cartService     service.CartService
	checkoutService service.CheckoutService
	logger          *zap.Logger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService service.CartService, checkoutService service.CheckoutService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		cartService:     cartService,
		checkoutService: checkoutService,
		logger:          logger,
	}
}

// RegisterRoutes registers all cart routes
func (h *CartHandler) RegisterRoutes(r chi.Router, guards Guards) {
	r.Route("/api/cart", func(r chi.Router) {
		r.Use(guards.Auth)
		r.Post("/add", h.Add)
		r.Get("/", h.List)
		r.Delete("/remove/{bookId}", h.Remove)
		r.Post("/buy", h.Buy)
	})
}

func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req AddToCartRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	if _, err := h.cartService.Add(r.Context(), userID, service.AddToCartInput{
		BookID:   req.BookID,
		Quantity: req.Quantity,
	}); err != nil {
		respondWithServiceError(w, h.logger, err, "failed to add book to cart")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "book added to cart"})
}

func (h *CartHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	items, err := h.cartService.List(r.Context(), userID)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to get cart")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, items)
}

// Remove deletes a single line for the book from the caller's cart
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.cartService.Remove(r.Context(), userID, chi.URLParam(r, "bookId")); err != nil {
		respondWithServiceError(w, h.logger, err, "failed to remove book from cart")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "book removed from cart"})
}

// Buy checks out the caller's whole cart
func (h *CartHandler) Buy(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	key := strings.TrimSpace(r.Header.Get(IdempotencyKeyHeader))
	if len(key) > 255 {
		middleware.RespondWithError(w, http.StatusBadRequest, "idempotency key too long")
		return
	}

	result, err := h.checkoutService.Checkout(r.Context(), userID, key)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to complete purchase")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, CheckoutResponse{
		Message:    "purchase successful",
		CheckoutID: result.CheckoutID.String(),
		ItemCount:  result.ItemCount,
		Total:      result.Total,
	})
}
