package transport

import (
	"errors"
	"net/http"

	"github.com/Yaswanth0403/BookHaven/internal/middleware"
	"github.com/Yaswanth0403/BookHaven/internal/repository"
	"github.com/Yaswanth0403/BookHaven/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Guards are the middlewares handlers attach to their protected routes
type Guards struct {
	Auth      func(http.Handler) http.Handler
	Admin     func(http.Handler) http.Handler
	RateLimit func(http.Handler) http.Handler
}

func (g Guards) rateLimited(r chi.Router) chi.Router {
	if g.RateLimit == nil {
		return r
	}
	return r.With(g.RateLimit)
}

// statusFor maps domain errors to what clients see
var statusFor = []struct {
	err     error
	status  int
	code    string
	message string
}{
	{repository.ErrUserAlreadyExists, http.StatusConflict, "email_taken", "user with this email already exists"},
	{repository.ErrUserNotFound, http.StatusNotFound, "user_not_found", "user not found"},
	{repository.ErrBookAlreadyExists, http.StatusConflict, "book_exists", "book with this id already exists"},
	{repository.ErrBookNotFound, http.StatusNotFound, "book_not_found", "book not found"},
	{repository.ErrCartItemNotFound, http.StatusNotFound, "cart_item_not_found", "book not found in cart"},
	{service.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials", "invalid email or password"},
	{service.ErrInvalidToken, http.StatusUnauthorized, "invalid_token", "invalid refresh token"},
	{service.ErrTokenExpired, http.StatusUnauthorized, "token_expired", "refresh token expired"},
	{service.ErrUnknownCategory, http.StatusBadRequest, "unknown_category", "unknown book category"},
	{service.ErrInvalidQuantity, http.StatusBadRequest, "invalid_quantity", "invalid quantity"},
	{service.ErrInvalidPrice, http.StatusBadRequest, "invalid_price", "invalid price"},
	{service.ErrEmptyCart, http.StatusBadRequest, "empty_cart", "cart is empty"},
	{service.ErrInsufficientStock, http.StatusConflict, "insufficient_stock", "insufficient stock"},
}

// respondWithServiceError writes the client-facing form of err. Errors that
// are not part of the domain are logged and reported as fallback.
func respondWithServiceError(w http.ResponseWriter, logger *zap.Logger, err error, fallback string) {
	for _, m := range statusFor {
		if errors.Is(err, m.err) {
			middleware.RespondWithErrorCode(w, m.status, m.code, m.message)
			return
		}
	}

	logger.Error(fallback, zap.Error(err))
	middleware.RespondWithErrorCode(w, http.StatusInternalServerError, middleware.CodeInternal, fallback)
}

// decodeRequest decodes and validates the JSON body into v. It writes the
// 400 response itself and reports false when the body is unusable.
func decodeRequest(w http.ResponseWriter, r *http.Request, logger *zap.Logger, v interface{}) bool {
	err := middleware.DecodeAndValidate(w, r, v)
	if err == nil {
		return true
	}

	logger.Debug("Request validation failed", zap.String("path", r.URL.Path), zap.Error(err))
	if middleware.IsValidationError(err) {
		middleware.RespondWithValidationErrors(w, middleware.FormatValidationErrors(err))
		return false
	}

	middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
	return false
}
