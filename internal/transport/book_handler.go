package transport

import (
	"net/http"

	"github.com/Yaswanth0403/BookHaven/internal/middleware"
	"github.com/Yaswanth0403/BookHaven/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateBookRequest represents a new catalog entry
type CreateBookRequest struct {
	BookID      string          `json:"bookId" validate:"required,max=64"`
	Name        string          `json:"bookName" validate:"required,max=255"`
	Price       decimal.Decimal `json:"price" validate:"decimal_gte0"`
	Description string          `json:"description"`
	Author      string          `json:"authorName" validate:"max=255"`
	Quantity    int             `json:"quantity" validate:"gte=0"`
	Image       string          `json:"image" validate:"max=512"`
	Category    string          `json:"bookType" validate:"required"`
}

// UpdateQuantityRequest sets the stock of a book
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required,gte=0"`
}

// BookHandler serves the catalog
type BookHandler struct {
	catalogService service.CatalogService
	logger         *zap.Logger
}

// NewBookHandler creates a new BookHandler
func NewBookHandler(catalogService service.CatalogService, logger *zap.Logger) *BookHandler {
	return &BookHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// RegisterRoutes registers all catalog routes
func (h *BookHandler) RegisterRoutes(r chi.Router, guards Guards) {
	r.Get("/books", h.ListBooks)
	r.Get("/api/books", h.ListBooks)
	r.Get("/api/books/id/{bookId}", h.GetBook)
	r.Get("/api/books/{category}", h.ListByCategory)

	r.Group(func(r chi.Router) {
		r.Use(guards.Auth, guards.Admin)
		r.Post("/books/add", h.CreateBook)
		r.Put("/books/update/{id}", h.UpdateQuantity)
	})
}

func (h *BookHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.catalogService.ListBooks(r.Context())
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to list books")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, books)
}

// ListByCategory lists the books of one category; unknown categories are a 400
func (h *BookHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	books, err := h.catalogService.ListByCategory(r.Context(), chi.URLParam(r, "category"))
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to list books")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, books)
}

func (h *BookHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	book, err := h.catalogService.GetBook(r.Context(), chi.URLParam(r, "bookId"))
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to get book")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, book)
}

// CreateBook adds a book to the catalog
func (h *BookHandler) CreateBook(w http.ResponseWriter, r *http.Request) {
	var req CreateBookRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	book, err := h.catalogService.CreateBook(r.Context(), service.CreateBookInput{
		BookID:      req.BookID,
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Author:      req.Author,
		Quantity:    req.Quantity,
		Image:       req.Image,
		Category:    req.Category,
	})
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to create book")
		return
	}

	h.logger.Info("Book created", zap.String("book_id", book.BookID))
	middleware.RespondWithJSON(w, http.StatusCreated, book)
}

// UpdateQuantity sets the stock level of a book
func (h *BookHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req UpdateQuantityRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	book, err := h.catalogService.UpdateQuantity(r.Context(), chi.URLParam(r, "id"), *req.Quantity)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to update book")
		return
	}

	h.logger.Info("Book quantity updated",
		zap.String("book_id", book.BookID),
		zap.Int("quantity", book.Quantity),
	)
	middleware.RespondWithJSON(w, http.StatusOK, book)
}
