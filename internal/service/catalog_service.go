package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Yaswanth0403/BookHaven/internal/domain"
	"github.com/Yaswanth0403/BookHaven/internal/repository"

	"github.com/shopspring/decimal"
)

var (
	ErrUnknownCategory = errors.New("unknown book category")
	ErrInvalidQuantity = errors.New("quantity must not be negative")
	ErrInvalidPrice    = errors.New("price must not be negative")
)

// CreateBookInput carries the attributes of a new catalog entry
type CreateBookInput struct {
	BookID      string
	Name        string
	Price       decimal.Decimal
	Description string
	Author      string
	Quantity    int
	Image       string
	Category    string
}

// CatalogService defines the interface for catalog business logic
type CatalogService interface {
	ListBooks(ctx context.Context) ([]*domain.Book, error)
	ListByCategory(ctx context.Context, category string) ([]*domain.Book, error)
	GetBook(ctx context.Context, bookID string) (*domain.Book, error)
	CreateBook(ctx context.Context, input CreateBookInput) (*domain.Book, error)
	UpdateQuantity(ctx context.Context, bookID string, quantity int) (*domain.Book, error)
}

type catalogService struct {
	bookRepo repository.BookRepository
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(bookRepo repository.BookRepository) CatalogService {
	return &catalogService{bookRepo: bookRepo}
}

func (s *catalogService) ListBooks(ctx context.Context) ([]*domain.Book, error) {
	books, err := s.bookRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	return books, nil
}

// ListByCategory lists the books of one of the fixed categories. The category
// name is matched case-insensitively.
func (s *catalogService) ListByCategory(ctx context.Context, category string) ([]*domain.Book, error) {
	c, err := ParseCategory(category)
	if err != nil {
		return nil, err
	}

	books, err := s.bookRepo.ListByCategory(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("failed to list books by category: %w", err)
	}
	return books, nil
}

func (s *catalogService) GetBook(ctx context.Context, bookID string) (*domain.Book, error) {
	book, err := s.bookRepo.FindByBookID(ctx, bookID)
	if err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get book: %w", err)
	}
	return book, nil
}

func (s *catalogService) CreateBook(ctx context.Context, input CreateBookInput) (*domain.Book, error) {
	category, err := ParseCategory(input.Category)
	if err != nil {
		return nil, err
	}
	if input.Price.IsNegative() {
		return nil, ErrInvalidPrice
	}
	if input.Quantity < 0 {
		return nil, ErrInvalidQuantity
	}

	now := time.Now()
	book := &domain.Book{
		BookID:      input.BookID,
		Name:        input.Name,
		Price:       input.Price,
		Description: input.Description,
		Author:      input.Author,
		Quantity:    input.Quantity,
		Image:       input.Image,
		Category:    category,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.bookRepo.Create(ctx, book); err != nil {
		if errors.Is(err, repository.ErrBookAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	return book, nil
}

// UpdateQuantity sets the stock level of a book
func (s *catalogService) UpdateQuantity(ctx context.Context, bookID string, quantity int) (*domain.Book, error) {
	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}

	book, err := s.bookRepo.UpdateQuantity(ctx, bookID, quantity)
	if err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update book quantity: %w", err)
	}
	return book, nil
}

// ParseCategory maps a category name onto one of the fixed categories
func ParseCategory(name string) (domain.Category, error) {
	c := domain.Category(strings.ToLower(strings.TrimSpace(name)))
	if !c.Valid() {
		return "", ErrUnknownCategory
	}
	return c, nil
}
