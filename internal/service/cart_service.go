package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Yaswanth0403/BookHaven/internal/domain"
	"github.com/Yaswanth0403/BookHaven/internal/repository"

	"github.com/google/uuid"
)

// AddToCartInput is a cart line as submitted by the client
type AddToCartInput struct {
	BookID   string
	Quantity int
}

// CartService defines the interface for cart business logic
type CartService interface {
	Add(ctx context.Context, userID uuid.UUID, input AddToCartInput) (*domain.CartItem, error)
	List(ctx context.Context, userID uuid.UUID) ([]*domain.CartItem, error)
	Remove(ctx context.Context, userID uuid.UUID, bookID string) error
}

type cartService struct {
	cartRepo repository.CartRepository
	bookRepo repository.BookRepository
}

// NewCartService creates a new instance of CartService
func NewCartService(cartRepo repository.CartRepository, bookRepo repository.BookRepository) CartService {
	return &cartService{
		cartRepo: cartRepo,
		bookRepo: bookRepo,
	}
}

// Add appends a new line to the user's cart. Name, price and image are
// taken from the catalog, never from the client. Adding a book already in
// the cart creates a second, independent line.
func (s *cartService) Add(ctx context.Context, userID uuid.UUID, input AddToCartInput) (*domain.CartItem, error) {
	if input.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	book, err := s.bookRepo.FindByBookID(ctx, input.BookID)
	if err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to look up book: %w", err)
	}

	item := &domain.CartItem{
		ID:       uuid.New(),
		UserID:   userID,
		BookID:   book.BookID,
		BookName: book.Name,
		Price:    book.Price,
		Quantity: input.Quantity,
		Image:    book.Image,
		AddedAt:  time.Now().UTC(),
	}

	if err := s.cartRepo.Add(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to add item to cart: %w", err)
	}

	return item, nil
}

func (s *cartService) List(ctx context.Context, userID uuid.UUID) ([]*domain.CartItem, error) {
	items, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart: %w", err)
	}
	return items, nil
}

// Remove deletes one line for bookID from the user's cart
func (s *cartService) Remove(ctx context.Context, userID uuid.UUID, bookID string) error {
	if err := s.cartRepo.Remove(ctx, userID, bookID); err != nil {
		if errors.Is(err, repository.ErrCartItemNotFound) {
			return err
		}
		return fmt.Errorf("failed to remove cart item: %w", err)
	}
	return nil
}
