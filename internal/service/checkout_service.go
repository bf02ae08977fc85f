package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Yaswanth0403/BookHaven/internal/domain"
	"github.com/Yaswanth0403/BookHaven/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInsufficientStock = errors.New("insufficient stock")
)

var tracer = otel.Tracer("github.com/Yaswanth0403/BookHaven/internal/service")

// CheckoutResult confirms a purchase
type CheckoutResult struct {
	CheckoutID uuid.UUID
	ItemCount  int
	Total      decimal.Decimal
	Records    []*domain.OrderRecord
	// Replayed is set when the result belongs to an earlier checkout with the
	// same idempotency key
	Replayed bool
}

// CheckoutService turns a user's cart into orders
type CheckoutService interface {
	Checkout(ctx context.Context, userID uuid.UUID, idempotencyKey string) (*CheckoutResult, error)
}

// CheckoutOptions tunes the checkout policy
type CheckoutOptions struct {
	AllowOversell bool
}

type checkoutService struct {
	tx     repository.TxManager
	opts   CheckoutOptions
	logger *zap.Logger
	now    func() time.Time
}

// NewCheckoutService creates a new instance of CheckoutService
func NewCheckoutService(tx repository.TxManager, opts CheckoutOptions, logger *zap.Logger) CheckoutService {
	return &checkoutService{
		tx:     tx,
		opts:   opts,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Checkout moves every cart line of the user into the order ledger and
// decrements stock in one transaction. Nothing is written when any step fails.
func (s *checkoutService) Checkout(ctx context.Context, userID uuid.UUID, idempotencyKey string) (*CheckoutResult, error) {
	ctx, span := tracer.Start(ctx, "checkout",
		trace.WithAttributes(
			attribute.String("user.id", userID.String()),
			attribute.Bool("checkout.idempotent", idempotencyKey != ""),
		),
	)
	defer span.End()

	var result *CheckoutResult
	err := s.tx.WithTx(ctx, func(repos repository.Repositories) error {
		var err error
		result, err = s.run(ctx, repos, userID, idempotencyKey)
		return err
	})

	// A concurrent request with the same key won the race; hand back its result
	if errors.Is(err, repository.ErrCheckoutAlreadyExists) {
		err = s.tx.WithTx(ctx, func(repos repository.Repositories) error {
			var err error
			result, err = s.replay(ctx, repos, userID, idempotencyKey)
			return err
		})
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, ErrEmptyCart) || errors.Is(err, ErrInsufficientStock) {
			return nil, err
		}
		return nil, fmt.Errorf("checkout failed: %w", err)
	}

	span.SetAttributes(
		attribute.String("checkout.id", result.CheckoutID.String()),
		attribute.Int("checkout.items", result.ItemCount),
		attribute.Bool("checkout.replayed", result.Replayed),
	)

	s.logger.Info("Checkout completed",
		zap.String("user_id", userID.String()),
		zap.String("checkout_id", result.CheckoutID.String()),
		zap.Int("item_count", result.ItemCount),
		zap.String("total", result.Total.StringFixed(2)),
		zap.Bool("replayed", result.Replayed),
	)

	return result, nil
}

func (s *checkoutService) run(ctx context.Context, repos repository.Repositories, userID uuid.UUID, key string) (*CheckoutResult, error) {
	// Locking the cart first serializes concurrent checkouts of the same user
	items, err := repos.Cart.ListByUserForUpdate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if key != "" {
		result, err := s.replay(ctx, repos, userID, key)
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, repository.ErrCheckoutNotFound) {
			return nil, err
		}
	}

	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	now := s.now()
	checkout := &domain.Checkout{
		ID:             uuid.New(),
		UserID:         userID,
		IdempotencyKey: key,
		ItemCount:      len(items),
		Total:          decimal.Zero,
		CreatedAt:      now,
	}

	records := make([]*domain.OrderRecord, 0, len(items))
	for i, item := range items {
		checkout.Total = checkout.Total.Add(item.Subtotal())
		records = append(records, &domain.OrderRecord{
			ID:         uuid.New(),
			CheckoutID: checkout.ID,
			UserID:     userID,
			BookID:     item.BookID,
			BookName:   item.BookName,
			Price:      item.Price,
			Quantity:   item.Quantity,
			LineNo:     i,
			Image:      item.Image,
			OrderedAt:  now,
		})
	}

	if err := repos.Orders.CreateCheckout(ctx, checkout); err != nil {
		return nil, err
	}
	if err := repos.Orders.AppendBatch(ctx, records); err != nil {
		return nil, err
	}
	if err := s.decrementStock(ctx, repos.Books, items); err != nil {
		return nil, err
	}
	// only the locked lines were bought; anything added since stays in the cart
	purchased := make([]uuid.UUID, len(items))
	for i, item := range items {
		purchased[i] = item.ID
	}
	if _, err := repos.Cart.DeleteByIDs(ctx, userID, purchased); err != nil {
		return nil, err
	}

	return &CheckoutResult{
		CheckoutID: checkout.ID,
		ItemCount:  checkout.ItemCount,
		Total:      checkout.Total,
		Records:    records,
	}, nil
}

// decrementStock applies the cart quantities in book_id order so that
// concurrent checkouts lock book rows in the same order
func (s *checkoutService) decrementStock(ctx context.Context, books repository.BookRepository, items []*domain.CartItem) error {
	sorted := make([]*domain.CartItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].BookID < sorted[j].BookID
	})

	for _, item := range sorted {
		remaining, found, err := books.DecrementQuantity(ctx, item.BookID, item.Quantity)
		if err != nil {
			return err
		}
		if !found {
			s.logger.Warn("Checked out book is missing from the catalog",
				zap.String("book_id", item.BookID),
			)
			continue
		}
		if remaining < 0 && !s.opts.AllowOversell {
			return fmt.Errorf("%w: book %s is short by %d", ErrInsufficientStock, item.BookID, -remaining)
		}
	}
	return nil
}

func (s *checkoutService) replay(ctx context.Context, repos repository.Repositories, userID uuid.UUID, key string) (*CheckoutResult, error) {
	checkout, err := repos.Orders.FindCheckoutByKey(ctx, userID, key)
	if err != nil {
		return nil, err
	}

	records, err := repos.Orders.ListByCheckout(ctx, checkout.ID)
	if err != nil {
		return nil, err
	}

	return &CheckoutResult{
		CheckoutID: checkout.ID,
		ItemCount:  checkout.ItemCount,
		Total:      checkout.Total,
		Records:    records,
		Replayed:   true,
	}, nil
}
