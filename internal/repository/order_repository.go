package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Yaswanth0403/BookHaven/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrCheckoutNotFound      = errors.New("checkout not found")
	ErrCheckoutAlreadyExists = errors.New("checkout with this idempotency key already exists")
)

// OrderRepository is the append-only order ledger. There is deliberately no
// update or delete.
type OrderRepository interface {
	AppendBatch(ctx context.Context, records []*domain.OrderRecord) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.OrderRecord, error)
	ListByCheckout(ctx context.Context, checkoutID uuid.UUID) ([]*domain.OrderRecord, error)
	CreateCheckout(ctx context.Context, checkout *domain.Checkout) error
	FindCheckoutByKey(ctx context.Context, userID uuid.UUID, key string) (*domain.Checkout, error)
}

type orderRepository struct {
	db DBTX
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(db DBTX) OrderRepository {
	return &orderRepository{db: db}
}

// orderColumnCount must match the column list used by AppendBatch
const orderColumnCount = 10

// AppendBatch inserts all records with a single multi-row INSERT
func (r *orderRepository) AppendBatch(ctx context.Context, records []*domain.OrderRecord) error {
	if len(records) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO orders (id, checkout_id, user_id, book_id, book_name, price, quantity, line_no, image, ordered_at) VALUES `)

	args := make([]any, 0, len(records)*orderColumnCount)
	for i, rec := range records {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * orderColumnCount
		sb.WriteString("(")
		for c := 1; c <= orderColumnCount; c++ {
			if c > 1 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "$%d", base+c)
		}
		sb.WriteString(")")

		args = append(args,
			rec.ID,
			rec.CheckoutID,
			rec.UserID,
			rec.BookID,
			rec.BookName,
			rec.Price,
			rec.Quantity,
			rec.LineNo,
			nullString(rec.Image),
			rec.OrderedAt,
		)
	}

	if _, err := r.db.ExecContext(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("failed to append %d order records: %w", len(records), err)
	}

	return nil
}

// ListByUser retrieves a user's ledger oldest first. Records of one checkout
// keep their cart order.
func (r *orderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.OrderRecord, error) {
	return r.list(ctx, `
		SELECT id, checkout_id, user_id, book_id, book_name, price, quantity, line_no, COALESCE(image, ''), ordered_at
		FROM orders
		WHERE user_id = $1
		ORDER BY ordered_at ASC, checkout_id ASC, line_no ASC
	`, userID)
}

// ListByCheckout retrieves the records written by one checkout
func (r *orderRepository) ListByCheckout(ctx context.Context, checkoutID uuid.UUID) ([]*domain.OrderRecord, error) {
	return r.list(ctx, `
		SELECT id, checkout_id, user_id, book_id, book_name, price, quantity, line_no, COALESCE(image, ''), ordered_at
		FROM orders
		WHERE checkout_id = $1
		ORDER BY line_no ASC
	`, checkoutID)
}

func (r *orderRepository) list(ctx context.Context, query string, arg uuid.UUID) ([]*domain.OrderRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	records := []*domain.OrderRecord{}
	for rows.Next() {
		rec := &domain.OrderRecord{}
		err := rows.Scan(
			&rec.ID,
			&rec.CheckoutID,
			&rec.UserID,
			&rec.BookID,
			&rec.BookName,
			&rec.Price,
			&rec.Quantity,
			&rec.LineNo,
			&rec.Image,
			&rec.OrderedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		records = append(records, rec)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return records, nil
}

// CreateCheckout records the header of a purchase
func (r *orderRepository) CreateCheckout(ctx context.Context, checkout *domain.Checkout) error {
	query := `
		INSERT INTO checkouts (id, user_id, idempotency_key, item_count, total, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		checkout.ID,
		checkout.UserID,
		nullString(checkout.IdempotencyKey),
		checkout.ItemCount,
		checkout.Total,
		checkout.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "uq_checkouts_user_key") {
			return ErrCheckoutAlreadyExists
		}
		return fmt.Errorf("failed to create checkout: %w", err)
	}

	return nil
}

// FindCheckoutByKey looks up a previous checkout by its idempotency key
func (r *orderRepository) FindCheckoutByKey(ctx context.Context, userID uuid.UUID, key string) (*domain.Checkout, error) {
	query := `
		SELECT id, user_id, COALESCE(idempotency_key, ''), item_count, total, created_at
		FROM checkouts
		WHERE user_id = $1 AND idempotency_key = $2
	`

	checkout := &domain.Checkout{}
	err := r.db.QueryRowContext(ctx, query, userID, key).Scan(
		&checkout.ID,
		&checkout.UserID,
		&checkout.IdempotencyKey,
		&checkout.ItemCount,
		&checkout.Total,
		&checkout.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCheckoutNotFound
		}
		return nil, fmt.Errorf("failed to find checkout: %w", err)
	}

	return checkout, nil
}
