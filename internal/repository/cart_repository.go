package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Yaswanth0403/BookHaven/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrCartItemNotFound = errors.New("book not found in cart")
)

// CartRepository defines the interface for cart data access
type CartRepository interface {
	// Add always inserts a new row; identical items are never merged
	Add(ctx context.Context, item *domain.CartItem) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.CartItem, error)
	// ListByUserForUpdate locks the returned rows until the enclosing
	// transaction ends
	ListByUserForUpdate(ctx context.Context, userID uuid.UUID) ([]*domain.CartItem, error)
	Remove(ctx context.Context, userID uuid.UUID, bookID string) error
	// DeleteByIDs removes exactly the listed lines of a user. Lines added
	// after they were read are left alone.
	DeleteByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error)
}

type cartRepository struct {
	db DBTX
}

// NewCartRepository creates a new instance of CartRepository
func NewCartRepository(db DBTX) CartRepository {
	return &cartRepository{db: db}
}

// Add inserts a cart line for the item's owner
func (r *cartRepository) Add(ctx context.Context, item *domain.CartItem) error {
	query := `
		INSERT INTO cart_items (id, user_id, book_id, book_name, price, quantity, image, added_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		item.ID,
		item.UserID,
		item.BookID,
		item.BookName,
		item.Price,
		item.Quantity,
		nullString(item.Image),
		item.AddedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to add cart item: %w", err)
	}

	return nil
}

// ListByUser retrieves a user's cart lines in the order they were added
func (r *cartRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.CartItem, error) {
	return r.list(ctx, `
		SELECT id, user_id, book_id, book_name, price, quantity, COALESCE(image, ''), added_at
		FROM cart_items
		WHERE user_id = $1
		ORDER BY added_at ASC, id ASC
	`, userID)
}

func (r *cartRepository) ListByUserForUpdate(ctx context.Context, userID uuid.UUID) ([]*domain.CartItem, error) {
	return r.list(ctx, `
		SELECT id, user_id, book_id, book_name, price, quantity, COALESCE(image, ''), added_at
		FROM cart_items
		WHERE user_id = $1
		ORDER BY added_at ASC, id ASC
		FOR UPDATE
	`, userID)
}

func (r *cartRepository) list(ctx context.Context, query string, userID uuid.UUID) ([]*domain.CartItem, error) {
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}
	defer rows.Close()

	items := []*domain.CartItem{}
	for rows.Next() {
		item := &domain.CartItem{}
		err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.BookID,
			&item.BookName,
			&item.Price,
			&item.Quantity,
			&item.Image,
			&item.AddedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return items, nil
}

// Remove deletes the oldest cart line matching (userID, bookID)
func (r *cartRepository) Remove(ctx context.Context, userID uuid.UUID, bookID string) error {
	query := `
		DELETE FROM cart_items
		WHERE id = (
			SELECT id FROM cart_items
			WHERE user_id = $1 AND book_id = $2
			ORDER BY added_at ASC, id ASC
			LIMIT 1
		)
	`

	result, err := r.db.ExecContext(ctx, query, userID, bookID)
	if err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrCartItemNotFound
	}

	return nil
}

// DeleteByIDs deletes the given cart lines of a user. Missing ids are skipped.
func (r *cartRepository) DeleteByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = id.String()
	}

	result, err := r.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE user_id = $1 AND id = ANY($2::uuid[])`,
		userID, keys,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete cart items: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}
