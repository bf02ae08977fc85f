package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderRecord is an immutable ledger entry for one purchased cart line
type OrderRecord struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	CheckoutID uuid.UUID       `json:"checkoutId" db:"checkout_id"`
	UserID     uuid.UUID       `json:"userId" db:"user_id"`
	BookID     string          `json:"bookId" db:"book_id"`
	BookName   string          `json:"bookName" db:"book_name"`
	Price      decimal.Decimal `json:"price" db:"price"`
	Quantity   int             `json:"quantity" db:"quantity"`
	LineNo     int             `json:"-" db:"line_no"`
	Image      string          `json:"image" db:"image"`
	OrderedAt  time.Time       `json:"date" db:"ordered_at"`
}

// Checkout groups the order records written by a single purchase
type Checkout struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	UserID         uuid.UUID       `json:"userId" db:"user_id"`
	IdempotencyKey string          `json:"-" db:"idempotency_key"`
	ItemCount      int             `json:"itemCount" db:"item_count"`
	Total          decimal.Decimal `json:"total" db:"total"`
	CreatedAt      time.Time       `json:"createdAt" db:"created_at"`
}
