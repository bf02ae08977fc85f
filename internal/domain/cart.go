package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartItem is one pending line in a user's cart. Name, price and image are
// copied from the catalog when the item is added.
type CartItem struct {
	ID       uuid.UUID       `json:"id" db:"id"`
	UserID   uuid.UUID       `json:"userId" db:"user_id"`
	BookID   string          `json:"bookId" db:"book_id"`
	BookName string          `json:"bookName" db:"book_name"`
	Price    decimal.Decimal `json:"price" db:"price"`
	Quantity int             `json:"quantity" db:"quantity"`
	Image    string          `json:"image" db:"image"`
	AddedAt  time.Time       `json:"addedAt" db:"added_at"`
}

// Subtotal returns price * quantity
func (c *CartItem) Subtotal() decimal.Decimal {
	return c.Price.Mul(decimal.NewFromInt(int64(c.Quantity)))
}
