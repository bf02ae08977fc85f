package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category is the fixed tag a book is shelved under
type Category string

const (
	CategoryInspiration Category = "inspiration"
	CategoryAdventure   Category = "adventure"
	CategoryFantasy     Category = "fantasy"
	CategorySuspense    Category = "suspense"
)

// Categories lists every valid category in display order
var Categories = []Category{
	CategoryInspiration,
	CategoryAdventure,
	CategoryFantasy,
	CategorySuspense,
}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Book represents a book in the catalog
type Book struct {
	BookID      string          `json:"bookId" db:"book_id"`
	Name        string          `json:"bookName" db:"name"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Description string          `json:"description" db:"description"`
	Author      string          `json:"authorName" db:"author"`
	Quantity    int             `json:"quantity" db:"quantity"`
	Image       string          `json:"image" db:"image"`
	Category    Category        `json:"bookType" db:"category"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}
