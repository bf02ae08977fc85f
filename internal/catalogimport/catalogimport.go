// Package catalogimport loads books from a YAML seed file into the catalog.
package catalogimport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Yaswanth0403/BookHaven/internal/domain"
	"github.com/Yaswanth0403/BookHaven/internal/repository"
	"github.com/Yaswanth0403/BookHaven/internal/service"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var ErrNoBooks = errors.New("seed file contains no books")

// Entry is one book in a seed file
type Entry struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Author      string `yaml:"author"`
	Description string `yaml:"description"`
	Price       string `yaml:"price"`
	Quantity    int    `yaml:"quantity"`
	Image       string `yaml:"image"`
	Category    string `yaml:"category"`
}

type file struct {
	Books []Entry `yaml:"books"`
}

// Parse reads a seed file. Every entry is checked before anything is
// returned, so a bad file yields no books at all.
func Parse(r io.Reader) ([]*domain.Book, error) {
	var f file
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoBooks
		}
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	if len(f.Books) == 0 {
		return nil, ErrNoBooks
	}

	now := time.Now().UTC()
	seen := make(map[string]bool, len(f.Books))
	books := make([]*domain.Book, 0, len(f.Books))

	for i, e := range f.Books {
		book, err := e.toBook(now)
		if err != nil {
			return nil, fmt.Errorf("book %d (%q): %w", i+1, e.ID, err)
		}
		if seen[book.BookID] {
			return nil, fmt.Errorf("book %d: duplicate id %q", i+1, book.BookID)
		}
		seen[book.BookID] = true
		books = append(books, book)
	}

	return books, nil
}

func (e Entry) toBook(now time.Time) (*domain.Book, error) {
	id := strings.TrimSpace(e.ID)
	if id == "" {
		return nil, errors.New("id is required")
	}
	if strings.TrimSpace(e.Name) == "" {
		return nil, errors.New("name is required")
	}

	price, err := decimal.NewFromString(e.Price)
	if err != nil {
		return nil, fmt.Errorf("invalid price %q: %w", e.Price, err)
	}
	if price.IsNegative() {
		return nil, service.ErrInvalidPrice
	}
	if e.Quantity < 0 {
		return nil, service.ErrInvalidQuantity
	}

	category, err := service.ParseCategory(e.Category)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, e.Category)
	}

	return &domain.Book{
		BookID:      id,
		Name:        strings.TrimSpace(e.Name),
		Price:       price,
		Description: e.Description,
		Author:      e.Author,
		Quantity:    e.Quantity,
		Image:       e.Image,
		Category:    category,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Import parses r and upserts every book into the catalog. Existing books
// with the same id are overwritten, stock included.
func Import(ctx context.Context, books repository.BookRepository, r io.Reader, logger *zap.Logger) (int, error) {
	parsed, err := Parse(r)
	if err != nil {
		return 0, err
	}

	for i, book := range parsed {
		if err := books.Upsert(ctx, book); err != nil {
			return i, err
		}
		logger.Debug("Imported book",
			zap.String("book_id", book.BookID),
			zap.String("category", string(book.Category)),
			zap.Int("quantity", book.Quantity),
		)
	}

	logger.Info("Catalog import finished", zap.Int("books", len(parsed)))
	return len(parsed), nil
}
