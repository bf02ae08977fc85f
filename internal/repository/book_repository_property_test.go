package repository

import (
	"context"
	"testing"
	"time"

	"github.com/Yaswanth0403/BookHaven/internal/domain"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
)

func newTestBook(category domain.Category, quantity int) *domain.Book {
	return &domain.Book{
		BookID:      "B-" + uuid.NewString()[:8],
		Name:        "Test Book",
		Price:       decimal.RequireFromString("12.50"),
		Description: "A book used in tests",
		Author:      "Test Author",
		Quantity:    quantity,
		Image:       "http://example.com/cover.jpg",
		Category:    category,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
}

func TestProperty_BookCreationPreservesAttributes(t *testing.T) {
	bookRepo := NewBookRepository(testDB)

	properties := gopter.NewProperties(nil)

	properties.Property("creating and retrieving a book preserves all attributes", prop.ForAll(
		func(name string, description string, cents int64, quantity int, category string) bool {
			ctx := context.Background()

			book := newTestBook(domain.Category(category), quantity)
			book.Name = name
			book.Description = description
			book.Price = decimal.New(cents, -2)

			if err := bookRepo.Create(ctx, book); err != nil {
				t.Logf("FAIL: Failed to create book: %v", err)
				return false
			}

			retrieved, err := bookRepo.FindByBookID(ctx, book.BookID)
			if err != nil {
				t.Logf("FAIL: Failed to retrieve book: %v", err)
				return false
			}

			if retrieved.Name != book.Name || retrieved.Description != book.Description {
				t.Logf("FAIL: Text mismatch. Expected %+v, got %+v", book, retrieved)
				return false
			}

			if !retrieved.Price.Equal(book.Price) {
				t.Logf("FAIL: Price mismatch. Expected %s, got %s", book.Price, retrieved.Price)
				return false
			}

			if retrieved.Quantity != book.Quantity || retrieved.Category != book.Category {
				t.Logf("FAIL: Quantity/category mismatch. Expected %d/%s, got %d/%s",
					book.Quantity, book.Category, retrieved.Quantity, retrieved.Category)
				return false
			}

			_, _ = testDB.Exec("DELETE FROM books WHERE book_id = $1", book.BookID)

			return true
		},
		gen.RegexMatch(`[A-Za-z0-9 ]{3,50}`),
		gen.RegexMatch(`[A-Za-z0-9 .,!?]{10,200}`),
		gen.Int64Range(0, 999999),
		gen.IntRange(0, 1000),
		gen.OneConstOf("inspiration", "adventure", "fantasy", "suspense"),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_DecrementSubtractsExactly(t *testing.T) {
	bookRepo := NewBookRepository(testDB)

	properties := gopter.NewProperties(nil)

	properties.Property("decrement lowers quantity by exactly the amount, without a floor", prop.ForAll(
		func(stock int, amount int) bool {
			ctx := context.Background()

			book := newTestBook(domain.CategoryFantasy, stock)
			if err := bookRepo.Create(ctx, book); err != nil {
				t.Logf("FAIL: Failed to create book: %v", err)
				return false
			}
			defer testDB.Exec("DELETE FROM books WHERE book_id = $1", book.BookID)

			remaining, found, err := bookRepo.DecrementQuantity(ctx, book.BookID, amount)
			if err != nil || !found {
				t.Logf("FAIL: Decrement failed: found=%v err=%v", found, err)
				return false
			}

			if remaining != stock-amount {
				t.Logf("FAIL: Expected %d remaining, got %d", stock-amount, remaining)
				return false
			}

			stored, err := bookRepo.FindByBookID(ctx, book.BookID)
			if err != nil {
				return false
			}
			return stored.Quantity == stock-amount
		},
		gen.IntRange(0, 50),
		gen.IntRange(1, 100),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestBookRepository_DecrementMissingBookIsNoop(t *testing.T) {
	remaining, found, err := NewBookRepository(testDB).DecrementQuantity(context.Background(), "does-not-exist", 3)
	if err != nil {
		t.Fatalf("Expected no error for a missing book, got %v", err)
	}
	if found || remaining != 0 {
		t.Errorf("Expected found=false remaining=0, got found=%v remaining=%d", found, remaining)
	}
}

func TestBookRepository_ListByCategory(t *testing.T) {
	ctx := context.Background()
	if err := testPG.Truncate(ctx); err != nil {
		t.Fatalf("Failed to truncate: %v", err)
	}
	bookRepo := NewBookRepository(testDB)

	empty, err := bookRepo.ListByCategory(ctx, domain.CategorySuspense)
	if err != nil {
		t.Fatalf("Listing an empty category should not fail: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Fatalf("Expected an empty, non-nil slice, got %v", empty)
	}

	for _, c := range []domain.Category{domain.CategoryAdventure, domain.CategoryAdventure, domain.CategoryFantasy} {
		if err := bookRepo.Create(ctx, newTestBook(c, 1)); err != nil {
			t.Fatalf("Failed to create book: %v", err)
		}
	}

	adventure, err := bookRepo.ListByCategory(ctx, domain.CategoryAdventure)
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	if len(adventure) != 2 {
		t.Errorf("Expected 2 adventure books, got %d", len(adventure))
	}

	all, err := bookRepo.List(ctx)
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("Expected 3 books, got %d", len(all))
	}
}

func TestBookRepository_UpdateQuantity(t *testing.T) {
	ctx := context.Background()
	bookRepo := NewBookRepository(testDB)

	book := newTestBook(domain.CategoryInspiration, 4)
	if err := bookRepo.Create(ctx, book); err != nil {
		t.Fatalf("Failed to create book: %v", err)
	}

	updated, err := bookRepo.UpdateQuantity(ctx, book.BookID, 42)
	if err != nil {
		t.Fatalf("Failed to update quantity: %v", err)
	}
	if updated.Quantity != 42 || updated.Name != book.Name {
		t.Errorf("Unexpected updated book: %+v", updated)
	}

	if _, err := bookRepo.UpdateQuantity(ctx, "missing", 1); err != ErrBookNotFound {
		t.Errorf("Expected ErrBookNotFound, got %v", err)
	}

	if err := bookRepo.Create(ctx, book); err != ErrBookAlreadyExists {
		t.Errorf("Expected ErrBookAlreadyExists, got %v", err)
	}
}

func TestBookRepository_Upsert(t *testing.T) {
	ctx := context.Background()
	bookRepo := NewBookRepository(testDB)

	book := newTestBook(domain.CategoryAdventure, 2)
	if err := bookRepo.Upsert(ctx, book); err != nil {
		t.Fatalf("Failed to insert through upsert: %v", err)
	}

	book.Name = "Renamed"
	book.Quantity = 9
	if err := bookRepo.Upsert(ctx, book); err != nil {
		t.Fatalf("Failed to update through upsert: %v", err)
	}

	stored, err := bookRepo.FindByBookID(ctx, book.BookID)
	if err != nil {
		t.Fatalf("Failed to find book: %v", err)
	}
	if stored.Name != "Renamed" || stored.Quantity != 9 {
		t.Errorf("Upsert did not replace attributes: %+v", stored)
	}
}
