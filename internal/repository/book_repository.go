package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Yaswanth0403/BookHaven/internal/domain"
)

var (
	ErrBookNotFound      = errors.New("book not found")
	ErrBookAlreadyExists = errors.New("book with this id already exists")
)

// BookRepository defines the interface for catalog data access
type BookRepository interface {
	Create(ctx context.Context, book *domain.Book) error
	Upsert(ctx context.Context, book *domain.Book) error
	FindByBookID(ctx context.Context, bookID string) (*domain.Book, error)
	List(ctx context.Context) ([]*domain.Book, error)
	ListByCategory(ctx context.Context, category domain.Category) ([]*domain.Book, error)
	UpdateQuantity(ctx context.Context, bookID string, quantity int) (*domain.Book, error)
	// DecrementQuantity subtracts amount from the stock of bookID without any
	// lower bound. found is false when no book has that identifier.
	DecrementQuantity(ctx context.Context, bookID string, amount int) (remaining int, found bool, err error)
}

type bookRepository struct {
	db DBTX
}

// NewBookRepository creates a new instance of BookRepository
func NewBookRepository(db DBTX) BookRepository {
	return &bookRepository{db: db}
}

const bookColumns = `book_id, name, price, COALESCE(description, ''), COALESCE(author, ''), quantity,
		COALESCE(image, ''), category, created_at, updated_at`

func scanBook(row interface{ Scan(...any) error }) (*domain.Book, error) {
	book := &domain.Book{}
	err := row.Scan(
		&book.BookID,
		&book.Name,
		&book.Price,
		&book.Description,
		&book.Author,
		&book.Quantity,
		&book.Image,
		&book.Category,
		&book.CreatedAt,
		&book.UpdatedAt,
	)
	return book, err
}

// Create inserts a new book into the catalog
func (r *bookRepository) Create(ctx context.Context, book *domain.Book) error {
	query := `
		INSERT INTO books (book_id, name, price, description, author, quantity, image, category, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		book.BookID,
		book.Name,
		book.Price,
		nullString(book.Description),
		nullString(book.Author),
		book.Quantity,
		nullString(book.Image),
		book.Category,
		book.CreatedAt,
		book.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err, "books_pkey") {
			return ErrBookAlreadyExists
		}
		return fmt.Errorf("failed to create book: %w", err)
	}

	return nil
}

// Upsert inserts a book or replaces every attribute of an existing one
func (r *bookRepository) Upsert(ctx context.Context, book *domain.Book) error {
	query := `
		INSERT INTO books (book_id, name, price, description, author, quantity, image, category, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (book_id) DO UPDATE
		SET name = EXCLUDED.name, price = EXCLUDED.price, description = EXCLUDED.description,
		    author = EXCLUDED.author, quantity = EXCLUDED.quantity, image = EXCLUDED.image,
		    category = EXCLUDED.category, updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		book.BookID,
		book.Name,
		book.Price,
		nullString(book.Description),
		nullString(book.Author),
		book.Quantity,
		nullString(book.Image),
		book.Category,
		book.CreatedAt,
		book.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert book %s: %w", book.BookID, err)
	}

	return nil
}

// FindByBookID retrieves a book by its catalog identifier
func (r *bookRepository) FindByBookID(ctx context.Context, bookID string) (*domain.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE book_id = $1`

	book, err := scanBook(r.db.QueryRowContext(ctx, query, bookID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to find book by ID: %w", err)
	}

	return book, nil
}

// List retrieves every book in the catalog
func (r *bookRepository) List(ctx context.Context) ([]*domain.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books ORDER BY name ASC, book_id ASC`
	return r.query(ctx, query)
}

// ListByCategory retrieves the books tagged with category
func (r *bookRepository) ListByCategory(ctx context.Context, category domain.Category) ([]*domain.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE category = $1 ORDER BY name ASC, book_id ASC`
	return r.query(ctx, query, category)
}

func (r *bookRepository) query(ctx context.Context, query string, args ...any) ([]*domain.Book, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	defer rows.Close()

	books := []*domain.Book{}
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, book)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating books: %w", err)
	}

	return books, nil
}

// UpdateQuantity sets the stock of a book and returns the updated record
func (r *bookRepository) UpdateQuantity(ctx context.Context, bookID string, quantity int) (*domain.Book, error) {
	query := `
		UPDATE books
		SET quantity = $2, updated_at = NOW()
		WHERE book_id = $1
		RETURNING ` + bookColumns

	book, err := scanBook(r.db.QueryRowContext(ctx, query, bookID, quantity))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to update book quantity: %w", err)
	}

	return book, nil
}

func (r *bookRepository) DecrementQuantity(ctx context.Context, bookID string, amount int) (int, bool, error) {
	query := `
		UPDATE books
		SET quantity = quantity - $2, updated_at = NOW()
		WHERE book_id = $1
		RETURNING quantity
	`

	var remaining int
	err := r.db.QueryRowContext(ctx, query, bookID, amount).Scan(&remaining)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to decrement quantity of book %s: %w", bookID, err)
	}

	return remaining, true, nil
}
