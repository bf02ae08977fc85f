package service

import (
	"context"
	"sort"

	"github.com/Yaswanth0403/BookHaven/internal/domain"
	"github.com/Yaswanth0403/BookHaven/internal/repository"

	"github.com/google/uuid"
)

type mockBookRepository struct {
	books map[string]*domain.Book
}

func newMockBookRepository(books ...*domain.Book) *mockBookRepository {
	m := &mockBookRepository{books: make(map[string]*domain.Book)}
	for _, b := range books {
		m.books[b.BookID] = b
	}
	return m
}

func (m *mockBookRepository) Create(ctx context.Context, book *domain.Book) error {
	if _, exists := m.books[book.BookID]; exists {
		return repository.ErrBookAlreadyExists
	}
	m.books[book.BookID] = book
	return nil
}

func (m *mockBookRepository) Upsert(ctx context.Context, book *domain.Book) error {
	m.books[book.BookID] = book
	return nil
}

func (m *mockBookRepository) FindByBookID(ctx context.Context, bookID string) (*domain.Book, error) {
	book, exists := m.books[bookID]
	if !exists {
		return nil, repository.ErrBookNotFound
	}
	return book, nil
}

func (m *mockBookRepository) List(ctx context.Context) ([]*domain.Book, error) {
	books := []*domain.Book{}
	for _, b := range m.books {
		books = append(books, b)
	}
	sort.Slice(books, func(i, j int) bool { return books[i].BookID < books[j].BookID })
	return books, nil
}

func (m *mockBookRepository) ListByCategory(ctx context.Context, category domain.Category) ([]*domain.Book, error) {
	all, _ := m.List(ctx)
	books := []*domain.Book{}
	for _, b := range all {
		if b.Category == category {
			books = append(books, b)
		}
	}
	return books, nil
}

func (m *mockBookRepository) UpdateQuantity(ctx context.Context, bookID string, quantity int) (*domain.Book, error) {
	book, exists := m.books[bookID]
	if !exists {
		return nil, repository.ErrBookNotFound
	}
	book.Quantity = quantity
	return book, nil
}

func (m *mockBookRepository) DecrementQuantity(ctx context.Context, bookID string, amount int) (int, bool, error) {
	book, exists := m.books[bookID]
	if !exists {
		return 0, false, nil
	}
	book.Quantity -= amount
	return book.Quantity, true, nil
}

type mockCartRepository struct {
	items    []*domain.CartItem
	clearErr error
}

func newMockCartRepository() *mockCartRepository {
	return &mockCartRepository{}
}

func (m *mockCartRepository) Add(ctx context.Context, item *domain.CartItem) error {
	m.items = append(m.items, item)
	return nil
}

func (m *mockCartRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.CartItem, error) {
	items := []*domain.CartItem{}
	for _, item := range m.items {
		if item.UserID == userID {
			items = append(items, item)
		}
	}
	return items, nil
}

func (m *mockCartRepository) ListByUserForUpdate(ctx context.Context, userID uuid.UUID) ([]*domain.CartItem, error) {
	return m.ListByUser(ctx, userID)
}

func (m *mockCartRepository) Remove(ctx context.Context, userID uuid.UUID, bookID string) error {
	for i, item := range m.items {
		if item.UserID == userID && item.BookID == bookID {
			m.items = append(m.items[:i:i], m.items[i+1:]...)
			return nil
		}
	}
	return repository.ErrCartItemNotFound
}

func (m *mockCartRepository) DeleteByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if m.clearErr != nil {
		return 0, m.clearErr
	}
	drop := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := []*domain.CartItem{}
	var removed int64
	for _, item := range m.items {
		if item.UserID == userID && drop[item.ID] {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	m.items = kept
	return removed, nil
}

type mockOrderRepository struct {
	records   []*domain.OrderRecord
	checkouts []*domain.Checkout
}

func newMockOrderRepository() *mockOrderRepository {
	return &mockOrderRepository{}
}

func (m *mockOrderRepository) AppendBatch(ctx context.Context, records []*domain.OrderRecord) error {
	m.records = append(m.records, records...)
	return nil
}

func (m *mockOrderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.OrderRecord, error) {
	records := []*domain.OrderRecord{}
	for _, r := range m.records {
		if r.UserID == userID {
			records = append(records, r)
		}
	}
	return records, nil
}

func (m *mockOrderRepository) ListByCheckout(ctx context.Context, checkoutID uuid.UUID) ([]*domain.OrderRecord, error) {
	records := []*domain.OrderRecord{}
	for _, r := range m.records {
		if r.CheckoutID == checkoutID {
			records = append(records, r)
		}
	}
	return records, nil
}

func (m *mockOrderRepository) CreateCheckout(ctx context.Context, checkout *domain.Checkout) error {
	if checkout.IdempotencyKey != "" {
		if _, err := m.FindCheckoutByKey(ctx, checkout.UserID, checkout.IdempotencyKey); err == nil {
			return repository.ErrCheckoutAlreadyExists
		}
	}
	m.checkouts = append(m.checkouts, checkout)
	return nil
}

func (m *mockOrderRepository) FindCheckoutByKey(ctx context.Context, userID uuid.UUID, key string) (*domain.Checkout, error) {
	for _, c := range m.checkouts {
		if c.UserID == userID && c.IdempotencyKey == key {
			return c, nil
		}
	}
	return nil, repository.ErrCheckoutNotFound
}

// mockTxManager restores the in-memory stores when the unit of work fails
type mockTxManager struct {
	books  *mockBookRepository
	cart   *mockCartRepository
	orders *mockOrderRepository
}

func (m *mockTxManager) WithTx(ctx context.Context, fn func(repos repository.Repositories) error) error {
	quantities := make(map[string]int, len(m.books.books))
	for id, b := range m.books.books {
		quantities[id] = b.Quantity
	}
	items := append([]*domain.CartItem(nil), m.cart.items...)
	records := append([]*domain.OrderRecord(nil), m.orders.records...)
	checkouts := append([]*domain.Checkout(nil), m.orders.checkouts...)

	err := fn(repository.Repositories{
		Books:  m.books,
		Cart:   m.cart,
		Orders: m.orders,
	})
	if err != nil {
		for id, q := range quantities {
			m.books.books[id].Quantity = q
		}
		m.cart.items = items
		m.orders.records = records
		m.orders.checkouts = checkouts
	}
	return err
}
