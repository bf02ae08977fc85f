package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/Yaswanth0403/BookHaven/internal/domain"
	"github.com/Yaswanth0403/BookHaven/internal/repository"
	"github.com/Yaswanth0403/BookHaven/internal/service"
	"github.com/Yaswanth0403/BookHaven/internal/session"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var testCookie = CookieConfig{Name: "bookhaven_session", TTL: time.Hour}

func sessionCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Mock repositories for testing
type mockUserRepository struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users: make(map[string]*domain.User),
	}
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.users[user.Email]; exists {
		return repository.ErrUserAlreadyExists
	}
	m.users[user.Email] = user
	return nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, exists := m.users[email]
	if !exists {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) List(ctx context.Context) ([]*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	users := make([]*domain.User, 0, len(m.users))
	for _, user := range m.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Email < users[j].Email })
	return users, nil
}

func (m *mockUserRepository) UpdateRole(ctx context.Context, id uuid.UUID, role string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.ID == id {
			user.Role = role
			return nil
		}
	}
	return repository.ErrUserNotFound
}

type mockRefreshTokenRepository struct {
	mu     sync.Mutex
	tokens map[string]*domain.RefreshToken
}

func newMockRefreshTokenRepository() *mockRefreshTokenRepository {
	return &mockRefreshTokenRepository{
		tokens: make(map[string]*domain.RefreshToken),
	}
}

func (m *mockRefreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[token.Token] = token
	return nil
}

func (m *mockRefreshTokenRepository) FindByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	refreshToken, exists := m.tokens[token]
	if !exists {
		return nil, repository.ErrRefreshTokenNotFound
	}
	if refreshToken.Revoked {
		return nil, repository.ErrRefreshTokenRevoked
	}
	return refreshToken, nil
}

func (m *mockRefreshTokenRepository) Revoke(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	refreshToken, exists := m.tokens[token]
	if !exists {
		return repository.ErrRefreshTokenNotFound
	}
	refreshToken.Revoked = true
	return nil
}

func (m *mockRefreshTokenRepository) RevokeAllForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, token := range m.tokens {
		if token.UserID == userID && !token.Revoked {
			token.Revoked = true
			n++
		}
	}
	return n, nil
}

type memorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session.Session
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{sessions: make(map[string]*session.Session)}
}

func (m *memorySessionStore) Create(ctx context.Context, userID uuid.UUID, role string) (*session.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	sess := &session.Session{ID: uuid.NewString(), UserID: userID, Role: role, CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	m.sessions[sess.ID] = sess
	return sess, nil
}

func (m *memorySessionStore) Get(ctx context.Context, id string) (*session.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok {
		return nil, session.ErrSessionNotFound
	}
	return sess, nil
}

func (m *memorySessionStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func newTestUserService(t *testing.T) service.UserService {
	t.Helper()
	return service.NewUserService(newMockUserRepository(), newMockRefreshTokenRepository(), newMemorySessionStore(), "test-secret")
}

// stubCatalogService keeps books in memory
type stubCatalogService struct {
	books map[string]*domain.Book
}

func (s *stubCatalogService) ListBooks(ctx context.Context) ([]*domain.Book, error) {
	books := make([]*domain.Book, 0, len(s.books))
	for _, b := range s.books {
		books = append(books, b)
	}
	sort.Slice(books, func(i, j int) bool { return books[i].BookID < books[j].BookID })
	return books, nil
}

func (s *stubCatalogService) ListByCategory(ctx context.Context, category string) ([]*domain.Book, error) {
	c, err := service.ParseCategory(category)
	if err != nil {
		return nil, err
	}
	all, _ := s.ListBooks(ctx)
	books := []*domain.Book{}
	for _, b := range all {
		if b.Category == c {
			books = append(books, b)
		}
	}
	return books, nil
}

func (s *stubCatalogService) GetBook(ctx context.Context, bookID string) (*domain.Book, error) {
	b, ok := s.books[bookID]
	if !ok {
		return nil, repository.ErrBookNotFound
	}
	return b, nil
}

func (s *stubCatalogService) CreateBook(ctx context.Context, input service.CreateBookInput) (*domain.Book, error) {
	if _, ok := s.books[input.BookID]; ok {
		return nil, repository.ErrBookAlreadyExists
	}
	c, err := service.ParseCategory(input.Category)
	if err != nil {
		return nil, err
	}
	b := &domain.Book{BookID: input.BookID, Name: input.Name, Price: input.Price, Quantity: input.Quantity, Category: c}
	s.books[b.BookID] = b
	return b, nil
}

func (s *stubCatalogService) UpdateQuantity(ctx context.Context, bookID string, quantity int) (*domain.Book, error) {
	b, ok := s.books[bookID]
	if !ok {
		return nil, repository.ErrBookNotFound
	}
	b.Quantity = quantity
	return b, nil
}

// stubCartService keeps cart lines in memory and shares them with
// stubCheckoutService
type stubCartService struct {
	catalog *stubCatalogService
	items   []*domain.CartItem
}

func (s *stubCartService) Add(ctx context.Context, userID uuid.UUID, input service.AddToCartInput) (*domain.CartItem, error) {
	b, err := s.catalog.GetBook(ctx, input.BookID)
	if err != nil {
		return nil, err
	}
	item := &domain.CartItem{ID: uuid.New(), UserID: userID, BookID: b.BookID, BookName: b.Name, Price: b.Price, Quantity: input.Quantity}
	s.items = append(s.items, item)
	return item, nil
}

func (s *stubCartService) List(ctx context.Context, userID uuid.UUID) ([]*domain.CartItem, error) {
	items := []*domain.CartItem{}
	for _, item := range s.items {
		if item.UserID == userID {
			items = append(items, item)
		}
	}
	return items, nil
}

func (s *stubCartService) Remove(ctx context.Context, userID uuid.UUID, bookID string) error {
	for i, item := range s.items {
		if item.UserID == userID && item.BookID == bookID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return repository.ErrCartItemNotFound
}

type stubCheckoutService struct {
	cart    *stubCartService
	orders  *stubOrderService
	lastKey string
}

func (s *stubCheckoutService) Checkout(ctx context.Context, userID uuid.UUID, key string) (*service.CheckoutResult, error) {
	s.lastKey = key
	items, _ := s.cart.List(ctx, userID)
	if len(items) == 0 {
		return nil, service.ErrEmptyCart
	}

	for _, item := range items {
		if s.cart.catalog.books[item.BookID].Quantity < item.Quantity {
			return nil, service.ErrInsufficientStock
		}
	}

	result := &service.CheckoutResult{CheckoutID: uuid.New(), Total: decimal.Zero}
	for _, item := range items {
		s.cart.catalog.books[item.BookID].Quantity -= item.Quantity
		s.orders.records = append(s.orders.records, &domain.OrderRecord{
			ID:         uuid.New(),
			CheckoutID: result.CheckoutID,
			UserID:     userID,
			BookID:     item.BookID,
			BookName:   item.BookName,
			Price:      item.Price,
			Quantity:   item.Quantity,
		})
		result.ItemCount++
		result.Total = result.Total.Add(item.Subtotal())
	}

	kept := s.cart.items[:0]
	for _, item := range s.cart.items {
		if item.UserID != userID {
			kept = append(kept, item)
		}
	}
	s.cart.items = kept
	return result, nil
}

type stubOrderService struct {
	records []*domain.OrderRecord
}

func (s *stubOrderService) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.OrderRecord, error) {
	records := []*domain.OrderRecord{}
	for _, r := range s.records {
		if r.UserID == userID {
			records = append(records, r)
		}
	}
	return records, nil
}

type stubContactService struct {
	contacts []*domain.Contact
}

func (s *stubContactService) Submit(ctx context.Context, name, subject, description string) (*domain.Contact, error) {
	c := &domain.Contact{ID: uuid.New(), Name: name, Subject: subject, Description: description, CreatedAt: time.Now()}
	s.contacts = append(s.contacts, c)
	return c, nil
}

func (s *stubContactService) List(ctx context.Context) ([]*domain.Contact, error) {
	return s.contacts, nil
}
