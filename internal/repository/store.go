package repository

import (
	"context"
	"database/sql"

	"github.com/Yaswanth0403/BookHaven/internal/database"
)

// Repositories groups the stores that take part in a checkout, all bound to
// the same transaction
type Repositories struct {
	Books  BookRepository
	Cart   CartRepository
	Orders OrderRepository
}

// TxManager runs a unit of work atomically
type TxManager interface {
	WithTx(ctx context.Context, fn func(repos Repositories) error) error
}

type sqlTxManager struct {
	db *sql.DB
}

// NewTxManager returns a TxManager backed by database transactions
func NewTxManager(db *sql.DB) TxManager {
	return &sqlTxManager{db: db}
}

func (m *sqlTxManager) WithTx(ctx context.Context, fn func(repos Repositories) error) error {
	return database.WithTx(ctx, m.db, func(tx *sql.Tx) error {
		return fn(Repositories{
			Books:  NewBookRepository(tx),
			Cart:   NewCartRepository(tx),
			Orders: NewOrderRepository(tx),
		})
	})
}
