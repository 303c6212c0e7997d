package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/granada-os/backend/internal/domain/shared"
)

type txContextKey struct{}

// WithTx returns a context carrying the given transaction handle.
// Repositories built on DBFrom pick it up and join the transaction.
func WithTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txContextKey{}, tx)
}

// DBFrom returns the transaction carried by ctx, or the fallback
// handle when the context has none. Every repository query goes
// through this so cross-repository write sets can share one
// transaction.
func DBFrom(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return fallback.WithContext(ctx)
}

// GormTransactionManager implements shared.TransactionManager on a
// GORM connection. The callback context carries the open transaction,
// so repositories called inside it write atomically.
type GormTransactionManager struct {
	db *gorm.DB
}

// NewGormTransactionManager creates a transaction manager over db
func NewGormTransactionManager(db *gorm.DB) *GormTransactionManager {
	return &GormTransactionManager{db: db}
}

// InTransaction runs fn inside one transaction, rolling back on error
func (m *GormTransactionManager) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(WithTx(ctx, tx))
	})
}

var _ shared.TransactionManager = (*GormTransactionManager)(nil)
