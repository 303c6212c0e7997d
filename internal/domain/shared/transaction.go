package shared

import "context"

// TransactionManager runs a function inside a single database
// transaction. Repository calls made with the context passed to fn
// join that transaction; if fn returns an error every write made
// through it is rolled back.
type TransactionManager interface {
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// NopTransactionManager runs the function directly without opening a
// transaction. Used where no relational store is behind the
// repositories, and in tests.
type NopTransactionManager struct{}

// InTransaction invokes fn with the unmodified context
func (NopTransactionManager) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
