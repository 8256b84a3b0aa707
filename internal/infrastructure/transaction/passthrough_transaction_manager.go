package transaction

import "context"

// PassthroughTransactionManager runs the function directly. The in-memory
// stores lock per call and have nothing to roll back.
type PassthroughTransactionManager struct{}

// NewPassthroughTransactionManager creates a transaction manager for in-memory storage
func NewPassthroughTransactionManager() *PassthroughTransactionManager {
	return &PassthroughTransactionManager{}
}

// InTransaction executes fn with the same context
func (m *PassthroughTransactionManager) InTransaction(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}
