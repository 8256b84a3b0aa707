package output

import (
	"context"
)

// TransactionManager runs a unit of work against one consistent view of the
// stores. Repositories pick the transaction up from the context they receive.
type TransactionManager interface {
	// InTransaction executes a function within a transaction
	// If the function returns an error, the transaction is rolled back
	InTransaction(ctx context.Context, fn func(txCtx context.Context) error) error
}
