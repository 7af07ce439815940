package shared

import "context"

// TxManager runs a unit of work in a single database transaction.
// Repositories called with the ctx passed to fn join that transaction.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
