// Package tx defines the transaction boundary used by domain services.
package tx

import "context"

// Manager runs a function inside a database transaction.
//
// The posting engine is the main consumer: a sufficiency check, ledger
// append and document save must commit or roll back as one unit. Domain
// code depends on this interface only; the pgx implementation lives in
// infrastructure/storage/postgres.
type Manager interface {
	// RunInTransaction commits when fn returns nil and rolls back
	// otherwise. Nested calls join the transaction already carried in
	// ctx instead of opening a new one.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
