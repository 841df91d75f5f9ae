package postgres

import (
	"context"
	"fmt"
)

// SequenceStore hands out per-scope sequence values backed by the
// sys_sequences table. The UPSERT makes concurrent callers serialize on
// the scope row, so values never repeat.
type SequenceStore struct {
	txManager *TxManager
}

// NewSequenceStore creates a new sequence store.
func NewSequenceStore(txManager *TxManager) *SequenceStore {
	return &SequenceStore{txManager: txManager}
}

// NextValue returns the next value for a scope, starting at 1.
func (s *SequenceStore) NextValue(ctx context.Context, scope string) (int64, error) {
	q := s.txManager.GetQuerier(ctx)

	query := `
		INSERT INTO sys_sequences (scope, last_value)
		VALUES ($1, 1)
		ON CONFLICT (scope) DO UPDATE SET last_value = sys_sequences.last_value + 1
		RETURNING last_value
	`

	var value int64
	if err := q.QueryRow(ctx, query, scope).Scan(&value); err != nil {
		return 0, fmt.Errorf("next sequence value for %s: %w", scope, err)
	}

	return value, nil
}
