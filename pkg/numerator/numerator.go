// Package numerator generates document numbers, unique within a
// document type and calendar year: "RC-2026-00042".
package numerator

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// SequenceStore hands out monotonically increasing values per scope.
// Implementations must be safe under concurrent callers; gaps are
// acceptable, duplicates are not.
type SequenceStore interface {
	NextValue(ctx context.Context, scope string) (int64, error)
}

// Service formats document numbers from a sequence store.
type Service struct {
	store    SequenceStore
	prefixes map[string]string
}

// New creates a numerator service with default document type prefixes.
func New(store SequenceStore) *Service {
	return &Service{
		store: store,
		prefixes: map[string]string{
			"Receipt":       "RC",
			"Shipment":      "SH",
			"PurchaseOrder": "PO",
			"SalesOrder":    "SO",
		},
	}
}

// NextNumber returns the next number for a document type, scoped to the
// year of the document date.
func (s *Service) NextNumber(ctx context.Context, documentType string, date time.Time) (string, error) {
	prefix, ok := s.prefixes[documentType]
	if !ok {
		prefix = "DOC"
	}

	year := date.Year()
	scope := fmt.Sprintf("%s-%d", prefix, year)

	value, err := s.store.NextValue(ctx, scope)
	if err != nil {
		return "", fmt.Errorf("next sequence value for %s: %w", scope, err)
	}

	return fmt.Sprintf("%s-%d-%05d", prefix, year, value), nil
}

// MemoryStore is an in-process SequenceStore for tests and tooling.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]int64
}

// NewMemoryStore creates an empty in-memory sequence store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]int64)}
}

// NextValue implements SequenceStore.
func (m *MemoryStore) NextValue(_ context.Context, scope string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[scope]++
	return m.values[scope], nil
}
