package posting

import (
	"context"

	"stockops/internal/core/entity"
	"stockops/internal/core/id"
)

// Postable is implemented by documents that record ledger movements.
// entity.Document provides defaults for everything except
// GetDocumentType and GenerateMovements.
type Postable interface {
	entity.Validatable

	GetID() id.ID
	GetDocumentType() string
	GetPostedVersion() int
	IsPosted() bool

	CanPost(ctx context.Context) error
	MarkPosted()
	MarkUnposted()

	// GenerateMovements produces the ledger entries this document would
	// record. Pure: no storage access, no side effects.
	GenerateMovements(ctx context.Context) (*MovementSet, error)
}

// MovementSet collects the register movements of a single document posting.
type MovementSet struct {
	Stock []entity.LedgerEntry
}

// NewMovementSet creates an empty movement set.
func NewMovementSet() *MovementSet {
	return &MovementSet{}
}

// AddStock appends a stock ledger entry.
func (m *MovementSet) AddStock(entry entity.LedgerEntry) {
	m.Stock = append(m.Stock, entry)
}

// IsEmpty reports whether the set contains no movements.
func (m *MovementSet) IsEmpty() bool {
	return len(m.Stock) == 0
}
