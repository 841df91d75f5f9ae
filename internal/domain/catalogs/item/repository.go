package item

import (
	"context"

	"stockops/internal/core/id"
	"stockops/internal/domain"
)

// Repository provides Item persistence.
type Repository interface {
	Create(ctx context.Context, item *Item) error
	GetByID(ctx context.Context, itemID id.ID) (*Item, error)
	GetByCode(ctx context.Context, code string) (*Item, error)

	// Update uses optimistic locking; a version mismatch surfaces as
	// ConcurrentModification.
	Update(ctx context.Context, item *Item) error

	// Delete sets the deletion mark; items are never physically removed
	// because ledger history references them.
	Delete(ctx context.Context, itemID id.ID) error

	List(ctx context.Context, filter domain.ListFilter) (*domain.ListResult[Item], error)
}
