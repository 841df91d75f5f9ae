package receipt

import (
	"context"

	"stockops/internal/core/id"
	"stockops/internal/domain"
)

// Repository provides Receipt persistence. Implementations load and
// save lines together with the header.
type Repository interface {
	Create(ctx context.Context, doc *Receipt) error
	GetByID(ctx context.Context, docID id.ID) (*Receipt, error)

	// Update uses optimistic locking on the header version; a mismatch
	// surfaces as ConcurrentModification. This is the serializing
	// primitive posting relies on.
	Update(ctx context.Context, doc *Receipt) error

	Delete(ctx context.Context, docID id.ID) error
	List(ctx context.Context, filter domain.ListFilter) (*domain.ListResult[Receipt], error)
}
