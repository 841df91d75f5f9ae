package shipment

import (
	"context"

	"stockops/internal/core/id"
	"stockops/internal/domain"
)

// Repository provides Shipment persistence. Implementations load and
// save lines together with the header.
type Repository interface {
	Create(ctx context.Context, doc *Shipment) error
	GetByID(ctx context.Context, docID id.ID) (*Shipment, error)

	// Update uses optimistic locking on the header version; a mismatch
	// surfaces as ConcurrentModification.
	Update(ctx context.Context, doc *Shipment) error

	Delete(ctx context.Context, docID id.ID) error
	List(ctx context.Context, filter domain.ListFilter) (*domain.ListResult[Shipment], error)
}
