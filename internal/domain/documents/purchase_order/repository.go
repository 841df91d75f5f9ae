package purchase_order

import (
	"context"

	"stockops/internal/core/id"
	"stockops/internal/domain"
)

// Repository provides PurchaseOrder persistence. There is no Update:
// orders are immutable once created, apart from the deletion mark.
type Repository interface {
	Create(ctx context.Context, doc *PurchaseOrder) error
	GetByID(ctx context.Context, docID id.ID) (*PurchaseOrder, error)
	Delete(ctx context.Context, docID id.ID) error
	List(ctx context.Context, filter domain.ListFilter) (*domain.ListResult[PurchaseOrder], error)
}
