package sales_order

import (
	"context"

	"stockops/internal/core/id"
	"stockops/internal/domain"
)

// Repository provides SalesOrder persistence.
type Repository interface {
	Create(ctx context.Context, doc *SalesOrder) error
	GetByID(ctx context.Context, docID id.ID) (*SalesOrder, error)
	Update(ctx context.Context, doc *SalesOrder) error
	Delete(ctx context.Context, docID id.ID) error
	List(ctx context.Context, filter domain.ListFilter) (*domain.ListResult[SalesOrder], error)
}
