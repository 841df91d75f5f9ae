package sales_order

import (
	"context"

	"stockops/internal/core/id"
	"stockops/internal/domain"
	"stockops/pkg/logger"
	"stockops/pkg/numerator"
)

// Service implements SalesOrder business logic.
type Service struct {
	repo      Repository
	numerator *numerator.Service
}

// NewService creates a SalesOrder service.
func NewService(repo Repository, num *numerator.Service) *Service {
	return &Service{repo: repo, numerator: num}
}

// Create validates and persists a new order, assigning a document
// number when none is set.
func (s *Service) Create(ctx context.Context, doc *SalesOrder) error {
	if err := doc.Validate(ctx); err != nil {
		return err
	}

	if doc.Number == "" {
		number, err := s.numerator.NextNumber(ctx, DocumentType, doc.Date)
		if err != nil {
			return err
		}
		doc.Number = number
	}

	if err := s.repo.Create(ctx, doc); err != nil {
		return err
	}

	logger.Info(ctx, "sales order created",
		"document_id", doc.ID,
		"number", doc.Number,
	)
	return nil
}

// GetByID returns an order with its lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*SalesOrder, error) {
	return s.repo.GetByID(ctx, docID)
}

// Update persists order changes. Shipped lines keep the price they were
// shipped with; changing an order never rewrites shipment history.
func (s *Service) Update(ctx context.Context, doc *SalesOrder) error {
	if err := doc.Validate(ctx); err != nil {
		return err
	}
	return s.repo.Update(ctx, doc)
}

// Delete soft-deletes an order.
func (s *Service) Delete(ctx context.Context, docID id.ID) error {
	return s.repo.Delete(ctx, docID)
}

// List returns orders matching the filter.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (*domain.ListResult[SalesOrder], error) {
	return s.repo.List(ctx, filter)
}
