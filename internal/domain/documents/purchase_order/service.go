package purchase_order

import (
	"context"

	"stockops/internal/core/id"
	"stockops/internal/domain"
	"stockops/pkg/logger"
	"stockops/pkg/numerator"
)

// Service implements PurchaseOrder business logic.
type Service struct {
	repo      Repository
	numerator *numerator.Service
}

// NewService creates a PurchaseOrder service.
func NewService(repo Repository, num *numerator.Service) *Service {
	return &Service{repo: repo, numerator: num}
}

// Create validates and persists a new order, assigning a document
// number when none is set. Once created, the order's lines are part of
// the cost history and cannot change.
func (s *Service) Create(ctx context.Context, doc *PurchaseOrder) error {
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

	logger.Info(ctx, "purchase order created",
		"document_id", doc.ID,
		"number", doc.Number,
	)
	return nil
}

// GetByID returns an order with its lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*PurchaseOrder, error) {
	return s.repo.GetByID(ctx, docID)
}

// Delete soft-deletes an order. Deleted orders stop contributing to
// cost attribution.
func (s *Service) Delete(ctx context.Context, docID id.ID) error {
	if err := s.repo.Delete(ctx, docID); err != nil {
		return err
	}

	logger.Info(ctx, "purchase order deleted", "document_id", docID)
	return nil
}

// List returns orders matching the filter.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (*domain.ListResult[PurchaseOrder], error) {
	return s.repo.List(ctx, filter)
}
