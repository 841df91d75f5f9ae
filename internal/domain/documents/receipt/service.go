package receipt

import (
	"context"

	"stockops/internal/core/apperror"
	"stockops/internal/core/id"
	"stockops/internal/domain"
	"stockops/internal/domain/posting"
	"stockops/pkg/logger"
	"stockops/pkg/numerator"
)

// Service implements Receipt business logic.
type Service struct {
	repo      Repository
	engine    *posting.Engine
	numerator *numerator.Service
}

// NewService creates a Receipt service.
func NewService(repo Repository, engine *posting.Engine, num *numerator.Service) *Service {
	return &Service{repo: repo, engine: engine, numerator: num}
}

// Create validates and persists a new receipt, assigning a document
// number when none is set.
func (s *Service) Create(ctx context.Context, doc *Receipt) error {
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

	logger.Info(ctx, "receipt created",
		"document_id", doc.ID,
		"number", doc.Number,
	)
	return nil
}

// GetByID returns a receipt with its lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*Receipt, error) {
	return s.repo.GetByID(ctx, docID)
}

// Update persists changes to an unposted receipt.
func (s *Service) Update(ctx context.Context, doc *Receipt) error {
	if err := doc.CanModify(); err != nil {
		return err
	}
	if err := doc.Validate(ctx); err != nil {
		return err
	}
	return s.repo.Update(ctx, doc)
}

// Delete soft-deletes an unposted receipt.
func (s *Service) Delete(ctx context.Context, docID id.ID) error {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return err
	}
	if err := doc.CanModify(); err != nil {
		return err
	}
	return s.repo.Delete(ctx, docID)
}

// List returns receipts matching the filter.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (*domain.ListResult[Receipt], error) {
	return s.repo.List(ctx, filter)
}

// Post records the receipt's stock movements. Safe to call repeatedly:
// a posted receipt reports AlreadyPosted.
func (s *Service) Post(ctx context.Context, docID id.ID) (posting.Result, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return posting.Result{Status: posting.StatusFailed, DocumentID: docID}, err
	}

	result, err := s.engine.Post(ctx, doc, func(ctx context.Context) error {
		return s.repo.Update(ctx, doc)
	})

	if err != nil && apperror.IsConcurrentModification(err) {
		// A concurrent caller won the update; if the document ended up
		// posted, this attempt is an idempotent no-op.
		if fresh, ferr := s.repo.GetByID(ctx, docID); ferr == nil && fresh.IsPosted() {
			return posting.Result{
				Status:     posting.StatusAlreadyPosted,
				DocumentID: docID,
				ReasonCode: posting.ReasonAlreadyPosted,
			}, nil
		}
	}

	return result, err
}

// Unpost reverses the receipt's stock movements.
func (s *Service) Unpost(ctx context.Context, docID id.ID) error {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return err
	}

	return s.engine.Unpost(ctx, doc, func(ctx context.Context) error {
		return s.repo.Update(ctx, doc)
	})
}
