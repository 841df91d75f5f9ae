package shipment

import (
	"context"

	"stockops/internal/core/apperror"
	"stockops/internal/core/id"
	"stockops/internal/domain"
	"stockops/internal/domain/documents/sales_order"
	"stockops/internal/domain/posting"
	"stockops/pkg/logger"
	"stockops/pkg/numerator"
)

// Service implements Shipment business logic.
type Service struct {
	repo      Repository
	orders    *sales_order.Service
	engine    *posting.Engine
	numerator *numerator.Service
}

// NewService creates a Shipment service.
func NewService(repo Repository, orders *sales_order.Service, engine *posting.Engine, num *numerator.Service) *Service {
	return &Service{repo: repo, orders: orders, engine: engine, numerator: num}
}

// Create validates and persists a new shipment. Lines must reference
// lines of the fulfilled sales order; prices are copied from the order.
func (s *Service) Create(ctx context.Context, doc *Shipment) error {
	if err := doc.Validate(ctx); err != nil {
		return err
	}

	if err := s.resolveOrderLines(ctx, doc); err != nil {
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

	logger.Info(ctx, "shipment created",
		"document_id", doc.ID,
		"number", doc.Number,
		"sales_order_id", doc.SalesOrderID,
	)
	return nil
}

// GetByID returns a shipment with its lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*Shipment, error) {
	return s.repo.GetByID(ctx, docID)
}

// Update persists changes to an unposted shipment. Lines are checked
// against the order again and prices re-copied.
func (s *Service) Update(ctx context.Context, doc *Shipment) error {
	if err := doc.CanModify(); err != nil {
		return err
	}
	if err := doc.Validate(ctx); err != nil {
		return err
	}
	if err := s.resolveOrderLines(ctx, doc); err != nil {
		return err
	}
	return s.repo.Update(ctx, doc)
}

// resolveOrderLines checks each line against the fulfilled sales order
// and copies the ordered price. The order's price is authoritative.
func (s *Service) resolveOrderLines(ctx context.Context, doc *Shipment) error {
	order, err := s.orders.GetByID(ctx, doc.SalesOrderID)
	if err != nil {
		return err
	}

	orderLines := make(map[id.ID]sales_order.Line, len(order.Lines))
	for _, line := range order.Lines {
		orderLines[line.LineID] = line
	}

	for i := range doc.Lines {
		line := &doc.Lines[i]
		ordered, ok := orderLines[line.SalesOrderLineID]
		if !ok {
			return apperror.NewValidation("line does not belong to the sales order").
				WithDetail("line", i).
				WithDetail("sales_order_line_id", line.SalesOrderLineID.String())
		}
		if ordered.ItemID != line.ItemID {
			return apperror.NewValidation("line item differs from the ordered item").
				WithDetail("line", i)
		}
		line.UnitPrice = ordered.UnitPrice
	}

	return nil
}

// Delete soft-deletes an unposted shipment.
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

// List returns shipments matching the filter.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (*domain.ListResult[Shipment], error) {
	return s.repo.List(ctx, filter)
}

// Post records the shipment's stock movements. Fails with
// InsufficientStock when any line would drive on-hand negative; the
// whole document is rejected, nothing is applied.
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

// Unpost reverses the shipment's stock movements.
func (s *Service) Unpost(ctx context.Context, docID id.ID) error {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return err
	}

	return s.engine.Unpost(ctx, doc, func(ctx context.Context) error {
		return s.repo.Update(ctx, doc)
	})
}
