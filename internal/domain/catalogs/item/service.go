package item

import (
	"context"
	"time"

	"stockops/internal/core/apperror"
	"stockops/internal/core/id"
	"stockops/internal/core/types"
	"stockops/internal/domain"
	"stockops/internal/domain/registers/stock"
	"stockops/pkg/logger"
)

// Service implements Item catalog business logic.
type Service struct {
	repo   Repository
	ledger *stock.Service
}

// NewService creates an Item service.
func NewService(repo Repository, ledger *stock.Service) *Service {
	return &Service{repo: repo, ledger: ledger}
}

// Create validates and persists a new item. Codes are unique.
func (s *Service) Create(ctx context.Context, item *Item) error {
	if err := item.Validate(ctx); err != nil {
		return err
	}
	if item.Code == "" {
		return apperror.NewValidation("code is required").
			WithDetail("field", "code")
	}

	existing, err := s.repo.GetByCode(ctx, item.Code)
	if err != nil && !apperror.IsNotFound(err) {
		return err
	}
	if existing != nil {
		return apperror.NewDuplicate("item", "code", item.Code)
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return err
	}

	logger.Info(ctx, "item created",
		"item_id", item.ID,
		"code", item.Code,
	)
	return nil
}

// GetByID returns an item by ID.
func (s *Service) GetByID(ctx context.Context, itemID id.ID) (*Item, error) {
	return s.repo.GetByID(ctx, itemID)
}

// GetByCode returns an item by its unique code.
func (s *Service) GetByCode(ctx context.Context, code string) (*Item, error) {
	return s.repo.GetByCode(ctx, code)
}

// Update validates and persists item changes.
func (s *Service) Update(ctx context.Context, item *Item) error {
	if err := item.Validate(ctx); err != nil {
		return err
	}
	return s.repo.Update(ctx, item)
}

// Delete soft-deletes an item.
func (s *Service) Delete(ctx context.Context, itemID id.ID) error {
	if err := s.repo.Delete(ctx, itemID); err != nil {
		return err
	}

	logger.Info(ctx, "item deleted", "item_id", itemID)
	return nil
}

// List returns items matching the filter.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (*domain.ListResult[Item], error) {
	return s.repo.List(ctx, filter)
}

// OnHand returns the current stock level for an item. An item with no
// ledger history has zero on-hand; an unknown item is NotFound.
func (s *Service) OnHand(ctx context.Context, itemID id.ID) (types.Quantity, error) {
	if _, err := s.repo.GetByID(ctx, itemID); err != nil {
		return 0, err
	}
	return s.ledger.OnHand(ctx, itemID)
}

// OnHandAt returns the stock level for an item as of a point in time,
// derived from the ledger rather than the current balance.
func (s *Service) OnHandAt(ctx context.Context, itemID id.ID, at time.Time) (types.Quantity, error) {
	if _, err := s.repo.GetByID(ctx, itemID); err != nil {
		return 0, err
	}
	return s.ledger.OnHandAt(ctx, itemID, at)
}
