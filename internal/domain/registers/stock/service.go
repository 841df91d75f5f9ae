// Package stock provides the stock ledger service.
package stock

import (
	"context"
	"fmt"
	"time"

	"stockops/internal/core/apperror"
	"stockops/internal/core/entity"
	"stockops/internal/core/id"
	"stockops/internal/core/types"
	"stockops/pkg/logger"
)

// Service provides business operations for the stock ledger.
// Transactions are managed by the caller (the posting engine).
type Service struct {
	repo Repository
}

// NewService creates a new stock ledger service.
func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
	}
}

// OnHand returns the current derived stock quantity for an item.
// Zero for an item with no ledger history. Reflects committed postings
// only: the repository never exposes in-flight transaction state to
// outside readers.
func (s *Service) OnHand(ctx context.Context, itemID id.ID) (types.Quantity, error) {
	balance, err := s.repo.GetBalance(ctx, itemID)
	if err != nil {
		return 0, fmt.Errorf("get balance: %w", err)
	}
	return balance.Quantity, nil
}

// OnHandAt derives on-hand for an item as of a point in time by
// summing the ledger directly, bypassing the materialized balance.
func (s *Service) OnHandAt(ctx context.Context, itemID id.ID, at time.Time) (types.Quantity, error) {
	qty, err := s.repo.GetBalanceAtDate(ctx, itemID, at)
	if err != nil {
		return 0, fmt.Errorf("get balance at date: %w", err)
	}
	return qty, nil
}

// EntriesForDocument returns the ledger entries a posted document
// produced. An unposted document has none.
func (s *Service) EntriesForDocument(ctx context.Context, recorderID id.ID) ([]entity.LedgerEntry, error) {
	entries, err := s.repo.GetEntriesByRecorder(ctx, recorderID)
	if err != nil {
		return nil, fmt.Errorf("get entries by recorder: %w", err)
	}
	return entries, nil
}

// RecordEntries appends ledger entries from a document posting.
// This is called during document posting within a transaction.
func (s *Service) RecordEntries(ctx context.Context, entries []entity.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}

	// Validate entries
	for i, e := range entries {
		if !e.Quantity.IsPositive() {
			return apperror.NewValidation(fmt.Sprintf("entry %d: quantity must be positive", i))
		}
		if id.IsNil(e.RecorderID) {
			return apperror.NewValidation(fmt.Sprintf("entry %d: recorder_id is required", i))
		}
	}

	if err := s.repo.CreateEntries(ctx, entries); err != nil {
		return fmt.Errorf("create entries: %w", err)
	}

	logger.Info(ctx, "recorded ledger entries",
		"count", len(entries),
		"recorder_id", entries[0].RecorderID,
	)

	return nil
}

// ReverseEntries removes entries for a document (used during unposting).
func (s *Service) ReverseEntries(ctx context.Context, recorderID id.ID, beforeVersion int) error {
	if err := s.repo.DeleteEntriesByRecorder(ctx, recorderID, beforeVersion); err != nil {
		return fmt.Errorf("delete entries: %w", err)
	}

	logger.Info(ctx, "reversed ledger entries",
		"recorder_id", recorderID,
		"before_version", beforeVersion,
	)

	return nil
}

// CheckAndReserveStock validates stock availability with pessimistic locking.
// Must be called within the posting transaction before creating expense
// entries: the locked read is the authoritative sufficiency check under
// concurrency, not any earlier snapshot.
func (s *Service) CheckAndReserveStock(ctx context.Context, items []StockReservation) error {
	for _, item := range items {
		balance, err := s.repo.GetBalanceForUpdate(ctx, item.ItemID)
		if err != nil {
			return fmt.Errorf("get balance for %s: %w", item.ItemID, err)
		}

		if balance.Quantity < item.RequiredQty {
			return apperror.NewInsufficientStock(
				item.ItemID.String(),
				item.RequiredQty.Float64(),
				balance.Quantity.Float64(),
			)
		}
	}

	return nil
}

// GetEntryHistory returns ledger history for an item.
func (s *Service) GetEntryHistory(ctx context.Context, itemID id.ID, filter EntryFilter) ([]entity.LedgerEntry, error) {
	return s.repo.GetEntryHistory(ctx, itemID, filter)
}
