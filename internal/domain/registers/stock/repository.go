// Package stock provides the stock ledger: the derived view of on-hand
// quantity per item from posted document movements.
package stock

import (
	"context"
	"time"

	"stockops/internal/core/entity"
	"stockops/internal/core/id"
	"stockops/internal/core/types"
)

// Repository defines operations for the stock ledger.
type Repository interface {
	// Entry operations

	// CreateEntries batch inserts ledger entries (used during posting)
	CreateEntries(ctx context.Context, entries []entity.LedgerEntry) error

	// DeleteEntriesByRecorder removes all entries for a document below the
	// given posting version. Used during unposting or re-posting.
	DeleteEntriesByRecorder(ctx context.Context, recorderID id.ID, beforeVersion int) error

	// GetEntriesByRecorder retrieves all entries for a document
	GetEntriesByRecorder(ctx context.Context, recorderID id.ID) ([]entity.LedgerEntry, error)

	// Balance operations

	// GetBalance returns current on-hand for an item (zero if no history)
	GetBalance(ctx context.Context, itemID id.ID) (entity.StockBalance, error)

	// GetBalanceForUpdate returns on-hand with a row lock for stock control
	GetBalanceForUpdate(ctx context.Context, itemID id.ID) (entity.StockBalance, error)

	// GetBalanceAtDate calculates on-hand as of a specific date (for reports)
	GetBalanceAtDate(ctx context.Context, itemID id.ID, date time.Time) (types.Quantity, error)

	// Reporting

	// GetEntryHistory returns ledger history for an item
	GetEntryHistory(ctx context.Context, itemID id.ID, filter EntryFilter) ([]entity.LedgerEntry, error)
}

// EntryFilter for filtering ledger history.
type EntryFilter struct {
	RecordType *entity.RecordType
	FromDate   *time.Time
	ToDate     *time.Time
	Limit      int
	Offset     int
}

// StockReservation represents a stock sufficiency check request.
type StockReservation struct {
	ItemID      id.ID
	RequiredQty types.Quantity
}
