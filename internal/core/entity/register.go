// Package entity provides core domain entities.
package entity

import (
	"time"

	"stockops/internal/core/id"
	"stockops/internal/core/types"
)

// RecordType defines movement direction for the stock ledger.
type RecordType string

const (
	// RecordTypeReceipt increases on-hand quantity
	RecordTypeReceipt RecordType = "receipt"
	// RecordTypeExpense decreases on-hand quantity
	RecordTypeExpense RecordType = "expense"
)

// LedgerEntry is an immutable record of a stock quantity change tied to a
// posted document. Entries are never updated, only deleted and recreated
// when their recorder is unposted.
type LedgerEntry struct {
	// LineID is unique identifier for this ledger line (UUIDv7)
	LineID id.ID `db:"line_id" json:"lineId"`

	// RecorderID is the document that created this entry
	RecorderID id.ID `db:"recorder_id" json:"recorderId"`

	// RecorderType is the document type (e.g., "Receipt", "Shipment")
	RecorderType string `db:"recorder_type" json:"recorderType"`

	// RecorderVersion tracks which posting iteration created this entry.
	// Allows efficient cleanup: DELETE WHERE recorder_id = X AND recorder_version < Y
	RecorderVersion int `db:"recorder_version" json:"recorderVersion"`

	// Period is the business date for the entry (for period-based queries)
	Period time.Time `db:"period" json:"period"`

	// RecordType: receipt or expense
	RecordType RecordType `db:"record_type" json:"recordType"`

	// ItemID is the ledger dimension
	ItemID id.ID `db:"item_id" json:"itemId"`

	// Quantity is the unsigned movement amount; sign derives from RecordType
	Quantity types.Quantity `db:"quantity" json:"quantity"`

	// CreatedAt is when the entry was recorded
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewLedgerEntry creates a new ledger entry with generated LineID.
func NewLedgerEntry(
	recorderID id.ID,
	recorderType string,
	recorderVersion int,
	period time.Time,
	recordType RecordType,
	itemID id.ID,
	quantity types.Quantity,
) LedgerEntry {
	return LedgerEntry{
		LineID:          id.New(),
		RecorderID:      recorderID,
		RecorderType:    recorderType,
		RecorderVersion: recorderVersion,
		Period:          period,
		RecordType:      recordType,
		ItemID:          itemID,
		Quantity:        quantity,
		CreatedAt:       time.Now().UTC(),
	}
}

// SignedQuantity returns quantity with sign based on record type.
// Receipt = positive, Expense = negative.
func (e *LedgerEntry) SignedQuantity() types.Quantity {
	if e.RecordType == RecordTypeExpense {
		return e.Quantity.Neg()
	}
	return e.Quantity
}

// StockBalance is the materialized on-hand quantity for an item.
// On-hand is always the sum of posted ledger deltas; the balance table
// is maintained in the same transaction as the entries.
type StockBalance struct {
	ItemID id.ID `db:"item_id" json:"itemId"`

	Quantity types.Quantity `db:"quantity" json:"quantity"`

	LastMovementAt time.Time `db:"last_movement_at" json:"lastMovementAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`
}
