package dto

import (
	"time"

	"stockops/internal/core/entity"
	"stockops/internal/core/id"
	"stockops/internal/core/types"
)

// --- Response DTOs for the stock ledger ---

// StockResponse reports on-hand for one item.
type StockResponse struct {
	ItemID string  `json:"itemId"`
	OnHand float64 `json:"onHand"`
}

// NewStockResponse builds an on-hand response.
func NewStockResponse(itemID id.ID, onHand types.Quantity) StockResponse {
	return StockResponse{
		ItemID: itemID.String(),
		OnHand: onHand.Float64(),
	}
}

// LedgerEntryResponse represents one ledger movement.
type LedgerEntryResponse struct {
	LineID       string    `json:"lineId"`
	RecorderID   string    `json:"recorderId"`
	RecorderType string    `json:"recorderType"`
	Period       time.Time `json:"period"`
	RecordType   string    `json:"recordType"`
	ItemID       string    `json:"itemId"`
	Quantity     float64   `json:"quantity"`
	CreatedAt    time.Time `json:"createdAt"`
}

// FromLedgerEntry converts entity to response DTO.
func FromLedgerEntry(e entity.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		LineID:       e.LineID.String(),
		RecorderID:   e.RecorderID.String(),
		RecorderType: e.RecorderType,
		Period:       e.Period,
		RecordType:   string(e.RecordType),
		ItemID:       e.ItemID.String(),
		Quantity:     e.Quantity.Float64(),
		CreatedAt:    e.CreatedAt,
	}
}

// LedgerEntryListResponse wraps a movement history page.
type LedgerEntryListResponse struct {
	Items []LedgerEntryResponse `json:"items"`
}

// FromLedgerEntries converts a slice of entries.
func FromLedgerEntries(entries []entity.LedgerEntry) LedgerEntryListResponse {
	items := make([]LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, FromLedgerEntry(e))
	}
	return LedgerEntryListResponse{Items: items}
}
