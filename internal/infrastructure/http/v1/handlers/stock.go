package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"stockops/internal/core/apperror"
	"stockops/internal/core/entity"
	"stockops/internal/core/id"
	"stockops/internal/core/types"
	"stockops/internal/domain/catalogs/item"
	"stockops/internal/domain/registers/stock"
	"stockops/internal/infrastructure/http/v1/dto"
)

// StockHandler exposes the stock ledger: on-hand balances and movement
// history.
type StockHandler struct {
	*BaseHandler
	items  *item.Service
	ledger *stock.Service
}

// NewStockHandler creates a new stock handler.
func NewStockHandler(base *BaseHandler, items *item.Service, ledger *stock.Service) *StockHandler {
	return &StockHandler{BaseHandler: base, items: items, ledger: ledger}
}

// OnHand handles GET /items/:id/stock. An item with no posted
// movements reports zero; an unknown item is NotFound. With an asOf
// query parameter the balance is derived from the ledger as of that
// moment instead of the current materialized balance.
func (h *StockHandler) OnHand(c *gin.Context) {
	itemID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var onHand types.Quantity
	if asOf := c.Query("asOf"); asOf != "" {
		at, parseErr := parsePointInTime(asOf)
		if parseErr != nil {
			h.Error(c, apperror.NewValidation("invalid asOf date").WithDetail("as_of", asOf))
			return
		}
		onHand, err = h.items.OnHandAt(c.Request.Context(), itemID, at)
	} else {
		onHand, err = h.items.OnHand(c.Request.Context(), itemID)
	}
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewStockResponse(itemID, onHand))
}

// parsePointInTime accepts a date or a full RFC3339 timestamp. A bare
// date means end of that day, so "as of 2026-03-01" includes the whole
// day's movements.
func parsePointInTime(value string) (time.Time, error) {
	if day, err := time.Parse("2006-01-02", value); err == nil {
		return day.AddDate(0, 0, 1).Add(-time.Nanosecond), nil
	}
	return time.Parse(time.RFC3339, value)
}

// DocumentMovements handles GET /receipts/:id/movements and
// GET /shipments/:id/movements: the ledger entries a posted document
// produced. An unposted document has none.
func (h *StockHandler) DocumentMovements(c *gin.Context) {
	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	entries, err := h.ledger.EntriesForDocument(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromLedgerEntries(entries))
}

// Movements handles GET /items/:id/movements.
func (h *StockHandler) Movements(c *gin.Context) {
	itemID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	filter := stock.EntryFilter{
		Limit:  h.ParseIntQuery(c, "limit", 100),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	if recordType := c.Query("recordType"); recordType != "" {
		rt := entity.RecordType(recordType)
		if rt != entity.RecordTypeReceipt && rt != entity.RecordTypeExpense {
			h.Error(c, apperror.NewValidation("invalid record type").WithDetail("record_type", recordType))
			return
		}
		filter.RecordType = &rt
	}

	if from := c.Query("fromDate"); from != "" {
		if parsed, err := time.Parse(time.RFC3339, from); err == nil {
			filter.FromDate = &parsed
		}
	}
	if to := c.Query("toDate"); to != "" {
		if parsed, err := time.Parse(time.RFC3339, to); err == nil {
			filter.ToDate = &parsed
		}
	}

	entries, err := h.ledger.GetEntryHistory(c.Request.Context(), itemID, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromLedgerEntries(entries))
}
