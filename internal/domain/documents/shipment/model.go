// Package shipment provides the goods shipment document: outbound stock
// against a sales order.
package shipment

import (
	"context"

	"stockops/internal/core/apperror"
	"stockops/internal/core/entity"
	"stockops/internal/core/id"
	"stockops/internal/core/types"
	"stockops/internal/domain/posting"
)

// DocumentType identifies shipments in ledger entries and audit records.
const DocumentType = "Shipment"

// Line is one shipped position. It carries the sales price copied from
// the originating sales order line, so analytics never needs a join at
// read time.
type Line struct {
	LineID id.ID `db:"line_id" json:"lineId"`

	// ShipmentID is the parent document
	ShipmentID id.ID `db:"shipment_id" json:"shipmentId"`

	// SalesOrderLineID links back to the ordered position
	SalesOrderLineID id.ID `db:"sales_order_line_id" json:"salesOrderLineId"`

	ItemID   id.ID          `db:"item_id" json:"itemId"`
	Quantity types.Quantity `db:"quantity" json:"quantity"`

	// UnitPrice is the sales price per unit at order time
	UnitPrice types.Money `db:"unit_price" json:"unitPrice"`
}

// Shipment records goods leaving stock. The document date is the ship
// date: posting decreases on-hand, and cost attribution for analytics
// is pinned to this date.
type Shipment struct {
	entity.Document

	// SalesOrderID is the order being fulfilled
	SalesOrderID id.ID `db:"sales_order_id" json:"salesOrderId"`

	Lines []Line `db:"-" json:"lines"`
}

// New creates an unposted shipment with generated ID.
func New(salesOrderID id.ID) *Shipment {
	return &Shipment{
		Document:     entity.NewDocument(),
		SalesOrderID: salesOrderID,
	}
}

// AddLine appends a shipped position.
func (s *Shipment) AddLine(salesOrderLineID, itemID id.ID, quantity types.Quantity, unitPrice types.Money) {
	s.Lines = append(s.Lines, Line{
		LineID:           id.New(),
		ShipmentID:       s.ID,
		SalesOrderLineID: salesOrderLineID,
		ItemID:           itemID,
		Quantity:         quantity,
		UnitPrice:        unitPrice,
	})
}

// Validate implements Validatable interface.
func (s *Shipment) Validate(ctx context.Context) error {
	if err := s.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(s.SalesOrderID) {
		return apperror.NewValidation("sales order is required").
			WithDetail("field", "salesOrderId")
	}
	if len(s.Lines) == 0 {
		return apperror.NewValidation("shipment must have at least one line").
			WithDetail("field", "lines")
	}

	for i, line := range s.Lines {
		if id.IsNil(line.ItemID) {
			return apperror.NewValidation("line item is required").
				WithDetail("line", i)
		}
		if !line.Quantity.IsPositive() {
			return apperror.NewValidation("line quantity must be positive").
				WithDetail("line", i).
				WithDetail("quantity", line.Quantity.String())
		}
		if line.UnitPrice.IsNegative() {
			return apperror.NewValidation("line unit price cannot be negative").
				WithDetail("line", i)
		}
	}

	return nil
}

// GetDocumentType implements posting.Postable.
func (s *Shipment) GetDocumentType() string {
	return DocumentType
}

// CanPost implements posting.Postable.
func (s *Shipment) CanPost(ctx context.Context) error {
	return s.Validate(ctx)
}

// GenerateMovements implements posting.Postable: one expense entry per
// line. The sufficiency guard runs at posting time, not here.
func (s *Shipment) GenerateMovements(_ context.Context) (*posting.MovementSet, error) {
	set := posting.NewMovementSet()
	version := s.PostedVersion + 1

	for _, line := range s.Lines {
		set.AddStock(entity.NewLedgerEntry(
			s.ID,
			DocumentType,
			version,
			s.Date,
			entity.RecordTypeExpense,
			line.ItemID,
			line.Quantity,
		))
	}

	return set, nil
}
