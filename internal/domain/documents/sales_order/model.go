// Package sales_order provides the customer order document: the source
// of sales prices for shipments.
package sales_order

import (
	"context"

	"stockops/internal/core/apperror"
	"stockops/internal/core/entity"
	"stockops/internal/core/id"
	"stockops/internal/core/types"
)

// DocumentType identifies sales orders in numbering and audit records.
const DocumentType = "SalesOrder"

// Line is one ordered position with the agreed sales price.
type Line struct {
	LineID id.ID `db:"line_id" json:"lineId"`

	// OrderID is the parent document
	OrderID id.ID `db:"order_id" json:"orderId"`

	ItemID   id.ID          `db:"item_id" json:"itemId"`
	Quantity types.Quantity `db:"quantity" json:"quantity"`

	// UnitPrice is the agreed sales price per unit
	UnitPrice types.Money `db:"unit_price" json:"unitPrice"`
}

// SalesOrder records what a customer ordered and at what price.
// Orders never move stock themselves; shipments do.
type SalesOrder struct {
	entity.Document

	// CustomerName is free-text; customers are not a managed catalog
	CustomerName string `db:"customer_name" json:"customerName,omitempty"`

	Lines []Line `db:"-" json:"lines"`
}

// New creates a sales order with generated ID.
func New() *SalesOrder {
	return &SalesOrder{Document: entity.NewDocument()}
}

// AddLine appends an ordered position.
func (o *SalesOrder) AddLine(itemID id.ID, quantity types.Quantity, unitPrice types.Money) {
	o.Lines = append(o.Lines, Line{
		LineID:    id.New(),
		OrderID:   o.ID,
		ItemID:    itemID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	})
}

// Validate implements Validatable interface.
func (o *SalesOrder) Validate(ctx context.Context) error {
	if err := o.Document.Validate(ctx); err != nil {
		return err
	}

	if len(o.Lines) == 0 {
		return apperror.NewValidation("sales order must have at least one line").
			WithDetail("field", "lines")
	}

	for i, line := range o.Lines {
		if id.IsNil(line.ItemID) {
			return apperror.NewValidation("line item is required").
				WithDetail("line", i)
		}
		if !line.Quantity.IsPositive() {
			return apperror.NewValidation("line quantity must be positive").
				WithDetail("line", i)
		}
		if line.UnitPrice.IsNegative() {
			return apperror.NewValidation("line unit price cannot be negative").
				WithDetail("line", i)
		}
	}

	return nil
}
