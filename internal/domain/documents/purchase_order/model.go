// Package purchase_order provides the supplier order document: the
// source of purchase costs for cost attribution.
package purchase_order

import (
	"context"

	"stockops/internal/core/apperror"
	"stockops/internal/core/entity"
	"stockops/internal/core/id"
	"stockops/internal/core/types"
)

// DocumentType identifies purchase orders in numbering and audit records.
const DocumentType = "PurchaseOrder"

// Line is one purchased position. Lines are immutable once the order is
// created: cost attribution depends on history never being rewritten.
type Line struct {
	LineID id.ID `db:"line_id" json:"lineId"`

	// OrderID is the parent document
	OrderID id.ID `db:"order_id" json:"orderId"`

	ItemID   id.ID          `db:"item_id" json:"itemId"`
	Quantity types.Quantity `db:"quantity" json:"quantity"`

	// UnitCost is the purchase price per unit
	UnitCost types.Money `db:"unit_cost" json:"unitCost"`
}

// PurchaseOrder records what was bought, when, and at what cost. The
// document date orders the cost history per item.
type PurchaseOrder struct {
	entity.Document

	// SupplierName is free-text; suppliers are not a managed catalog
	SupplierName string `db:"supplier_name" json:"supplierName,omitempty"`

	Lines []Line `db:"-" json:"lines"`
}

// New creates a purchase order with generated ID.
func New() *PurchaseOrder {
	return &PurchaseOrder{Document: entity.NewDocument()}
}

// AddLine appends a purchased position.
func (o *PurchaseOrder) AddLine(itemID id.ID, quantity types.Quantity, unitCost types.Money) {
	o.Lines = append(o.Lines, Line{
		LineID:   id.New(),
		OrderID:  o.ID,
		ItemID:   itemID,
		Quantity: quantity,
		UnitCost: unitCost,
	})
}

// Validate implements Validatable interface.
func (o *PurchaseOrder) Validate(ctx context.Context) error {
	if err := o.Document.Validate(ctx); err != nil {
		return err
	}

	if len(o.Lines) == 0 {
		return apperror.NewValidation("purchase order must have at least one line").
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
		if line.UnitCost.IsNegative() {
			return apperror.NewValidation("line unit cost cannot be negative").
				WithDetail("line", i)
		}
	}

	return nil
}
