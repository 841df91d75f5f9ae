// Package receipt provides the goods receipt document: inbound stock.
package receipt

import (
	"context"

	"stockops/internal/core/apperror"
	"stockops/internal/core/entity"
	"stockops/internal/core/id"
	"stockops/internal/core/types"
	"stockops/internal/domain/posting"
)

// DocumentType identifies receipts in ledger entries and audit records.
const DocumentType = "Receipt"

// Line is one received item position.
type Line struct {
	// LineID identifies the line within the document
	LineID id.ID `db:"line_id" json:"lineId"`

	// ReceiptID is the parent document
	ReceiptID id.ID `db:"receipt_id" json:"receiptId"`

	ItemID   id.ID          `db:"item_id" json:"itemId"`
	Quantity types.Quantity `db:"quantity" json:"quantity"`
}

// Receipt records goods arriving from a supplier. Posting a receipt
// increases on-hand for every line.
type Receipt struct {
	entity.Document

	// SupplierName is free-text; suppliers are not a managed catalog
	SupplierName string `db:"supplier_name" json:"supplierName,omitempty"`

	Lines []Line `db:"-" json:"lines"`
}

// New creates an unposted receipt with generated ID.
func New() *Receipt {
	return &Receipt{Document: entity.NewDocument()}
}

// AddLine appends an item position.
func (r *Receipt) AddLine(itemID id.ID, quantity types.Quantity) {
	r.Lines = append(r.Lines, Line{
		LineID:    id.New(),
		ReceiptID: r.ID,
		ItemID:    itemID,
		Quantity:  quantity,
	})
}

// Validate implements Validatable interface.
func (r *Receipt) Validate(ctx context.Context) error {
	if err := r.Document.Validate(ctx); err != nil {
		return err
	}

	if len(r.Lines) == 0 {
		return apperror.NewValidation("receipt must have at least one line").
			WithDetail("field", "lines")
	}

	for i, line := range r.Lines {
		if id.IsNil(line.ItemID) {
			return apperror.NewValidation("line item is required").
				WithDetail("line", i)
		}
		if !line.Quantity.IsPositive() {
			return apperror.NewValidation("line quantity must be positive").
				WithDetail("line", i).
				WithDetail("quantity", line.Quantity.String())
		}
	}

	return nil
}

// GetDocumentType implements posting.Postable.
func (r *Receipt) GetDocumentType() string {
	return DocumentType
}

// CanPost implements posting.Postable.
func (r *Receipt) CanPost(ctx context.Context) error {
	return r.Validate(ctx)
}

// GenerateMovements implements posting.Postable: one receipt entry per line.
func (r *Receipt) GenerateMovements(_ context.Context) (*posting.MovementSet, error) {
	set := posting.NewMovementSet()
	version := r.PostedVersion + 1

	for _, line := range r.Lines {
		set.AddStock(entity.NewLedgerEntry(
			r.ID,
			DocumentType,
			version,
			r.Date,
			entity.RecordTypeReceipt,
			line.ItemID,
			line.Quantity,
		))
	}

	return set, nil
}
