package dto

import (
	"time"

	"stockops/internal/core/id"
	"stockops/internal/core/types"
	"stockops/internal/domain/documents/receipt"
)

// --- Request DTOs ---

// CreateReceiptRequest represents a request to create a goods receipt.
type CreateReceiptRequest struct {
	Number       string               `json:"number,omitempty"`
	Date         time.Time            `json:"date" binding:"required"`
	SupplierName string               `json:"supplierName,omitempty"`
	Comment      string               `json:"comment,omitempty"`
	Lines        []ReceiptLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ReceiptLineRequest represents a line in a create/update request.
type ReceiptLineRequest struct {
	ItemID   string  `json:"itemId" binding:"required,uuid"`
	Quantity float64 `json:"quantity" binding:"required,gt=0"`
}

// ToEntity converts request to domain entity.
func (r *CreateReceiptRequest) ToEntity() *receipt.Receipt {
	doc := receipt.New()
	doc.Number = r.Number
	doc.Date = r.Date
	doc.SupplierName = r.SupplierName
	doc.Comment = r.Comment

	for _, line := range r.Lines {
		itemID, _ := id.Parse(line.ItemID)
		doc.AddLine(itemID, types.NewQuantityFromFloat64(line.Quantity))
	}

	return doc
}

// UpdateReceiptRequest represents a request to update a draft receipt.
type UpdateReceiptRequest struct {
	Date         *time.Time           `json:"date,omitempty"`
	SupplierName *string              `json:"supplierName,omitempty"`
	Comment      *string              `json:"comment,omitempty"`
	Lines        []ReceiptLineRequest `json:"lines,omitempty"`
	Version      int                  `json:"version" binding:"required,min=1"`
}

// ApplyTo applies updates to an existing entity.
func (r *UpdateReceiptRequest) ApplyTo(doc *receipt.Receipt) {
	if r.Date != nil {
		doc.Date = *r.Date
	}
	if r.SupplierName != nil {
		doc.SupplierName = *r.SupplierName
	}
	if r.Comment != nil {
		doc.Comment = *r.Comment
	}
	if r.Lines != nil {
		doc.Lines = doc.Lines[:0]
		for _, line := range r.Lines {
			itemID, _ := id.Parse(line.ItemID)
			doc.AddLine(itemID, types.NewQuantityFromFloat64(line.Quantity))
		}
	}
	doc.Version = r.Version
}

// --- Response DTOs ---

// ReceiptLineResponse represents a receipt line.
type ReceiptLineResponse struct {
	LineID   string  `json:"lineId"`
	ItemID   string  `json:"itemId"`
	Quantity float64 `json:"quantity"`
}

// ReceiptResponse represents a receipt with lines.
type ReceiptResponse struct {
	DocumentResponse
	SupplierName string                `json:"supplierName,omitempty"`
	Lines        []ReceiptLineResponse `json:"lines"`
}

// FromReceipt converts entity to response DTO.
func FromReceipt(doc *receipt.Receipt) ReceiptResponse {
	lines := make([]ReceiptLineResponse, 0, len(doc.Lines))
	for _, line := range doc.Lines {
		lines = append(lines, ReceiptLineResponse{
			LineID:   line.LineID.String(),
			ItemID:   line.ItemID.String(),
			Quantity: line.Quantity.Float64(),
		})
	}

	return ReceiptResponse{
		DocumentResponse: FromDocument(doc.Document),
		SupplierName:     doc.SupplierName,
		Lines:            lines,
	}
}

// FromReceipts converts a slice of entities.
func FromReceipts(docs []receipt.Receipt) []ReceiptResponse {
	out := make([]ReceiptResponse, 0, len(docs))
	for i := range docs {
		out = append(out, FromReceipt(&docs[i]))
	}
	return out
}
