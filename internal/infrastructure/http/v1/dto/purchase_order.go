package dto

import (
	"time"

	"stockops/internal/core/id"
	"stockops/internal/core/types"
	"stockops/internal/domain/documents/purchase_order"
)

// --- Request DTOs ---

// CreatePurchaseOrderRequest represents a request to create a purchase
// order. Orders are immutable after creation.
type CreatePurchaseOrderRequest struct {
	Number       string                     `json:"number,omitempty"`
	Date         time.Time                  `json:"date" binding:"required"`
	SupplierName string                     `json:"supplierName,omitempty"`
	Comment      string                     `json:"comment,omitempty"`
	Lines        []PurchaseOrderLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// PurchaseOrderLineRequest represents a purchased position.
type PurchaseOrderLineRequest struct {
	ItemID   string  `json:"itemId" binding:"required,uuid"`
	Quantity float64 `json:"quantity" binding:"required,gt=0"`
	UnitCost float64 `json:"unitCost" binding:"required,gte=0"`
}

// ToEntity converts request to domain entity.
func (r *CreatePurchaseOrderRequest) ToEntity() *purchase_order.PurchaseOrder {
	doc := purchase_order.New()
	doc.Number = r.Number
	doc.Date = r.Date
	doc.SupplierName = r.SupplierName
	doc.Comment = r.Comment

	for _, line := range r.Lines {
		itemID, _ := id.Parse(line.ItemID)
		doc.AddLine(itemID, types.NewQuantityFromFloat64(line.Quantity), types.NewMoney(line.UnitCost))
	}

	return doc
}

// --- Response DTOs ---

// PurchaseOrderLineResponse represents a purchase order line.
type PurchaseOrderLineResponse struct {
	LineID   string  `json:"lineId"`
	ItemID   string  `json:"itemId"`
	Quantity float64 `json:"quantity"`
	UnitCost string  `json:"unitCost"`
}

// PurchaseOrderResponse represents a purchase order with lines.
type PurchaseOrderResponse struct {
	DocumentResponse
	SupplierName string                      `json:"supplierName,omitempty"`
	Lines        []PurchaseOrderLineResponse `json:"lines"`
}

// FromPurchaseOrder converts entity to response DTO.
func FromPurchaseOrder(doc *purchase_order.PurchaseOrder) PurchaseOrderResponse {
	lines := make([]PurchaseOrderLineResponse, 0, len(doc.Lines))
	for _, line := range doc.Lines {
		lines = append(lines, PurchaseOrderLineResponse{
			LineID:   line.LineID.String(),
			ItemID:   line.ItemID.String(),
			Quantity: line.Quantity.Float64(),
			UnitCost: line.UnitCost.String(),
		})
	}

	return PurchaseOrderResponse{
		DocumentResponse: FromDocument(doc.Document),
		SupplierName:     doc.SupplierName,
		Lines:            lines,
	}
}

// FromPurchaseOrders converts a slice of entities.
func FromPurchaseOrders(docs []purchase_order.PurchaseOrder) []PurchaseOrderResponse {
	out := make([]PurchaseOrderResponse, 0, len(docs))
	for i := range docs {
		out = append(out, FromPurchaseOrder(&docs[i]))
	}
	return out
}
