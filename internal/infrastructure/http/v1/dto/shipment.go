package dto

import (
	"time"

	"stockops/internal/core/id"
	"stockops/internal/core/types"
	"stockops/internal/domain/documents/shipment"
)

// --- Request DTOs ---

// CreateShipmentRequest represents a request to create a shipment
// against a sales order. Prices are not accepted here: the service
// copies them from the order lines.
type CreateShipmentRequest struct {
	Number       string                `json:"number,omitempty"`
	Date         time.Time             `json:"date" binding:"required"`
	SalesOrderID string                `json:"salesOrderId" binding:"required,uuid"`
	Comment      string                `json:"comment,omitempty"`
	Lines        []ShipmentLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ShipmentLineRequest represents a shipped position.
type ShipmentLineRequest struct {
	SalesOrderLineID string  `json:"salesOrderLineId" binding:"required,uuid"`
	ItemID           string  `json:"itemId" binding:"required,uuid"`
	Quantity         float64 `json:"quantity" binding:"required,gt=0"`
}

// ToEntity converts request to domain entity. Unit prices stay zero
// here; the shipment service fills them from the order lines.
func (r *CreateShipmentRequest) ToEntity() *shipment.Shipment {
	salesOrderID, _ := id.Parse(r.SalesOrderID)

	doc := shipment.New(salesOrderID)
	doc.Number = r.Number
	doc.Date = r.Date
	doc.Comment = r.Comment

	for _, line := range r.Lines {
		orderLineID, _ := id.Parse(line.SalesOrderLineID)
		itemID, _ := id.Parse(line.ItemID)
		doc.AddLine(orderLineID, itemID, types.NewQuantityFromFloat64(line.Quantity), types.ZeroMoney())
	}

	return doc
}

// UpdateShipmentRequest represents a request to update a draft shipment.
type UpdateShipmentRequest struct {
	Date    *time.Time            `json:"date,omitempty"`
	Comment *string               `json:"comment,omitempty"`
	Lines   []ShipmentLineRequest `json:"lines,omitempty"`
	Version int                   `json:"version" binding:"required,min=1"`
}

// ApplyTo applies updates to an existing entity. Replaced lines drop
// their copied prices; the service re-fills them from the order.
func (r *UpdateShipmentRequest) ApplyTo(doc *shipment.Shipment) {
	if r.Date != nil {
		doc.Date = *r.Date
	}
	if r.Comment != nil {
		doc.Comment = *r.Comment
	}
	if r.Lines != nil {
		doc.Lines = doc.Lines[:0]
		for _, line := range r.Lines {
			orderLineID, _ := id.Parse(line.SalesOrderLineID)
			itemID, _ := id.Parse(line.ItemID)
			doc.AddLine(orderLineID, itemID, types.NewQuantityFromFloat64(line.Quantity), types.ZeroMoney())
		}
	}
	doc.Version = r.Version
}

// --- Response DTOs ---

// ShipmentLineResponse represents a shipment line.
type ShipmentLineResponse struct {
	LineID           string  `json:"lineId"`
	SalesOrderLineID string  `json:"salesOrderLineId"`
	ItemID           string  `json:"itemId"`
	Quantity         float64 `json:"quantity"`
	UnitPrice        string  `json:"unitPrice"`
}

// ShipmentResponse represents a shipment with lines.
type ShipmentResponse struct {
	DocumentResponse
	SalesOrderID string                 `json:"salesOrderId"`
	Lines        []ShipmentLineResponse `json:"lines"`
}

// FromShipment converts entity to response DTO.
func FromShipment(doc *shipment.Shipment) ShipmentResponse {
	lines := make([]ShipmentLineResponse, 0, len(doc.Lines))
	for _, line := range doc.Lines {
		lines = append(lines, ShipmentLineResponse{
			LineID:           line.LineID.String(),
			SalesOrderLineID: line.SalesOrderLineID.String(),
			ItemID:           line.ItemID.String(),
			Quantity:         line.Quantity.Float64(),
			UnitPrice:        line.UnitPrice.String(),
		})
	}

	return ShipmentResponse{
		DocumentResponse: FromDocument(doc.Document),
		SalesOrderID:     doc.SalesOrderID.String(),
		Lines:            lines,
	}
}

// FromShipments converts a slice of entities.
func FromShipments(docs []shipment.Shipment) []ShipmentResponse {
	out := make([]ShipmentResponse, 0, len(docs))
	for i := range docs {
		out = append(out, FromShipment(&docs[i]))
	}
	return out
}
