package dto

import (
	"time"

	"stockops/internal/core/id"
	"stockops/internal/core/types"
	"stockops/internal/domain/documents/sales_order"
)

// --- Request DTOs ---

// CreateSalesOrderRequest represents a request to create a sales order.
type CreateSalesOrderRequest struct {
	Number       string                  `json:"number,omitempty"`
	Date         time.Time               `json:"date" binding:"required"`
	CustomerName string                  `json:"customerName,omitempty"`
	Comment      string                  `json:"comment,omitempty"`
	Lines        []SalesOrderLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// SalesOrderLineRequest represents an ordered position.
type SalesOrderLineRequest struct {
	ItemID    string  `json:"itemId" binding:"required,uuid"`
	Quantity  float64 `json:"quantity" binding:"required,gt=0"`
	UnitPrice float64 `json:"unitPrice" binding:"required,gte=0"`
}

// ToEntity converts request to domain entity.
func (r *CreateSalesOrderRequest) ToEntity() *sales_order.SalesOrder {
	doc := sales_order.New()
	doc.Number = r.Number
	doc.Date = r.Date
	doc.CustomerName = r.CustomerName
	doc.Comment = r.Comment

	for _, line := range r.Lines {
		itemID, _ := id.Parse(line.ItemID)
		doc.AddLine(itemID, types.NewQuantityFromFloat64(line.Quantity), types.NewMoney(line.UnitPrice))
	}

	return doc
}

// UpdateSalesOrderRequest represents a request to update a sales order.
type UpdateSalesOrderRequest struct {
	Date         *time.Time              `json:"date,omitempty"`
	CustomerName *string                 `json:"customerName,omitempty"`
	Comment      *string                 `json:"comment,omitempty"`
	Lines        []SalesOrderLineRequest `json:"lines,omitempty"`
	Version      int                     `json:"version" binding:"required,min=1"`
}

// ApplyTo applies updates to an existing entity.
func (r *UpdateSalesOrderRequest) ApplyTo(doc *sales_order.SalesOrder) {
	if r.Date != nil {
		doc.Date = *r.Date
	}
	if r.CustomerName != nil {
		doc.CustomerName = *r.CustomerName
	}
	if r.Comment != nil {
		doc.Comment = *r.Comment
	}
	if r.Lines != nil {
		doc.Lines = doc.Lines[:0]
		for _, line := range r.Lines {
			itemID, _ := id.Parse(line.ItemID)
			doc.AddLine(itemID, types.NewQuantityFromFloat64(line.Quantity), types.NewMoney(line.UnitPrice))
		}
	}
	doc.Version = r.Version
}

// --- Response DTOs ---

// SalesOrderLineResponse represents a sales order line.
type SalesOrderLineResponse struct {
	LineID    string  `json:"lineId"`
	ItemID    string  `json:"itemId"`
	Quantity  float64 `json:"quantity"`
	UnitPrice string  `json:"unitPrice"`
}

// SalesOrderResponse represents a sales order with lines.
type SalesOrderResponse struct {
	DocumentResponse
	CustomerName string                   `json:"customerName,omitempty"`
	Lines        []SalesOrderLineResponse `json:"lines"`
}

// FromSalesOrder converts entity to response DTO.
func FromSalesOrder(doc *sales_order.SalesOrder) SalesOrderResponse {
	lines := make([]SalesOrderLineResponse, 0, len(doc.Lines))
	for _, line := range doc.Lines {
		lines = append(lines, SalesOrderLineResponse{
			LineID:    line.LineID.String(),
			ItemID:    line.ItemID.String(),
			Quantity:  line.Quantity.Float64(),
			UnitPrice: line.UnitPrice.String(),
		})
	}

	return SalesOrderResponse{
		DocumentResponse: FromDocument(doc.Document),
		CustomerName:     doc.CustomerName,
		Lines:            lines,
	}
}

// FromSalesOrders converts a slice of entities.
func FromSalesOrders(docs []sales_order.SalesOrder) []SalesOrderResponse {
	out := make([]SalesOrderResponse, 0, len(docs))
	for i := range docs {
		out = append(out, FromSalesOrder(&docs[i]))
	}
	return out
}
