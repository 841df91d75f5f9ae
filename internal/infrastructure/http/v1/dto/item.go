package dto

import (
	"stockops/internal/core/types"
	"stockops/internal/domain/catalogs/item"
)

// --- Request DTOs ---

// CreateItemRequest represents a request to create an item.
type CreateItemRequest struct {
	Code      string  `json:"code" binding:"required"`
	Name      string  `json:"name" binding:"required"`
	Category  string  `json:"category,omitempty"`
	ListPrice float64 `json:"listPrice,omitempty" binding:"omitempty,gte=0"`
}

// ToEntity converts request to domain entity.
func (r *CreateItemRequest) ToEntity() *item.Item {
	it := item.New(r.Code, r.Name)
	it.Category = r.Category
	it.ListPrice = types.NewMoney(r.ListPrice)
	return it
}

// UpdateItemRequest represents a request to update an item.
type UpdateItemRequest struct {
	Name      *string  `json:"name,omitempty"`
	Category  *string  `json:"category,omitempty"`
	ListPrice *float64 `json:"listPrice,omitempty" binding:"omitempty,gte=0"`
	Active    *bool    `json:"active,omitempty"`
	Version   int      `json:"version" binding:"required,min=1"`
}

// ApplyTo applies updates to an existing entity.
func (r *UpdateItemRequest) ApplyTo(it *item.Item) {
	if r.Name != nil {
		it.Name = *r.Name
	}
	if r.Category != nil {
		it.Category = *r.Category
	}
	if r.ListPrice != nil {
		it.ListPrice = types.NewMoney(*r.ListPrice)
	}
	if r.Active != nil {
		it.Active = *r.Active
	}
	it.Version = r.Version
}

// --- Response DTOs ---

// ItemResponse represents an item in API responses.
type ItemResponse struct {
	ID           string `json:"id"`
	Code         string `json:"code"`
	Name         string `json:"name"`
	Category     string `json:"category,omitempty"`
	ListPrice    string `json:"listPrice"`
	Active       bool   `json:"active"`
	DeletionMark bool   `json:"deletionMark"`
	Version      int    `json:"version"`
}

// FromItem converts entity to response DTO.
func FromItem(it *item.Item) ItemResponse {
	return ItemResponse{
		ID:           it.ID.String(),
		Code:         it.Code,
		Name:         it.Name,
		Category:     it.Category,
		ListPrice:    it.ListPrice.String(),
		Active:       it.Active,
		DeletionMark: it.DeletionMark,
		Version:      it.Version,
	}
}

// FromItems converts a slice of entities.
func FromItems(items []item.Item) []ItemResponse {
	out := make([]ItemResponse, 0, len(items))
	for i := range items {
		out = append(out, FromItem(&items[i]))
	}
	return out
}
