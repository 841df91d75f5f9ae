// Package item provides the Item catalog: the goods traded by the system.
package item

import (
	"context"

	"stockops/internal/core/apperror"
	"stockops/internal/core/entity"
	"stockops/internal/core/types"
)

// Item is a stock-keeping unit. Read-only to the posting and analytics
// core; mutated only through catalog management.
type Item struct {
	entity.Catalog

	// Category groups items for reporting
	Category string `db:"category" json:"category,omitempty"`

	// ListPrice is the current sales price per unit
	ListPrice types.Money `db:"list_price" json:"listPrice"`

	// Active marks whether the item can appear on new documents
	Active bool `db:"active" json:"active"`
}

// New creates an Item with generated ID.
func New(code, name string) *Item {
	return &Item{
		Catalog:   entity.NewCatalog(code, name),
		ListPrice: types.ZeroMoney(),
		Active:    true,
	}
}

// Validate implements Validatable interface.
func (i *Item) Validate(ctx context.Context) error {
	if err := i.Catalog.Validate(ctx); err != nil {
		return err
	}

	if i.ListPrice.IsNegative() {
		return apperror.NewValidation("list price cannot be negative").
			WithDetail("field", "listPrice")
	}

	return nil
}
