// Package costing resolves unit costs for shipped goods from purchase
// history. The attribution rule is "most recent purchase as of a date":
// the unit cost of the latest purchase order line for the item whose
// order date does not exceed the date being costed.
package costing

import (
	"context"
	"time"

	"stockops/internal/core/id"
	"stockops/internal/core/types"
)

// PurchaseCost is one purchase event usable as a cost source.
type PurchaseCost struct {
	ItemID id.ID `db:"item_id" json:"itemId"`

	// OrderDate is the business date of the purchase order
	OrderDate time.Time `db:"order_date" json:"orderDate"`

	// UnitCost is the purchase price per unit
	UnitCost types.Money `db:"unit_cost" json:"unitCost"`

	// SourceID is the purchase order the cost came from
	SourceID id.ID `db:"source_id" json:"sourceId"`

	// CreatedAt breaks ties between purchases on the same order date
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Repository provides purchase cost history.
type Repository interface {
	// GetCostHistory returns purchase costs for an item with order date
	// not after until, ordered by order date then creation time ascending.
	GetCostHistory(ctx context.Context, itemID id.ID, until time.Time) ([]PurchaseCost, error)
}
