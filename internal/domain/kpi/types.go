// Package kpi aggregates sales analytics: revenue, attributed cost and
// margin over a date range, with a per-item margin ranking.
package kpi

import (
	"time"

	"stockops/internal/core/id"
	"stockops/internal/core/types"
)

// ShippedLine is one shipped sales line within the reporting window.
// Only lines of posted shipments participate in analytics.
type ShippedLine struct {
	ItemID id.ID `db:"item_id" json:"itemId"`

	// ShipDate is the business date of the parent shipment; cost is
	// attributed as of this date.
	ShipDate time.Time `db:"ship_date" json:"shipDate"`

	// Quantity is the shipped quantity
	Quantity types.Quantity `db:"quantity" json:"quantity"`

	// UnitPrice is the sales price per unit from the sales order line
	UnitPrice types.Money `db:"unit_price" json:"unitPrice"`
}

// ItemMargin is the per-item aggregate used in the ranking.
type ItemMargin struct {
	ItemID  id.ID       `json:"itemId"`
	Revenue types.Money `json:"revenue"`
	Cost    types.Money `json:"cost"`
	Margin  types.Money `json:"margin"`
}

// SalesKPI is the result of one aggregation pass.
type SalesKPI struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`

	Revenue types.Money `json:"revenue"`
	Cost    types.Money `json:"cost"`
	Margin  types.Money `json:"margin"`

	// UnresolvedLines counts shipped lines whose cost could not be
	// attributed and was taken as zero. Nonzero means the margin figure
	// overstates profit.
	UnresolvedLines int `json:"unresolvedLines"`

	TopItems []ItemMargin `json:"topItems"`
}
