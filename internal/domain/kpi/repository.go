package kpi

import (
	"context"
	"time"
)

// Repository reads shipped sales history.
type Repository interface {
	// GetShippedLines returns lines of posted shipments whose ship date
	// falls in [startDate, endDate], both boundaries inclusive.
	GetShippedLines(ctx context.Context, startDate, endDate time.Time) ([]ShippedLine, error)
}
