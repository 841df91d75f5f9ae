// Package kpi_repo reads shipped sales history for analytics.
package kpi_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockops/internal/domain/kpi"
	"stockops/internal/infrastructure/storage/postgres"
)

// SalesRepo implements kpi.Repository. Only posted, non-deleted
// shipments feed the aggregation.
type SalesRepo struct {
	txManager *postgres.TxManager
}

// NewSalesRepo creates a new sales analytics repository.
func NewSalesRepo(txManager *postgres.TxManager) *SalesRepo {
	return &SalesRepo{txManager: txManager}
}

func (r *SalesRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// GetShippedLines returns lines of posted shipments whose ship date
// falls in [startDate, endDate], both boundaries inclusive.
func (r *SalesRepo) GetShippedLines(ctx context.Context, startDate, endDate time.Time) ([]kpi.ShippedLine, error) {
	q := r.builder().
		Select(
			"l.item_id",
			"h.date AS ship_date",
			"l.quantity",
			"l.unit_price",
		).
		From("doc_shipment_lines l").
		Join("doc_shipments h ON h.id = l.shipment_id").
		Where(squirrel.Eq{"h.posted": true}).
		Where(squirrel.Eq{"h.deletion_mark": false}).
		Where(squirrel.GtOrEq{"h.date": startDate}).
		Where(squirrel.LtOrEq{"h.date": endDate}).
		OrderBy("h.date ASC", "l.line_id ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []kpi.ShippedLine
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get shipped lines: %w", err)
	}

	return lines, nil
}

// Ensure interface compliance.
var _ kpi.Repository = (*SalesRepo)(nil)
