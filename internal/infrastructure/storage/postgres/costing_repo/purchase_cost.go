// Package costing_repo reads purchase cost history from purchase order
// tables.
package costing_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockops/internal/core/id"
	"stockops/internal/domain/costing"
	"stockops/internal/infrastructure/storage/postgres"
)

// PurchaseCostRepo implements costing.Repository over the purchase
// order header and line tables. Marked-deleted orders stop contributing
// to cost attribution.
type PurchaseCostRepo struct {
	txManager *postgres.TxManager
}

// NewPurchaseCostRepo creates a new purchase cost repository.
func NewPurchaseCostRepo(txManager *postgres.TxManager) *PurchaseCostRepo {
	return &PurchaseCostRepo{txManager: txManager}
}

func (r *PurchaseCostRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// GetCostHistory returns purchase costs for an item with order date not
// after until, ordered by order date then header creation time.
func (r *PurchaseCostRepo) GetCostHistory(ctx context.Context, itemID id.ID, until time.Time) ([]costing.PurchaseCost, error) {
	q := r.builder().
		Select(
			"l.item_id",
			"h.date AS order_date",
			"l.unit_cost",
			"h.id AS source_id",
			"h.created_at",
		).
		From("doc_purchase_order_lines l").
		Join("doc_purchase_orders h ON h.id = l.order_id").
		Where(squirrel.Eq{"l.item_id": itemID}).
		Where(squirrel.Eq{"h.deletion_mark": false}).
		Where(squirrel.LtOrEq{"h.date": until}).
		OrderBy("h.date ASC", "h.created_at ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var costs []costing.PurchaseCost
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &costs, sql, args...); err != nil {
		return nil, fmt.Errorf("get cost history: %w", err)
	}

	return costs, nil
}

// Ensure interface compliance.
var _ costing.Repository = (*PurchaseCostRepo)(nil)
