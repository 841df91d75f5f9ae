package costing

import (
	"context"
	"time"

	"stockops/internal/core/id"
	"stockops/internal/core/types"
	"stockops/pkg/logger"
)

// Resolver attributes a unit cost to an item as of a given date.
type Resolver struct {
	repo Repository
}

// NewResolver creates a cost resolver.
func NewResolver(repo Repository) *Resolver {
	return &Resolver{repo: repo}
}

// CostAsOf returns the unit cost of the most recent purchase of itemID
// with order date not after asOf. The second return value is false when
// no purchase exists in that window: the caller decides how to treat an
// unattributable cost, the resolver never substitutes zero silently.
func (r *Resolver) CostAsOf(ctx context.Context, itemID id.ID, asOf time.Time) (types.Money, bool, error) {
	history, err := r.repo.GetCostHistory(ctx, itemID, asOf)
	if err != nil {
		return types.ZeroMoney(), false, err
	}
	if len(history) == 0 {
		logger.Debug(ctx, "no purchase cost found",
			"item_id", itemID,
			"as_of", asOf,
		)
		return types.ZeroMoney(), false, nil
	}

	best := history[0]
	for _, cost := range history[1:] {
		if cost.OrderDate.After(best.OrderDate) {
			best = cost
			continue
		}
		// Same order date: the later-created purchase wins.
		if cost.OrderDate.Equal(best.OrderDate) && cost.CreatedAt.After(best.CreatedAt) {
			best = cost
		}
	}

	return best.UnitCost, true, nil
}

// CachedResolver memoizes CostAsOf lookups for the lifetime of one
// computation. Not safe for concurrent use; intended for a single
// aggregation pass over many lines sharing items and dates.
type CachedResolver struct {
	inner *Resolver
	cache map[costKey]costValue
}

type costKey struct {
	itemID id.ID
	asOf   time.Time
}

type costValue struct {
	cost     types.Money
	resolved bool
}

// NewCachedResolver wraps a resolver with a per-pass memo cache.
func NewCachedResolver(inner *Resolver) *CachedResolver {
	return &CachedResolver{
		inner: inner,
		cache: make(map[costKey]costValue),
	}
}

// CostAsOf resolves through the cache.
func (c *CachedResolver) CostAsOf(ctx context.Context, itemID id.ID, asOf time.Time) (types.Money, bool, error) {
	key := costKey{itemID: itemID, asOf: asOf.UTC().Truncate(time.Second)}
	if v, ok := c.cache[key]; ok {
		return v.cost, v.resolved, nil
	}

	cost, resolved, err := c.inner.CostAsOf(ctx, itemID, asOf)
	if err != nil {
		return types.ZeroMoney(), false, err
	}

	c.cache[key] = costValue{cost: cost, resolved: resolved}
	return cost, resolved, nil
}
