package costing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockops/internal/core/id"
	"stockops/internal/core/types"
)

type fakeCostRepo struct {
	costs []PurchaseCost
	calls int
}

func (r *fakeCostRepo) GetCostHistory(_ context.Context, itemID id.ID, until time.Time) ([]PurchaseCost, error) {
	r.calls++
	var out []PurchaseCost
	for _, c := range r.costs {
		if c.ItemID == itemID && !c.OrderDate.After(until) {
			out = append(out, c)
		}
	}
	return out, nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolver_CostAsOf_MostRecentWins(t *testing.T) {
	itemID := id.New()
	repo := &fakeCostRepo{costs: []PurchaseCost{
		{ItemID: itemID, OrderDate: day(2026, 1, 10), UnitCost: types.MustMoney("4.00"), CreatedAt: day(2026, 1, 10)},
		{ItemID: itemID, OrderDate: day(2026, 3, 5), UnitCost: types.MustMoney("5.50"), CreatedAt: day(2026, 3, 5)},
		{ItemID: itemID, OrderDate: day(2026, 6, 1), UnitCost: types.MustMoney("7.25"), CreatedAt: day(2026, 6, 1)},
	}}
	resolver := NewResolver(repo)

	cost, resolved, err := resolver.CostAsOf(context.Background(), itemID, day(2026, 4, 1))
	require.NoError(t, err)
	assert.True(t, resolved)
	assert.True(t, cost.Equal(types.MustMoney("5.50")))
}

func TestResolver_CostAsOf_PurchaseOnTheDateCounts(t *testing.T) {
	itemID := id.New()
	repo := &fakeCostRepo{costs: []PurchaseCost{
		{ItemID: itemID, OrderDate: day(2026, 2, 14), UnitCost: types.MustMoney("9.99"), CreatedAt: day(2026, 2, 14)},
	}}
	resolver := NewResolver(repo)

	cost, resolved, err := resolver.CostAsOf(context.Background(), itemID, day(2026, 2, 14))
	require.NoError(t, err)
	assert.True(t, resolved)
	assert.True(t, cost.Equal(types.MustMoney("9.99")))
}

func TestResolver_CostAsOf_SameDateLatestCreatedWins(t *testing.T) {
	itemID := id.New()
	repo := &fakeCostRepo{costs: []PurchaseCost{
		{ItemID: itemID, OrderDate: day(2026, 2, 1), UnitCost: types.MustMoney("3.00"), CreatedAt: day(2026, 2, 1).Add(9 * time.Hour)},
		{ItemID: itemID, OrderDate: day(2026, 2, 1), UnitCost: types.MustMoney("3.40"), CreatedAt: day(2026, 2, 1).Add(15 * time.Hour)},
	}}
	resolver := NewResolver(repo)

	cost, resolved, err := resolver.CostAsOf(context.Background(), itemID, day(2026, 2, 2))
	require.NoError(t, err)
	assert.True(t, resolved)
	assert.True(t, cost.Equal(types.MustMoney("3.40")))
}

func TestResolver_CostAsOf_NoPurchaseBeforeDate(t *testing.T) {
	itemID := id.New()
	repo := &fakeCostRepo{costs: []PurchaseCost{
		{ItemID: itemID, OrderDate: day(2026, 5, 1), UnitCost: types.MustMoney("2.00"), CreatedAt: day(2026, 5, 1)},
	}}
	resolver := NewResolver(repo)

	cost, resolved, err := resolver.CostAsOf(context.Background(), itemID, day(2026, 4, 30))
	require.NoError(t, err)
	assert.False(t, resolved)
	assert.True(t, cost.IsZero())
}

func TestCachedResolver_MemoizesLookups(t *testing.T) {
	itemID := id.New()
	repo := &fakeCostRepo{costs: []PurchaseCost{
		{ItemID: itemID, OrderDate: day(2026, 1, 1), UnitCost: types.MustMoney("1.00"), CreatedAt: day(2026, 1, 1)},
	}}
	cached := NewCachedResolver(NewResolver(repo))

	asOf := day(2026, 1, 15)
	for i := 0; i < 3; i++ {
		cost, resolved, err := cached.CostAsOf(context.Background(), itemID, asOf)
		require.NoError(t, err)
		assert.True(t, resolved)
		assert.True(t, cost.Equal(types.MustMoney("1.00")))
	}

	assert.Equal(t, 1, repo.calls)
}
