package kpi

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockops/internal/core/id"
	"stockops/internal/core/types"
	"stockops/internal/domain/costing"
)

type fakeSalesRepo struct {
	lines []ShippedLine
}

func (r *fakeSalesRepo) GetShippedLines(_ context.Context, startDate, endDate time.Time) ([]ShippedLine, error) {
	var out []ShippedLine
	for _, l := range r.lines {
		if !l.ShipDate.Before(startDate) && !l.ShipDate.After(endDate) {
			out = append(out, l)
		}
	}
	return out, nil
}

type fakeCostRepo struct {
	costs []costing.PurchaseCost
}

func (r *fakeCostRepo) GetCostHistory(_ context.Context, itemID id.ID, until time.Time) ([]costing.PurchaseCost, error) {
	var out []costing.PurchaseCost
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

func qty(v float64) types.Quantity { return types.NewQuantityFromFloat64(v) }

func newService(sales *fakeSalesRepo, costs *fakeCostRepo) *Service {
	return NewService(sales, costing.NewResolver(costs))
}

func TestService_Compute_CostAttributedAsOfShipDate(t *testing.T) {
	itemX := id.New()
	sales := &fakeSalesRepo{lines: []ShippedLine{
		{ItemID: itemX, ShipDate: day(2024, 2, 1), Quantity: qty(5), UnitPrice: types.MustMoney("20")},
	}}
	costs := &fakeCostRepo{costs: []costing.PurchaseCost{
		{ItemID: itemX, OrderDate: day(2024, 1, 1), UnitCost: types.MustMoney("10"), CreatedAt: day(2024, 1, 1)},
		{ItemID: itemX, OrderDate: day(2024, 3, 1), UnitCost: types.MustMoney("12"), CreatedAt: day(2024, 3, 1)},
	}}

	result, err := newService(sales, costs).Compute(context.Background(), day(2024, 1, 1), day(2024, 12, 31), 0)
	require.NoError(t, err)

	// The February shipment must not see the March cost.
	assert.True(t, result.Revenue.Equal(types.MustMoney("100")), "revenue = %s", result.Revenue)
	assert.True(t, result.Cost.Equal(types.MustMoney("50")), "cost = %s", result.Cost)
	assert.True(t, result.Margin.Equal(types.MustMoney("50")), "margin = %s", result.Margin)
	assert.Zero(t, result.UnresolvedLines)
}

func TestService_Compute_UnresolvedCostCountsAsZero(t *testing.T) {
	itemX := id.New()
	sales := &fakeSalesRepo{lines: []ShippedLine{
		{ItemID: itemX, ShipDate: day(2024, 2, 1), Quantity: qty(3), UnitPrice: types.MustMoney("15")},
	}}

	result, err := newService(sales, &fakeCostRepo{}).Compute(context.Background(), day(2024, 1, 1), day(2024, 12, 31), 0)
	require.NoError(t, err)

	assert.Equal(t, 1, result.UnresolvedLines)
	assert.True(t, result.Revenue.Equal(types.MustMoney("45")))
	assert.True(t, result.Cost.IsZero())
	assert.True(t, result.Margin.Equal(result.Revenue.Sub(result.Cost)))
}

func TestService_Compute_InclusiveBoundaries(t *testing.T) {
	itemX := id.New()
	sales := &fakeSalesRepo{lines: []ShippedLine{
		{ItemID: itemX, ShipDate: day(2024, 1, 1), Quantity: qty(1), UnitPrice: types.MustMoney("10")},
		{ItemID: itemX, ShipDate: day(2024, 1, 31), Quantity: qty(1), UnitPrice: types.MustMoney("10")},
		{ItemID: itemX, ShipDate: day(2024, 2, 1), Quantity: qty(1), UnitPrice: types.MustMoney("10")},
	}}

	result, err := newService(sales, &fakeCostRepo{}).Compute(context.Background(), day(2024, 1, 1), day(2024, 1, 31), 0)
	require.NoError(t, err)

	// Both boundary days count; the February line does not.
	assert.True(t, result.Revenue.Equal(types.MustMoney("20")), "revenue = %s", result.Revenue)
}

func TestService_Compute_EmptyWindowYieldsZeros(t *testing.T) {
	result, err := newService(&fakeSalesRepo{}, &fakeCostRepo{}).
		Compute(context.Background(), day(2024, 6, 1), day(2024, 6, 30), 0)
	require.NoError(t, err)

	assert.True(t, result.Revenue.IsZero())
	assert.True(t, result.Cost.IsZero())
	assert.True(t, result.Margin.IsZero())
	assert.Empty(t, result.TopItems)
}

func TestService_Compute_InvertedWindowYieldsZeros(t *testing.T) {
	itemX := id.New()
	sales := &fakeSalesRepo{lines: []ShippedLine{
		{ItemID: itemX, ShipDate: day(2024, 3, 15), Quantity: qty(2), UnitPrice: types.MustMoney("10")},
	}}

	result, err := newService(sales, &fakeCostRepo{}).
		Compute(context.Background(), day(2024, 4, 1), day(2024, 3, 1), 0)
	require.NoError(t, err)

	assert.True(t, result.Revenue.IsZero())
	assert.Empty(t, result.TopItems)
}

func TestService_Compute_TopNRankingWithTies(t *testing.T) {
	// Seven items: margins 70, 60, 50, 40, 40, 30, 20. Unit costs are
	// absent so margin equals revenue.
	margins := []string{"70", "60", "50", "40", "40", "30", "20"}
	items := make([]id.ID, len(margins))
	sales := &fakeSalesRepo{}
	for i, m := range margins {
		items[i] = id.New()
		sales.lines = append(sales.lines, ShippedLine{
			ItemID:    items[i],
			ShipDate:  day(2024, 5, 10),
			Quantity:  qty(1),
			UnitPrice: types.MustMoney(m),
		})
	}

	result, err := newService(sales, &fakeCostRepo{}).
		Compute(context.Background(), day(2024, 5, 1), day(2024, 5, 31), 5)
	require.NoError(t, err)

	require.Len(t, result.TopItems, 5)
	for i := 1; i < len(result.TopItems); i++ {
		prev, cur := result.TopItems[i-1], result.TopItems[i]
		cmp := prev.Margin.Cmp(cur.Margin)
		require.GreaterOrEqual(t, cmp, 0, "margins must descend")
		if cmp == 0 {
			assert.Less(t, prev.ItemID.String(), cur.ItemID.String(), "ties break by item id ascending")
		}
	}

	// The two 40-margin items tie; exactly one of them makes the cut,
	// the lexicographically smaller one.
	tieA, tieB := items[3], items[4]
	winner := tieA
	if tieB.String() < tieA.String() {
		winner = tieB
	}
	assert.Equal(t, winner, result.TopItems[4].ItemID)
}

func TestService_Compute_PerItemAggregation(t *testing.T) {
	itemX := id.New()
	sales := &fakeSalesRepo{lines: []ShippedLine{
		{ItemID: itemX, ShipDate: day(2024, 7, 1), Quantity: qty(2), UnitPrice: types.MustMoney("10")},
		{ItemID: itemX, ShipDate: day(2024, 7, 2), Quantity: qty(3), UnitPrice: types.MustMoney("10")},
	}}
	costs := &fakeCostRepo{costs: []costing.PurchaseCost{
		{ItemID: itemX, OrderDate: day(2024, 6, 1), UnitCost: types.MustMoney("4"), CreatedAt: day(2024, 6, 1)},
	}}

	result, err := newService(sales, costs).Compute(context.Background(), day(2024, 7, 1), day(2024, 7, 31), 0)
	require.NoError(t, err)

	require.Len(t, result.TopItems, 1)
	item := result.TopItems[0]
	assert.Equal(t, itemX, item.ItemID)
	assert.True(t, item.Revenue.Equal(types.MustMoney("50")))
	assert.True(t, item.Cost.Equal(types.MustMoney("20")))
	assert.True(t, item.Margin.Equal(types.MustMoney("30")))
}
