package kpi

import (
	"context"
	"sort"
	"time"

	"stockops/internal/core/id"
	"stockops/internal/core/types"
	"stockops/internal/domain/costing"
	"stockops/pkg/logger"
)

// DefaultTopN is the ranking size used when the caller does not ask for
// a specific one.
const DefaultTopN = 5

// Service computes sales KPIs.
type Service struct {
	repo     Repository
	resolver *costing.Resolver
}

// NewService creates a KPI service.
func NewService(repo Repository, resolver *costing.Resolver) *Service {
	return &Service{repo: repo, resolver: resolver}
}

// Compute aggregates revenue, cost and margin over [startDate, endDate]
// and ranks the top topN items by margin, descending, ties broken by
// item identifier ascending. An empty window or one with no shipments
// yields a zero-valued result, never an error. Cost of each line is
// attributed as of its shipment's ship date; an unresolved cost counts
// as zero and increments UnresolvedLines.
func (s *Service) Compute(ctx context.Context, startDate, endDate time.Time, topN int) (*SalesKPI, error) {
	if topN <= 0 {
		topN = DefaultTopN
	}

	result := &SalesKPI{
		StartDate: startDate,
		EndDate:   endDate,
		Revenue:   types.ZeroMoney(),
		Cost:      types.ZeroMoney(),
		Margin:    types.ZeroMoney(),
		TopItems:  []ItemMargin{},
	}

	if endDate.Before(startDate) {
		return result, nil
	}

	lines, err := s.repo.GetShippedLines(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return result, nil
	}

	// One memo cache per pass: lines of the same item and ship date hit
	// the cost history once.
	resolver := costing.NewCachedResolver(s.resolver)

	perItem := make(map[id.ID]*ItemMargin)
	order := make([]id.ID, 0)

	for _, line := range lines {
		qty := line.Quantity.Decimal()
		revenue := qty.Mul(line.UnitPrice)

		unitCost, resolved, err := resolver.CostAsOf(ctx, line.ItemID, line.ShipDate)
		if err != nil {
			return nil, err
		}
		if !resolved {
			result.UnresolvedLines++
			unitCost = types.ZeroMoney()
		}
		cost := qty.Mul(unitCost)

		result.Revenue = result.Revenue.Add(revenue)
		result.Cost = result.Cost.Add(cost)

		item, ok := perItem[line.ItemID]
		if !ok {
			item = &ItemMargin{
				ItemID:  line.ItemID,
				Revenue: types.ZeroMoney(),
				Cost:    types.ZeroMoney(),
			}
			perItem[line.ItemID] = item
			order = append(order, line.ItemID)
		}
		item.Revenue = item.Revenue.Add(revenue)
		item.Cost = item.Cost.Add(cost)
	}

	result.Margin = result.Revenue.Sub(result.Cost)

	ranked := make([]ItemMargin, 0, len(order))
	for _, itemID := range order {
		item := perItem[itemID]
		item.Margin = item.Revenue.Sub(item.Cost)
		ranked = append(ranked, *item)
	}

	sort.Slice(ranked, func(i, j int) bool {
		cmp := ranked[i].Margin.Cmp(ranked[j].Margin)
		if cmp != 0 {
			return cmp > 0
		}
		return ranked[i].ItemID.String() < ranked[j].ItemID.String()
	})

	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	result.TopItems = ranked

	logger.Debug(ctx, "sales kpi computed",
		"lines", len(lines),
		"items", len(perItem),
		"unresolved_lines", result.UnresolvedLines,
	)

	return result, nil
}
