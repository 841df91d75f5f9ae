package dto

import (
	"time"

	"stockops/internal/domain/kpi"
)

// SalesKPIRequest carries the reporting window and ranking size.
// Both dates are inclusive. Omitted values fall back to the trailing
// month and a top five ranking.
type SalesKPIRequest struct {
	StartDate time.Time `form:"startDate" time_format:"2006-01-02"`
	EndDate   time.Time `form:"endDate" time_format:"2006-01-02"`
	TopN      int       `form:"topN" binding:"omitempty,min=1,max=100"`
}

// ApplyDefaults fills missing window boundaries and ranking size.
func (r *SalesKPIRequest) ApplyDefaults(now time.Time) {
	if r.EndDate.IsZero() {
		r.EndDate = now
	}
	if r.StartDate.IsZero() {
		r.StartDate = r.EndDate.AddDate(0, -1, 0)
	}
	if r.TopN == 0 {
		r.TopN = 5
	}
}

// ItemMarginResponse is one row of the per-item margin ranking.
type ItemMarginResponse struct {
	ItemID  string `json:"itemId"`
	Revenue string `json:"revenue"`
	Cost    string `json:"cost"`
	Margin  string `json:"margin"`
}

// SalesKPIResponse is the aggregated sales report.
type SalesKPIResponse struct {
	StartDate       string               `json:"startDate"`
	EndDate         string               `json:"endDate"`
	Revenue         string               `json:"revenue"`
	Cost            string               `json:"cost"`
	Margin          string               `json:"margin"`
	UnresolvedLines int                  `json:"unresolvedLines"`
	TopItems        []ItemMarginResponse `json:"topItems"`
}

// FromSalesKPI converts the domain aggregate.
func FromSalesKPI(k *kpi.SalesKPI) SalesKPIResponse {
	topItems := make([]ItemMarginResponse, 0, len(k.TopItems))
	for _, it := range k.TopItems {
		topItems = append(topItems, ItemMarginResponse{
			ItemID:  it.ItemID.String(),
			Revenue: it.Revenue.String(),
			Cost:    it.Cost.String(),
			Margin:  it.Margin.String(),
		})
	}

	return SalesKPIResponse{
		StartDate:       k.StartDate.Format("2006-01-02"),
		EndDate:         k.EndDate.Format("2006-01-02"),
		Revenue:         k.Revenue.String(),
		Cost:            k.Cost.String(),
		Margin:          k.Margin.String(),
		UnresolvedLines: k.UnresolvedLines,
		TopItems:        topItems,
	}
}
