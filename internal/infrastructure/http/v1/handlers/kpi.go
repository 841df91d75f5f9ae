package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"stockops/internal/domain/kpi"
	"stockops/internal/infrastructure/http/v1/dto"
)

// KPIHandler exposes sales analytics.
type KPIHandler struct {
	*BaseHandler
	service *kpi.Service
}

// NewKPIHandler creates a new KPI handler.
func NewKPIHandler(base *BaseHandler, service *kpi.Service) *KPIHandler {
	return &KPIHandler{BaseHandler: base, service: service}
}

// Sales handles GET /kpi/sales. Both window boundaries are inclusive;
// a window with no shipments reports zeros rather than an error.
func (h *KPIHandler) Sales(c *gin.Context) {
	var req dto.SalesKPIRequest
	if !h.BindQuery(c, &req) {
		return
	}
	req.ApplyDefaults(time.Now().UTC())

	result, err := h.service.Compute(c.Request.Context(), req.StartDate, req.EndDate, req.TopN)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromSalesKPI(result))
}
