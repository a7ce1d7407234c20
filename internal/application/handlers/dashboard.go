package handlers

import (
	"context"

	"github.com/ersonp/auditshield/internal/domain/ports"
	"github.com/ersonp/auditshield/internal/domain/services"
)

// DashboardHandler handles dashboard queries.
type DashboardHandler struct {
	service     *services.DashboardService
	trendWindow int
}

// NewDashboardHandler creates a new dashboard handler. The trend is cut to
// the last trendWindow audits; zero keeps all of them.
func NewDashboardHandler(service *services.DashboardService, trendWindow int) *DashboardHandler {
	return &DashboardHandler{
		service:     service,
		trendWindow: trendWindow,
	}
}

// Handle builds the current dashboard.
func (h *DashboardHandler) Handle(ctx context.Context) (*services.Dashboard, error) {
	d, err := h.service.Build(ctx)
	if err != nil {
		return nil, err
	}
	return h.trim(d), nil
}

// Watch calls fn with a fresh dashboard after every change.
func (h *DashboardHandler) Watch(ctx context.Context, fn ports.Listener[*services.Dashboard]) (ports.Subscription, error) {
	return h.service.Watch(ctx, func(d *services.Dashboard, err error) {
		if d != nil {
			d = h.trim(d)
		}
		fn(d, err)
	})
}

func (h *DashboardHandler) trim(d *services.Dashboard) *services.Dashboard {
	d.Trend = services.LastN(d.Trend, h.trendWindow)
	return d
}
