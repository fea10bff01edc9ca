package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/secops-service/internal/service"
)

// DashboardHandler serves the aggregate counters and the read-only feeds around them.
type DashboardHandler struct {
	dashboard  *service.DashboardService
	activities *service.ActivityService
	financial  *service.FinancialService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(dashboard *service.DashboardService, activities *service.ActivityService, financial *service.FinancialService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, activities: activities, financial: financial}
}

// Stats GET /api/dashboard/stats.
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.dashboard.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

// Activities GET /api/activities?limit=.
func (h *DashboardHandler) Activities(c *fiber.Ctx) error {
	items, err := h.activities.Recent(c.UserContext(), c.QueryInt("limit", service.DefaultActivityLimit))
	if err != nil {
		return err
	}
	return c.JSON(items)
}

// FinancialSummary GET /api/financial/summary.
func (h *DashboardHandler) FinancialSummary(c *fiber.Ctx) error {
	summary, err := h.financial.Summary(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(summary)
}
