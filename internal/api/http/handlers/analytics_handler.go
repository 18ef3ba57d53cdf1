package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/config-manager/internal/api/dto"
	"github.com/spec-kit/config-manager/internal/service"
)

// AnalyticsHandler serves dashboard analytics.
type AnalyticsHandler struct {
	provider service.AnalyticsProvider
}

// NewAnalyticsHandler constructs handler.
func NewAnalyticsHandler(provider service.AnalyticsProvider) *AnalyticsHandler {
	return &AnalyticsHandler{provider: provider}
}

// Dashboard handles GET /api/analytics/dashboard.
func (h *AnalyticsHandler) Dashboard(c *fiber.Ctx) error {
	dashboard, err := h.provider.Dashboard(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewDashboardResponse(dashboard))
}
