package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/cooperativa-lactea-api/internal/application/analytics"
)

// DashboardHandler maneja los endpoints del módulo de Dashboard.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetStats devuelve el resumen de acopio del día y del mes en curso.
// GET /api/dashboard/stats
//
// Respuesta: DashboardStatsDTO (total_farmers, active_farmers, today_collection,
// monthly_collection, pending_payments, monthly_revenue, low_quality_deliveries,
// collection_trend[7]). Un OPERATOR solo ve los datos de su centro.
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.uc.GetStats(c.UserContext(), GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(stats)
}
