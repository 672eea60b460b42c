package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/despachanota/despachanota-api/internal/application/dto"
	"github.com/despachanota/despachanota-api/internal/application/metrics"
)

// MetricsHandler maneja el dashboard y el estado del API fiscal.
type MetricsHandler struct {
	uc *metrics.UseCase
}

// NewMetricsHandler construye el handler de métricas.
func NewMetricsHandler(uc *metrics.UseCase) *MetricsHandler {
	return &MetricsHandler{uc: uc}
}

// Dashboard godoc
// @Summary      Métricas del dashboard del usuario
// @Tags         metrics
// @Produce      json
// @Success      200  {object}  dto.MetricsResponse
// @Router       /api/metrics [get]
// @Security     BearerAuth
func (h *MetricsHandler) Dashboard(c *fiber.Ctx) error {
	out, err := h.uc.Dashboard(c.UserContext(), GetUserID(c))
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(out)
}

// GovernmentStatus godoc
// @Summary      Salud del API fiscal con la llave del usuario
// @Tags         metrics
// @Produce      json
// @Success      200  {object}  dto.GovernmentStatusResponse
// @Router       /api/government-status [get]
// @Security     BearerAuth
func (h *MetricsHandler) GovernmentStatus(c *fiber.Ctx) error {
	status := h.uc.GovernmentHealth(c.UserContext(), GetUserID(c))
	return c.JSON(dto.GovernmentStatusResponse{Status: status})
}
