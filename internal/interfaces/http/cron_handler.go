package http

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/despachanota/despachanota-api/internal/application/dto"
	"github.com/despachanota/despachanota-api/internal/application/emission"
)

// CronHandler expone el barrido diario para un scheduler externo.
// Se autentica con un secreto compartido, no con JWT de usuario.
type CronHandler struct {
	sweep      *emission.Sweep
	cronSecret string
}

// NewCronHandler construye el handler del cron.
func NewCronHandler(sweep *emission.Sweep, cronSecret string) *CronHandler {
	return &CronHandler{sweep: sweep, cronSecret: cronSecret}
}

// EmitInvoices godoc
// @Summary      Barrido diario de emisiones programadas
// @Description  Emite de forma síncrona todas las configuraciones que vencen
// @Description  hoy y devuelve el reporte agregado.
// @Tags         cron
// @Produce      json
// @Success      200  {object}  emission.SweepReport
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/cron/emit-invoices [post]
func (h *CronHandler) EmitInvoices(c *fiber.Ctx) error {
	if !h.authorized(c.Get("Authorization")) {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "segredo do cron inválido"})
	}
	report, err := h.sweep.Run(c.UserContext())
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(report)
}

func (h *CronHandler) authorized(authHeader string) bool {
	if h.cronSecret == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	return subtle.ConstantTimeCompare([]byte(token), []byte(h.cronSecret)) == 1
}
