package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/despachanota/despachanota-api/internal/application/dto"
	"github.com/despachanota/despachanota-api/internal/application/emission"
	"github.com/despachanota/despachanota-api/internal/domain"
)

// EmissionHandler maneja la emisión manual, el monitor del pipeline y la
// cancelación de emisiones.
type EmissionHandler struct {
	orch *emission.Orchestrator
}

// NewEmissionHandler construye el handler de emisiones.
func NewEmissionHandler(orch *emission.Orchestrator) *EmissionHandler {
	return &EmissionHandler{orch: orch}
}

// Emit godoc
// @Summary      Disparar la emisión de una configuración
// @Description  Crea la emisión y la procesa en segundo plano; el estado se
// @Description  consulta en el pipeline.
// @Tags         emissions
// @Produce      json
// @Param        id  path  string  true  "config id"
// @Success      202  {object}  dto.EmitResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/emit [post]
// @Security     BearerAuth
func (h *EmissionHandler) Emit(c *fiber.Ctx) error {
	em, err := h.orch.Submit(c.Params("id"), GetUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "configuração não encontrada"})
		case errors.Is(err, domain.ErrEmissionInFlight):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "EMISSION_IN_FLIGHT", Message: "já existe uma emissão em andamento para esta configuração"})
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		case errors.Is(err, domain.ErrIntegrity):
			return integrityError(c, err)
		}
		return internalError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(dto.EmitResponse{EmissionID: em.ID, Status: em.Status})
}

// Pipeline godoc
// @Summary      Emisiones en curso y errores recientes del usuario
// @Tags         emissions
// @Produce      json
// @Success      200  {array}  dto.PipelineItemResponse
// @Router       /api/pipeline [get]
// @Security     BearerAuth
func (h *EmissionHandler) Pipeline(c *fiber.Ctx) error {
	out, err := h.orch.Pipeline(GetUserID(c))
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar una emisión
// @Description  Solo desde pending, processing o error; success es terminal.
// @Tags         emissions
// @Param        id  path  string  true  "emission id"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/pipeline/{id}/cancel [post]
// @Security     BearerAuth
func (h *EmissionHandler) Cancel(c *fiber.Ctx) error {
	err := h.orch.Cancel(c.Params("id"), GetUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "emissão não encontrada"})
		case errors.Is(err, domain.ErrInvalidTransition):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: "a emissão não pode ser cancelada neste estado"})
		}
		return internalError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
