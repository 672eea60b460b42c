package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/despachanota/despachanota-api/internal/application/configs"
	"github.com/despachanota/despachanota-api/internal/application/dto"
	"github.com/despachanota/despachanota-api/internal/domain"
)

// ConfigHandler maneja el CRUD de configuraciones de NFS-e.
type ConfigHandler struct {
	uc *configs.UseCase
}

// NewConfigHandler construye el handler de configuraciones.
func NewConfigHandler(uc *configs.UseCase) *ConfigHandler {
	return &ConfigHandler{uc: uc}
}

// Create godoc
// @Summary      Crear configuración de NFS-e
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ConfigRequest  true  "configuración"
// @Success      201   {object}  dto.ConfigResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/invoices [post]
// @Security     BearerAuth
func (h *ConfigHandler) Create(c *fiber.Ctx) error {
	var in dto.ConfigRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	out, err := h.uc.Create(GetUserID(c), in)
	if err != nil {
		return configError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar configuraciones del usuario
// @Tags         invoices
// @Produce      json
// @Success      200  {array}  dto.ConfigResponse
// @Router       /api/invoices [get]
// @Security     BearerAuth
func (h *ConfigHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(GetUserID(c))
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener una configuración
// @Tags         invoices
// @Produce      json
// @Param        id   path      string  true  "config id"
// @Success      200  {object}  dto.ConfigResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [get]
// @Security     BearerAuth
func (h *ConfigHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Params("id"), GetUserID(c))
	if err != nil {
		return configError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar una configuración
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "config id"
// @Param        body  body  dto.ConfigRequest  true  "configuración"
// @Success      200   {object}  dto.ConfigResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [put]
// @Security     BearerAuth
func (h *ConfigHandler) Update(c *fiber.Ctx) error {
	var in dto.ConfigRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	out, err := h.uc.Update(c.Params("id"), GetUserID(c), in)
	if err != nil {
		return configError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar una configuración
// @Tags         invoices
// @Param        id  path  string  true  "config id"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [delete]
// @Security     BearerAuth
func (h *ConfigHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Params("id"), GetUserID(c)); err != nil {
		return configError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// configError mapea los errores de dominio del CRUD a respuestas HTTP.
func configError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "configuração não encontrada"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrIntegrity):
		return integrityError(c, err)
	}
	return internalError(c, err)
}
