package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/despachanota/despachanota-api/internal/application/dto"
	"github.com/despachanota/despachanota-api/internal/application/settings"
	"github.com/despachanota/despachanota-api/internal/domain"
)

// SettingsHandler maneja la configuración de seguridad del usuario.
// Las respuestas nunca incluyen secretos, solo banderas de presencia.
type SettingsHandler struct {
	uc *settings.UseCase
}

// NewSettingsHandler construye el handler de settings.
func NewSettingsHandler(uc *settings.UseCase) *SettingsHandler {
	return &SettingsHandler{uc: uc}
}

// Get godoc
// @Summary      Configuración de seguridad del usuario
// @Tags         settings
// @Produce      json
// @Success      200  {object}  dto.SettingsResponse
// @Router       /api/settings [get]
// @Security     BearerAuth
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(GetUserID(c))
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar la configuración de seguridad
// @Description  Campos omitidos quedan intactos; government_api_key vacía
// @Description  borra la llave guardada.
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateSettingsRequest  true  "cambios parciales"
// @Success      200   {object}  dto.SettingsResponse
// @Router       /api/settings [put]
// @Security     BearerAuth
func (h *SettingsHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateSettingsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	out, err := h.uc.Update(GetUserID(c), in)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(out)
}

// ResetTOTP godoc
// @Summary      Rotar el secreto TOTP
// @Description  Genera un secreto nuevo e invalida el anterior; la sesión debe
// @Description  verificar un código del secreto nuevo.
// @Tags         settings
// @Produce      json
// @Success      200  {object}  dto.ResetTOTPResponse
// @Router       /api/settings/reset-totp [post]
// @Security     BearerAuth
func (h *SettingsHandler) ResetTOTP(c *fiber.Ctx) error {
	out, err := h.uc.ResetTOTP(GetUserID(c))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "sessão inválida"})
		}
		return internalError(c, err)
	}
	return c.JSON(out)
}
