package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/despachanota/despachanota-api/internal/application/dto"
)

// internalError registra el error con contexto y responde un mensaje fijo.
// El detalle interno (drivers, cifrado, proveedores) jamás viaja al cliente.
func internalError(c *fiber.Ctx, err error) error {
	log.Error().Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg("error interno no clasificado")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "erro interno do servidor"})
}

// integrityError un registro cifrado ilegible (blob alterado o clave rotada)
// es fatal para ese registro: se registra y se responde sin detalle.
func integrityError(c *fiber.Ctx, err error) error {
	log.Error().Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg("registro cifrado ilegible")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTEGRITY", Message: "registro cifrado ilegível"})
}
