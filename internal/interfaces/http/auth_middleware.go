package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/despachanota/despachanota-api/internal/application/dto"
	"github.com/despachanota/despachanota-api/pkg/jwt"
)

// Locals keys para los claims de la sesión en Fiber.
const (
	LocalUserID = "user_id"
	LocalTOTPOK = "totp_ok"
)

// AuthMiddleware valida el Bearer Token JWT y extrae UserID y el estado del
// segundo factor a c.Locals. No exige el segundo factor: eso lo hace
// RequireTOTP para las rutas que lo necesitan.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "cabeçalho Authorization obrigatório"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vazio"})
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido ou expirado"})
		}
		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalTOTPOK, claims.TOTPVerified)
		return c.Next()
	}
}

// RequireTOTP bloquea la ruta si la sesión no pasó el segundo factor.
// Debe ir después de AuthMiddleware.
func RequireTOTP() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !GetTOTPOK(c) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "TOTP_REQUIRED", Message: "verificação em duas etapas obrigatória"})
		}
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	v := c.Locals(LocalUserID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetTOTPOK indica si la sesión ya pasó el segundo factor.
func GetTOTPOK(c *fiber.Ctx) bool {
	v := c.Locals(LocalTOTPOK)
	if v == nil {
		return false
	}
	b, _ := v.(bool)
	return b
}
