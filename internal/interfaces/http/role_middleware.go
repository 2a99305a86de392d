package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/comedor-app/comedor-api/internal/application/dto"
)

// Rol con acceso irrestricto: único habilitado para la ruta masiva atómica.
const RoleAdmin = "admin"

// RequireRole devuelve un middleware Fiber que exige uno de los roles indicados.
// Debe usarse DESPUÉS de AuthMiddleware (necesita LocalRole).
//
// Comportamiento:
//   - 401 → token sin claim de rol (token legacy o mal emitido).
//   - 403 → rol presente pero no autorizado para la ruta.
func RequireRole(allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "MISSING_ROLE",
				Message: "el token no incluye rol",
			})
		}
		for _, allowed := range allowedRoles {
			if role == allowed {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Code:    "FORBIDDEN",
			Message: "el rol '" + role + "' no tiene acceso a esta ruta",
		})
	}
}
