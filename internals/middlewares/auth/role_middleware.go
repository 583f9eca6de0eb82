package auth

import (
	"github.com/gofiber/fiber/v2"

	"ministryhub_backend/internals/constants"
	helperAuth "ministryhub_backend/internals/helpers/auth"
)

// OnlyRoles rejects callers whose role claim is not in roles with 403.
func OnlyRoles(customMessage string, roles ...string) fiber.Handler {
	if customMessage == "" {
		customMessage = "Forbidden: you are not authorized to access this resource"
	}
	return func(c *fiber.Ctx) error {
		role := helperAuth.GetRole(c)
		if role == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized: missing role information")
		}
		if !constants.HasRole(role, roles) {
			return fiber.NewError(fiber.StatusForbidden, customMessage)
		}
		return c.Next()
	}
}
