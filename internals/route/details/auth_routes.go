package details

import (
	"github.com/gofiber/fiber/v2"

	authController "ministryhub_backend/internals/features/users/auth/controller"
	authRoute "ministryhub_backend/internals/features/users/auth/route"
)

// Example: POST /api/u/auth/logout
func AuthUserRoutes(api fiber.Router, ctrl *authController.AuthController) {
	authRoute.AuthRoutes(api, ctrl)
}
