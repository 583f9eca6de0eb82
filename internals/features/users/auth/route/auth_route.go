package route

import (
	"github.com/gofiber/fiber/v2"

	"ministryhub_backend/internals/features/users/auth/controller"
)

// AuthRoutes expects user to already run the JWT middleware.
func AuthRoutes(user fiber.Router, ctrl *controller.AuthController) {
	auth := user.Group("/auth")
	auth.Post("/logout", ctrl.Logout)
}
