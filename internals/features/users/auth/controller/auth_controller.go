package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"ministryhub_backend/internals/features/users/auth/service"
	helper "ministryhub_backend/internals/helpers"
	helperAuth "ministryhub_backend/internals/helpers/auth"
)

type AuthController struct {
	Blacklist *service.BlacklistService
	Log       *zap.Logger
}

func NewAuthController(bl *service.BlacklistService, log *zap.Logger) *AuthController {
	return &AuthController{Blacklist: bl, Log: log}
}

// POST /api/u/auth/logout
// Revokes the presented access token and clears the auth cookie. Repeating
// it is harmless.
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	raw := helperAuth.GetRawToken(c)
	if raw != "" {
		if err := ac.Blacklist.Revoke(c.UserContext(), raw); err != nil {
			ac.Log.Error("failed to blacklist token", zap.Error(err))
			return helper.JsonError(c, fiber.StatusInternalServerError, "logout failed")
		}
	}

	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    "",
		HTTPOnly: true,
		Secure:   true,
		SameSite: "None",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		MaxAge:   -1,
	})
	return helper.JsonOK(c, "Logout successful", nil)
}
