package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ministryhub_backend/internals/constants"
	helperAuth "ministryhub_backend/internals/helpers/auth"
)

const secret = "middleware-test-secret"

func sign(t *testing.T, key string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return s
}

func appWith(opts AuthJWTOpts, extra ...fiber.Handler) *fiber.App {
	app := fiber.New()
	handlers := append([]fiber.Handler{AuthJWT(opts)}, extra...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		a, err := helperAuth.GetActor(c)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"user_id": a.UserID, "church_id": a.ChurchID, "role": a.Role})
	})
	app.Get("/", handlers...)
	return app
}

func call(t *testing.T, app *fiber.App, bearer string, cookie string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if bearer != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+bearer)
	}
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "access_token", Value: cookie})
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp.StatusCode
}

func validClaims(role string) jwt.MapClaims {
	return jwt.MapClaims{
		"sub":       uuid.NewString(),
		"church_id": uuid.NewString(),
		"role":      role,
		"exp":       time.Now().Add(time.Hour).Unix(),
	}
}

func TestAuthJWT(t *testing.T) {
	app := appWith(AuthJWTOpts{Secret: secret})

	assert.Equal(t, fiber.StatusOK, call(t, app, sign(t, secret, validClaims("Leader")), ""))
	assert.Equal(t, fiber.StatusUnauthorized, call(t, app, "", ""))
	assert.Equal(t, fiber.StatusUnauthorized, call(t, app, sign(t, "another-secret-value", validClaims("leader")), ""))

	expired := validClaims("leader")
	expired["exp"] = time.Now().Add(-time.Minute).Unix()
	assert.Equal(t, fiber.StatusUnauthorized, call(t, app, sign(t, secret, expired), ""))

	noChurch := validClaims("leader")
	delete(noChurch, "church_id")
	assert.Equal(t, fiber.StatusUnauthorized, call(t, app, sign(t, secret, noChurch), ""))
}

func TestAuthJWTCookieFallback(t *testing.T) {
	tok := sign(t, secret, validClaims("member"))

	assert.Equal(t, fiber.StatusUnauthorized, call(t, appWith(AuthJWTOpts{Secret: secret}), "", tok))
	assert.Equal(t, fiber.StatusOK, call(t, appWith(AuthJWTOpts{Secret: secret, AllowCookieFallback: true}), "", tok))
}

func TestAuthJWTBlacklist(t *testing.T) {
	revoked := sign(t, secret, validClaims("member"))
	app := appWith(AuthJWTOpts{
		Secret: secret,
		BlacklistChecker: func(raw string) (bool, error) {
			return raw == revoked, nil
		},
	})
	assert.Equal(t, fiber.StatusUnauthorized, call(t, app, revoked, ""))
	assert.Equal(t, fiber.StatusOK, call(t, app, sign(t, secret, validClaims("member")), ""))

	// a failing lookup does not lock everyone out
	failing := appWith(AuthJWTOpts{
		Secret:           secret,
		BlacklistChecker: func(string) (bool, error) { return false, errors.New("redis down") },
	})
	assert.Equal(t, fiber.StatusOK, call(t, failing, revoked, ""))
}

func TestOnlyRoles(t *testing.T) {
	app := appWith(AuthJWTOpts{Secret: secret}, OnlyRoles(constants.RoleErrorOwner("the admin area"), constants.OwnerRoles...))

	assert.Equal(t, fiber.StatusOK, call(t, app, sign(t, secret, validClaims(constants.RolePastor)), ""))
	assert.Equal(t, fiber.StatusForbidden, call(t, app, sign(t, secret, validClaims(constants.RoleLeader)), ""))
}

func TestAuthJWTPanicsWithoutSecret(t *testing.T) {
	assert.Panics(t, func() { AuthJWT(AuthJWTOpts{}) })
}
