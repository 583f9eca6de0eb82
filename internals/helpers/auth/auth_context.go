package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Locals written by the JWT middleware.
const (
	LocUserID   = "user_id"   // string UUID
	LocChurchID = "church_id" // string UUID
	LocRole     = "role"      // string
	LocRawToken = "raw_token" // string
	LocClaims   = "jwt_claims"
)

// Actor is the authenticated caller of a request.
type Actor struct {
	UserID   uuid.UUID
	ChurchID uuid.UUID
	Role     string
}

func localString(c *fiber.Ctx, key string) string {
	if v, ok := c.Locals(key).(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	s := localString(c, LocUserID)
	if s == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "user id missing from token")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "user id in token is not a UUID")
	}
	return id, nil
}

func GetChurchID(c *fiber.Ctx) (uuid.UUID, error) {
	s := localString(c, LocChurchID)
	if s == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "church id missing from token")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "church id in token is not a UUID")
	}
	return id, nil
}

func GetRole(c *fiber.Ctx) string {
	return strings.ToLower(localString(c, LocRole))
}

func GetRawToken(c *fiber.Ctx) string {
	return localString(c, LocRawToken)
}

// GetActor collects the full auth context or fails with 401.
func GetActor(c *fiber.Ctx) (Actor, error) {
	uid, err := GetUserID(c)
	if err != nil {
		return Actor{}, err
	}
	cid, err := GetChurchID(c)
	if err != nil {
		return Actor{}, err
	}
	return Actor{UserID: uid, ChurchID: cid, Role: GetRole(c)}, nil
}
