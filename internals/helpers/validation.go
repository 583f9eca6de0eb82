package helper

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Validate is shared so struct tag metadata is cached once per process.
var Validate = validator.New()

// ValidationError renders validator failures as field -> tag.
func ValidationError(c *fiber.Ctx, err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return JsonError(c, fiber.StatusBadRequest, "invalid input")
	}

	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		tag := fe.Tag()
		if p := fe.Param(); p != "" {
			tag += "=" + p
		}
		fields[strings.ToLower(fe.Field())] = tag
	}
	return JsonValidationError(c, fields)
}
