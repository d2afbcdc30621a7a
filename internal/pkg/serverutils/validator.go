package serverutils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// ValidateRequest runs struct-tag validation and converts failures into a 400
// the error handler middleware passes through untouched.
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request payload")
		}

		messages := make([]string, 0, len(validationErrors))
		for _, ve := range validationErrors {
			messages = append(messages, fmt.Sprintf("field '%s' failed on '%s'", ve.Field(), ve.Tag()))
		}
		return fiber.NewError(fiber.StatusBadRequest, strings.Join(messages, "; "))
	}
	return nil
}
