package serverutils

import (
	"errors"

	"fitocharity-chatbot-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts service-layer errors into HTTP responses so
// controllers can simply return them.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message))
		}

		switch {
		case errors.Is(err, service.ErrNoCredentialConfigured):
			// Precondition, not a server fault: the admin has to configure a key first
			return ctx.Status(fiber.StatusPreconditionRequired).JSON(ErrorResponse(err.Error()))
		case errors.Is(err, service.ErrSessionNotFound):
			return ctx.Status(fiber.StatusNotFound).JSON(ErrorResponse(err.Error()))
		case errors.Is(err, service.ErrKnowledgebasePreconfigured):
			return ctx.Status(fiber.StatusConflict).JSON(ErrorResponse(err.Error()))
		case errors.Is(err, service.ErrStoreCreationFailed),
			errors.Is(err, service.ErrIngestTimeout):
			return ctx.Status(fiber.StatusBadGateway).JSON(ErrorResponse(err.Error()))
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(err.Error()))
	}
}
