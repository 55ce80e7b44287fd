package serverutils

import (
	"errors"
	"net/http"

	"sales-assist-bff/pkg/analysis"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware renders errors returned by handlers as the response envelope.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code, message := statusFor(err)
		return ctx.Status(code).JSON(ErrorResponse(code, message))
	}
}

func statusFor(err error) (int, string) {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code, fiberErr.Message
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return fiber.StatusBadRequest, validationErr.Error()
	}

	var apiErr *analysis.APIError
	if errors.As(err, &apiErr) {
		code := fiber.StatusBadGateway
		if apiErr.StatusCode == http.StatusNotFound {
			code = fiber.StatusNotFound
		}
		return code, analysis.UserMessage(err)
	}

	if analysis.IsTransport(err) {
		return fiber.StatusServiceUnavailable, analysis.UserMessage(err)
	}

	return fiber.StatusInternalServerError, err.Error()
}
