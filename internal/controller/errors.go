package controller

import (
	"errors"

	"sales-assist-bff/internal/service"
	"sales-assist-bff/internal/session"

	"github.com/gofiber/fiber/v2"
)

// conflictErrors are rejected because of the session's current state rather than the request.
var conflictErrors = []error{
	session.ErrNoSession,
	session.ErrSendInFlight,
	session.ErrRetryNotAllowed,
	session.ErrTemporarySession,
}

// domainError maps service and controller sentinels to HTTP errors. Anything else
// is passed through to the error middleware.
func domainError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, service.ErrDeskNotFound), errors.Is(err, service.ErrLogNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	}

	for _, target := range conflictErrors {
		if errors.Is(err, target) {
			return fiber.NewError(fiber.StatusConflict, err.Error())
		}
	}
	if session.IsPrecondition(err) {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return err
}
