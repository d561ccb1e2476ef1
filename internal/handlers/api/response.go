package api

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"pledge/internal/identity"
	"pledge/internal/service"
	"pledge/internal/store"
)

// jsonSuccess returns a 200 response with data wrapped in the standard envelope.
func jsonSuccess(c fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"data":   data,
	})
}

// jsonError returns an error response with the given HTTP status code.
func jsonError(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status": "error",
		"error":  message,
	})
}

// serviceError maps domain error sentinels to HTTP status codes. Anything
// unmapped is a persistence or programming failure and becomes a 500 with
// the detail kept out of the response.
func serviceError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrTargetNotFound),
		errors.Is(err, service.ErrConnectionNotFound),
		errors.Is(err, service.ErrReceiptNotFound),
		errors.Is(err, store.ErrNotFound):
		return jsonError(c, fiber.StatusNotFound, err.Error())

	case errors.Is(err, service.ErrNotAuthorized),
		errors.Is(err, identity.ErrUnsupportedDomain):
		return jsonError(c, fiber.StatusForbidden, err.Error())

	case errors.Is(err, service.ErrSelfConnection),
		errors.Is(err, service.ErrAlreadyConnected),
		errors.Is(err, service.ErrRequestAlreadyPending),
		errors.Is(err, service.ErrPendingFromOther),
		errors.Is(err, service.ErrSelfReceipt),
		errors.Is(err, service.ErrAlreadyFinalized),
		errors.Is(err, service.ErrMissingFields):
		return jsonError(c, fiber.StatusBadRequest, err.Error())

	default:
		return jsonError(c, fiber.StatusInternalServerError, "internal error")
	}
}
