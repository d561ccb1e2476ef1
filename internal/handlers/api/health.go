package api

import (
	"github.com/gofiber/fiber/v3"
)

// Health is the unauthenticated liveness endpoint.
func Health(c fiber.Ctx) error {
	return jsonSuccess(c, fiber.Map{
		"service": "pledge",
		"healthy": true,
	})
}
