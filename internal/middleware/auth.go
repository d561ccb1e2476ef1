package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"pledge/internal/authn"
)

// AuthMiddleware verifies bearer tokens on protected routes.
type AuthMiddleware struct {
	verifier authn.Verifier
}

// NewAuthMiddleware creates a new auth middleware instance.
func NewAuthMiddleware(verifier authn.Verifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// RequireAuth rejects requests without a valid bearer token and stores the
// verified identity on the request context.
func (m *AuthMiddleware) RequireAuth(c fiber.Ctx) error {
	token := bearerToken(c.Get("Authorization"))
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status": "error",
			"error":  "missing bearer token",
		})
	}

	identity, err := m.verifier.Verify(c.Context(), token)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status": "error",
			"error":  "invalid or expired token",
		})
	}

	c.Locals("identity", identity)
	return c.Next()
}

// IdentityFromContext returns the identity stored by RequireAuth, or nil on
// routes that never passed through it.
func IdentityFromContext(c fiber.Ctx) *authn.Identity {
	identity, _ := c.Locals("identity").(*authn.Identity)
	return identity
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
