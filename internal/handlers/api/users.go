package api

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"pledge/internal/identity"
	"pledge/internal/middleware"
	"pledge/internal/service"
	"pledge/internal/store"
)

// UserHandler serves the caller's own identity and student verification.
type UserHandler struct {
	svc      *service.Service
	resolver *identity.Resolver
}

// NewUserHandler creates a new user handler.
func NewUserHandler(svc *service.Service, resolver *identity.Resolver) *UserHandler {
	return &UserHandler{svc: svc, resolver: resolver}
}

// Me returns the verified identity plus the profile, if one exists. The
// frontend uses the onboarded flag to decide whether to show the signup flow.
func (h *UserHandler) Me(c fiber.Ctx) error {
	ident := middleware.IdentityFromContext(c)
	if ident == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	profile, err := h.svc.Profile(c.Context(), ident.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return jsonSuccess(c, fiber.Map{
				"user_id":   ident.UserID,
				"email":     ident.Email,
				"onboarded": false,
			})
		}
		return serviceError(c, err)
	}

	return jsonSuccess(c, fiber.Map{
		"user_id":   ident.UserID,
		"email":     ident.Email,
		"onboarded": true,
		"profile":   profile,
	})
}

// VerifyStudent resolves the caller's email against the institution rules
// and returns the inferred student identity. Unsupported domains are
// rejected; this gates the onboarding flow.
func (h *UserHandler) VerifyStudent(c fiber.Ctx) error {
	ident := middleware.IdentityFromContext(c)
	if ident == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	student, err := h.resolver.Resolve(ident.Email)
	if err != nil {
		return serviceError(c, err)
	}

	return jsonSuccess(c, student)
}
