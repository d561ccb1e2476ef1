package api

import (
	"encoding/json"

	"github.com/gofiber/fiber/v3"

	"pledge/internal/identity"
	"pledge/internal/metrics"
	"pledge/internal/middleware"
	"pledge/internal/service"
)

// OnboardingHandler creates the caller's profile at signup.
type OnboardingHandler struct {
	svc      *service.Service
	resolver *identity.Resolver
}

// NewOnboardingHandler creates a new onboarding handler.
func NewOnboardingHandler(svc *service.Service, resolver *identity.Resolver) *OnboardingHandler {
	return &OnboardingHandler{svc: svc, resolver: resolver}
}

// Onboard upserts the caller's profile. The institutional fields come from
// the verified email, not the request body; the body supplies the personal
// fields and the optional referrer.
func (h *OnboardingHandler) Onboard(c fiber.Ctx) error {
	ident := middleware.IdentityFromContext(c)
	if ident == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	student, err := h.resolver.Resolve(ident.Email)
	if err != nil {
		return serviceError(c, err)
	}

	var body struct {
		FirstName   string   `json:"first_name"`
		LastName    string   `json:"last_name"`
		Major       string   `json:"major"`
		IsHostelite bool     `json:"is_hostelite"`
		Societies   []string `json:"societies"`
		GhostMode   bool     `json:"ghost_mode"`
		ReferrerID  string   `json:"referrer_id"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	profile, err := h.svc.Onboard(c.Context(), ident.UserID, ident.Email, service.OnboardInput{
		FirstName:     body.FirstName,
		LastName:      body.LastName,
		InstitutionID: student.InstitutionID,
		CampusCode:    student.CampusCode,
		BatchYear:     student.BatchYear,
		RollNumber:    student.RollNumber,
		Major:         body.Major,
		IsHostelite:   body.IsHostelite,
		Societies:     body.Societies,
		GhostMode:     body.GhostMode,
		ReferrerID:    body.ReferrerID,
	})
	if err != nil {
		return serviceError(c, err)
	}

	metrics.Onboardings.Inc()
	return jsonSuccess(c, profile)
}
