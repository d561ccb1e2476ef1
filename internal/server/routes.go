package server

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pledge/internal/authn"
	"pledge/internal/config"
	"pledge/internal/db"
	"pledge/internal/email"
	"pledge/internal/handlers/api"
	"pledge/internal/identity"
	"pledge/internal/middleware"
	"pledge/internal/service"
)

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(ctx context.Context, database *db.DB) error {
	if s.Cfg.AuthIssuer == "" {
		log.Fatal("AUTH_ISSUER is required. All users must be authenticated.")
	}

	verifier, err := authn.NewProviderVerifier(ctx, s.Cfg.AuthIssuer, s.Cfg.AuthAudience)
	if err != nil {
		return err
	}

	yamlCfg, err := config.LoadYAMLConfig()
	if err != nil {
		return err
	}

	svc := service.New(database)
	resolver := identity.NewResolver(yamlCfg)
	notifier := email.NewNotifier(s.Cfg, database)
	auth := middleware.NewAuthMiddleware(verifier)

	users := api.NewUserHandler(svc, resolver)
	onboarding := api.NewOnboardingHandler(svc, resolver)
	connections := api.NewConnectionHandler(svc, notifier)
	receipts := api.NewReceiptHandler(svc, notifier)
	views := api.NewViewsHandler(svc)

	// Public routes
	s.App.Get("/api/health", api.Health)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Everything else requires a verified identity
	protected := s.App.Group("/api", auth.RequireAuth)

	protected.Get("/me", users.Me)
	protected.Get("/auth/verify-student", users.VerifyStudent)
	protected.Post("/onboarding", onboarding.Onboard)

	protected.Get("/connections", connections.List)
	protected.Post("/connections/request", connections.Request)
	protected.Post("/connections/accept", connections.Accept)
	protected.Post("/connections/remove", connections.Remove)

	protected.Get("/receipts", receipts.List)
	protected.Post("/receipts/create", receipts.Create)
	protected.Post("/receipts/claim", receipts.Claim)
	protected.Post("/receipts/reject", receipts.Reject)

	protected.Get("/leaderboard", views.Leaderboard)
	protected.Get("/institutions/graph", views.InstitutionGraph)

	return nil
}
