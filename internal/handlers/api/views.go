package api

import (
	"github.com/gofiber/fiber/v3"

	"pledge/internal/service"
)

// ViewsHandler serves the read-only projections.
type ViewsHandler struct {
	svc *service.Service
}

// NewViewsHandler creates a new views handler.
func NewViewsHandler(svc *service.Service) *ViewsHandler {
	return &ViewsHandler{svc: svc}
}

// Leaderboard returns the top givers and receivers of accepted receipts.
func (h *ViewsHandler) Leaderboard(c fiber.Ctx) error {
	board, err := h.svc.Leaderboard(c.Context())
	if err != nil {
		return serviceError(c, err)
	}
	return jsonSuccess(c, board)
}

// InstitutionGraph returns the cross-institution exchange graph.
func (h *ViewsHandler) InstitutionGraph(c fiber.Ctx) error {
	graph, err := h.svc.InstitutionGraph(c.Context())
	if err != nil {
		return serviceError(c, err)
	}
	return jsonSuccess(c, graph)
}
