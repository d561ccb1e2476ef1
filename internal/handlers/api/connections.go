package api

import (
	"encoding/json"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"pledge/internal/email"
	"pledge/internal/metrics"
	"pledge/internal/middleware"
	"pledge/internal/service"
)

// ConnectionHandler serves the connection ledger endpoints.
type ConnectionHandler struct {
	svc      *service.Service
	notifier *email.Notifier
}

// NewConnectionHandler creates a new connection handler.
func NewConnectionHandler(svc *service.Service, notifier *email.Notifier) *ConnectionHandler {
	return &ConnectionHandler{svc: svc, notifier: notifier}
}

// List returns every connection the caller is party to, pending and accepted.
func (h *ConnectionHandler) List(c fiber.Ctx) error {
	ident := middleware.IdentityFromContext(c)
	if ident == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	connections, err := h.svc.ListConnections(c.Context(), ident.UserID)
	if err != nil {
		return serviceError(c, err)
	}

	return jsonSuccess(c, connections)
}

// Request creates a pending connection to the user behind the given email.
func (h *ConnectionHandler) Request(c fiber.Ctx) error {
	ident := middleware.IdentityFromContext(c)
	if ident == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var body struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if body.Email == "" {
		return jsonError(c, fiber.StatusBadRequest, "email is required")
	}

	conn, err := h.svc.RequestConnection(c.Context(), ident.UserID, body.Email)
	if err != nil {
		return serviceError(c, err)
	}

	metrics.ConnectionRequests.Inc()

	if requester, perr := h.svc.Profile(c.Context(), ident.UserID); perr == nil {
		h.notifier.NotifyConnectionRequested(c.Context(), requester, conn.OtherParty(ident.UserID))
	}

	return jsonSuccess(c, conn)
}

// Accept marks a pending connection as accepted. Only a party may accept.
func (h *ConnectionHandler) Accept(c fiber.Ctx) error {
	ident := middleware.IdentityFromContext(c)
	if ident == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	connectionID, err := connectionIDFromBody(c.Body())
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid connection id")
	}

	if err := h.svc.AcceptConnection(c.Context(), connectionID, ident.UserID); err != nil {
		return serviceError(c, err)
	}

	return jsonSuccess(c, fiber.Map{"accepted": true})
}

// Remove deletes a connection the caller is party to. Used both to reject a
// pending request and to disconnect later.
func (h *ConnectionHandler) Remove(c fiber.Ctx) error {
	ident := middleware.IdentityFromContext(c)
	if ident == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	connectionID, err := connectionIDFromBody(c.Body())
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid connection id")
	}

	if err := h.svc.RemoveConnection(c.Context(), connectionID, ident.UserID); err != nil {
		return serviceError(c, err)
	}

	return jsonSuccess(c, fiber.Map{"removed": true})
}

func connectionIDFromBody(raw []byte) (uuid.UUID, error) {
	var body struct {
		ConnectionID string `json:"connection_id"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(body.ConnectionID)
}
