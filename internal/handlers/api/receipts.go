package api

import (
	"encoding/json"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"pledge/internal/email"
	"pledge/internal/metrics"
	"pledge/internal/middleware"
	"pledge/internal/service"
	"pledge/internal/validation"
)

// ReceiptHandler serves the receipt lifecycle endpoints.
type ReceiptHandler struct {
	svc      *service.Service
	notifier *email.Notifier
}

// NewReceiptHandler creates a new receipt handler.
func NewReceiptHandler(svc *service.Service, notifier *email.Notifier) *ReceiptHandler {
	return &ReceiptHandler{svc: svc, notifier: notifier}
}

// List returns every receipt the caller sent or received, newest first.
func (h *ReceiptHandler) List(c fiber.Ctx) error {
	ident := middleware.IdentityFromContext(c)
	if ident == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	receipts, err := h.svc.ListReceipts(c.Context(), ident.UserID)
	if err != nil {
		return serviceError(c, err)
	}

	return jsonSuccess(c, receipts)
}

// Create records a new receipt to a recipient email.
func (h *ReceiptHandler) Create(c fiber.Ctx) error {
	ident := middleware.IdentityFromContext(c)
	if ident == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var body struct {
		RecipientEmail string   `json:"recipient_email"`
		Tags           []string `json:"tags"`
		Description    string   `json:"description"`
		IsPublic       bool     `json:"is_public"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if !validation.ValidateEmail(body.RecipientEmail) {
		return jsonError(c, fiber.StatusBadRequest, "a valid recipient email is required")
	}

	receipt, err := h.svc.CreateReceipt(c.Context(), ident.UserID, service.CreateReceiptInput{
		RecipientEmail: body.RecipientEmail,
		Tags:           body.Tags,
		Description:    body.Description,
		IsPublic:       body.IsPublic,
	})
	if err != nil {
		return serviceError(c, err)
	}

	metrics.ReceiptsCreated.Inc()

	if sender, perr := h.svc.Profile(c.Context(), ident.UserID); perr == nil {
		h.notifier.NotifyReceiptCreated(c.Context(), receipt, sender)
	}

	return jsonSuccess(c, receipt)
}

// Claim accepts a receipt. The caller must be the assigned recipient or hold
// the recipient email on their verified identity.
func (h *ReceiptHandler) Claim(c fiber.Ctx) error {
	ident := middleware.IdentityFromContext(c)
	if ident == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	receiptID, err := receiptIDFromBody(c.Body())
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid receipt id")
	}

	receipt, err := h.svc.ClaimReceipt(c.Context(), receiptID, ident.UserID, ident.Email)
	if err != nil {
		return serviceError(c, err)
	}

	metrics.ReceiptsClaimed.Inc()
	return jsonSuccess(c, receipt)
}

// Reject declines a receipt. Only the assigned recipient may reject.
func (h *ReceiptHandler) Reject(c fiber.Ctx) error {
	ident := middleware.IdentityFromContext(c)
	if ident == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	receiptID, err := receiptIDFromBody(c.Body())
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid receipt id")
	}

	receipt, err := h.svc.RejectReceipt(c.Context(), receiptID, ident.UserID)
	if err != nil {
		return serviceError(c, err)
	}

	metrics.ReceiptsRejected.Inc()
	return jsonSuccess(c, receipt)
}

func receiptIDFromBody(raw []byte) (uuid.UUID, error) {
	var body struct {
		ReceiptID string `json:"receipt_id"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(body.ReceiptID)
}
