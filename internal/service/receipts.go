package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"pledge/internal/models"
	"pledge/internal/store"
	"pledge/internal/validation"
)

// CreateReceiptInput carries the sender-supplied receipt fields.
type CreateReceiptInput struct {
	RecipientEmail string
	Tags           []string
	Description    string
	IsPublic       bool
}

// CreateReceipt records a directed acknowledgement to a recipient email.
// The initial status is computed from what is currently known about the
// recipient: no account yet, account but no accepted connection, or account
// with an accepted connection to the sender.
func (s *Service) CreateReceipt(ctx context.Context, senderID uuid.UUID, in CreateReceiptInput) (*models.Receipt, error) {
	email := validation.NormalizeEmail(in.RecipientEmail)

	receipt := &models.Receipt{
		FromUserID:     senderID,
		RecipientEmail: email,
		Tags:           in.Tags,
		Description:    in.Description,
		IsPublic:       in.IsPublic,
		Status:         models.StatusAwaitingSignup,
	}
	if receipt.Tags == nil {
		receipt.Tags = []string{}
	}

	recipient, err := s.store.GetProfileByEmail(ctx, email)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("lookup recipient: %w", err)
	}

	if recipient != nil {
		if recipient.UserID == senderID {
			return nil, ErrSelfReceipt
		}

		receipt.ToUserID = &recipient.UserID
		receipt.Status = models.StatusAwaitingConnection

		low, high := models.CanonicalPair(senderID, recipient.UserID)
		conn, err := s.store.GetConnectionByPair(ctx, low, high)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("lookup connection: %w", err)
		}
		if conn != nil && conn.Accepted {
			receipt.Status = models.StatusAwaitingAcceptance
			receipt.ConnectionID = &conn.ID
		}
	}

	if err := s.store.InsertReceipt(ctx, receipt); err != nil {
		return nil, fmt.Errorf("insert receipt: %w", err)
	}

	return receipt, nil
}

// ClaimReceipt accepts a receipt on behalf of its recipient. A user may
// claim a receipt bound to their account, or one still unbound whose
// recipient email matches theirs (late binding). A late-binding claim jumps
// straight to ACCEPTED: claiming resolves identity and expresses consent in
// the same action, so the intermediate connection states are skipped.
func (s *Service) ClaimReceipt(ctx context.Context, receiptID, actorID uuid.UUID, actorEmail string) (*models.Receipt, error) {
	receipt, err := s.store.GetReceiptByID(ctx, receiptID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrReceiptNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup receipt: %w", err)
	}

	isAssigned := receipt.ToUserID != nil && *receipt.ToUserID == actorID
	isEmailMatch := receipt.ToUserID == nil &&
		validation.NormalizeEmail(receipt.RecipientEmail) == validation.NormalizeEmail(actorEmail)

	if !isAssigned && !isEmailMatch {
		return nil, ErrNotAuthorized
	}

	// Late binding, or a bound receipt that somehow lost its connection:
	// make sure an accepted connection exists and link the receipt to it.
	if isEmailMatch || receipt.ConnectionID == nil {
		conn, err := s.AutoConnect(ctx, actorID, receipt.FromUserID, actorID)
		if err != nil {
			return nil, err
		}
		if err := s.store.BindReceipt(ctx, receipt.ID, actorID, conn.ID); err != nil {
			return nil, fmt.Errorf("bind receipt: %w", err)
		}
		receipt.ToUserID = &actorID
		receipt.ConnectionID = &conn.ID
	}

	// An email-match claim is allowed through even from a terminal state;
	// the claimant owns the recipient address, so their claim wins.
	if receipt.IsFinalized() && !isEmailMatch {
		return nil, fmt.Errorf("%w: receipt already %s", ErrAlreadyFinalized, receipt.Status)
	}

	if err := s.store.UpdateReceiptStatus(ctx, receipt.ID, models.StatusAccepted); err != nil {
		return nil, fmt.Errorf("accept receipt: %w", err)
	}
	receipt.Status = models.StatusAccepted

	return receipt, nil
}

// RejectReceipt declines a receipt bound to the acting user.
func (s *Service) RejectReceipt(ctx context.Context, receiptID, actorID uuid.UUID) (*models.Receipt, error) {
	receipt, err := s.store.GetReceiptByID(ctx, receiptID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrReceiptNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup receipt: %w", err)
	}

	if receipt.ToUserID == nil || *receipt.ToUserID != actorID {
		return nil, ErrNotAuthorized
	}

	if err := s.store.UpdateReceiptStatus(ctx, receipt.ID, models.StatusRejected); err != nil {
		return nil, fmt.Errorf("reject receipt: %w", err)
	}
	receipt.Status = models.StatusRejected

	return receipt, nil
}

// ListReceipts returns receipts sent by or addressed to the user, newest
// first.
func (s *Service) ListReceipts(ctx context.Context, userID uuid.UUID) ([]models.Receipt, error) {
	receipts, err := s.store.ListReceiptsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}
	return receipts, nil
}
