package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"pledge/internal/models"
	"pledge/internal/store"
	"pledge/internal/validation"
)

// RequestConnection creates a pending connection from the requester to the
// account behind targetEmail.
func (s *Service) RequestConnection(ctx context.Context, requesterID uuid.UUID, targetEmail string) (*models.Connection, error) {
	targetEmail = validation.NormalizeEmail(targetEmail)

	target, err := s.store.GetProfileByEmail(ctx, targetEmail)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrTargetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup target: %w", err)
	}

	if target.UserID == requesterID {
		return nil, ErrSelfConnection
	}

	low, high := models.CanonicalPair(requesterID, target.UserID)

	existing, err := s.store.GetConnectionByPair(ctx, low, high)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("lookup connection: %w", err)
	}
	if existing != nil {
		return nil, classifyExisting(existing, requesterID)
	}

	conn := &models.Connection{
		LowID:       low,
		HighID:      high,
		RequestedBy: requesterID,
	}
	err = s.store.InsertConnection(ctx, conn)
	if errors.Is(err, store.ErrDuplicatePair) {
		// Lost a race with a concurrent request for the same pair; re-read
		// and report it as the already-exists case.
		existing, lookupErr := s.store.GetConnectionByPair(ctx, low, high)
		if lookupErr != nil {
			return nil, fmt.Errorf("re-read connection after duplicate insert: %w", lookupErr)
		}
		return nil, classifyExisting(existing, requesterID)
	}
	if err != nil {
		return nil, fmt.Errorf("insert connection: %w", err)
	}

	return conn, nil
}

// classifyExisting turns an existing row for the pair into the matching
// request failure.
func classifyExisting(conn *models.Connection, requesterID uuid.UUID) error {
	switch {
	case conn.Accepted:
		return ErrAlreadyConnected
	case conn.RequestedBy == requesterID:
		return ErrRequestAlreadyPending
	default:
		return ErrPendingFromOther
	}
}

// AcceptConnection marks a pending connection accepted. The actor must be a
// party to the connection; the check is explicit rather than delegated to
// the store.
func (s *Service) AcceptConnection(ctx context.Context, connectionID, actorID uuid.UUID) error {
	conn, err := s.store.GetConnectionByID(ctx, connectionID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrConnectionNotFound
	}
	if err != nil {
		return fmt.Errorf("lookup connection: %w", err)
	}
	if !conn.HasParty(actorID) {
		return ErrNotAuthorized
	}

	if err := s.store.MarkConnectionAccepted(ctx, connectionID, time.Now().UTC()); err != nil {
		return fmt.Errorf("accept connection: %w", err)
	}
	return nil
}

// RemoveConnection deletes a connection the actor is a party to.
func (s *Service) RemoveConnection(ctx context.Context, connectionID, actorID uuid.UUID) error {
	conn, err := s.store.GetConnectionByID(ctx, connectionID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrConnectionNotFound
	}
	if err != nil {
		return fmt.Errorf("lookup connection: %w", err)
	}
	if !conn.HasParty(actorID) {
		return ErrNotAuthorized
	}

	if err := s.store.DeleteConnection(ctx, connectionID); err != nil {
		return fmt.Errorf("remove connection: %w", err)
	}
	return nil
}

// AutoConnect creates-or-updates the connection for a pair directly into the
// accepted state. Referral, receipt-claim and recovery flows use it: the
// triggering action is itself consent, so the request/accept handshake is
// skipped. Idempotent; re-running never duplicates the row or moves
// accepted_at.
func (s *Service) AutoConnect(ctx context.Context, userA, userB, requestedBy uuid.UUID) (*models.Connection, error) {
	low, high := models.CanonicalPair(userA, userB)
	conn, err := s.store.UpsertAcceptedConnection(ctx, low, high, requestedBy, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("auto-connect: %w", err)
	}
	return conn, nil
}

// ListConnections returns every connection the user is a party to.
func (s *Service) ListConnections(ctx context.Context, userID uuid.UUID) ([]models.Connection, error) {
	conns, err := s.store.ListConnectionsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list connections: %w", err)
	}
	return conns, nil
}
