// Package service implements the core of the social ledger: the connection
// ledger, the receipt lifecycle, and the recovery reconciler that binds
// receipts sent to an email before its owner had an account. All state lives
// in the persistence collaborator; every operation re-reads then writes.
package service

import (
	"context"

	"github.com/google/uuid"

	"pledge/internal/models"
	"pledge/internal/store"
)

// Service wires the core operations to a persistence collaborator.
type Service struct {
	store store.Store
}

// New creates a service on top of a store.
func New(st store.Store) *Service {
	return &Service{store: st}
}

// Profile returns a user's public profile, or store.ErrNotFound if they have
// not onboarded yet.
func (s *Service) Profile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	return s.store.GetProfileByUserID(ctx, userID)
}
