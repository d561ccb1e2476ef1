package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"pledge/internal/models"
	"pledge/internal/store"
	"pledge/internal/validation"
)

// OnboardInput carries the profile fields supplied at signup.
type OnboardInput struct {
	FirstName     string
	LastName      string
	InstitutionID string
	CampusCode    string
	BatchYear     *int
	RollNumber    string
	Major         string
	IsHostelite   bool
	Societies     []string
	GhostMode     bool
	ReferrerID    string
}

// Onboard creates or updates the caller's public profile, then runs the two
// best-effort follow-ups: connecting the referrer and recovering receipts
// that were addressed to this email before the account existed. Only the
// profile upsert can fail onboarding; the follow-ups are logged and
// swallowed here, at the single point where they are discarded.
func (s *Service) Onboard(ctx context.Context, userID uuid.UUID, email string, in OnboardInput) (*models.Profile, error) {
	if in.FirstName == "" || in.LastName == "" || in.InstitutionID == "" {
		return nil, ErrMissingFields
	}

	profile := &models.Profile{
		UserID:        userID,
		Email:         validation.NormalizeEmail(email),
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		Institution:   in.InstitutionID, // legacy field, kept aligned
		InstitutionID: in.InstitutionID,
		CampusCode:    in.CampusCode,
		BatchYear:     in.BatchYear,
		RollNumber:    in.RollNumber,
		Major:         in.Major,
		IsHostelite:   in.IsHostelite,
		Societies:     in.Societies,
		GhostMode:     in.GhostMode,
	}
	if profile.Societies == nil {
		profile.Societies = []string{}
	}

	if err := s.store.UpsertProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("upsert profile: %w", err)
	}

	s.connectReferrer(ctx, userID, in.ReferrerID)

	if err := s.RecoverReceipts(ctx, userID, profile.Email); err != nil {
		log.Printf("Receipt recovery failed for %s: %v", userID, err)
	}

	return profile, nil
}

// connectReferrer auto-connects the new user to their referrer. Frontends
// sometimes send the literal string "null"; that and any failure (unknown
// referrer, existing connection) must not fail onboarding.
func (s *Service) connectReferrer(ctx context.Context, userID uuid.UUID, referrerID string) {
	if referrerID == "" || referrerID == "null" {
		return
	}

	referrer, err := uuid.Parse(referrerID)
	if err != nil {
		log.Printf("Ignoring malformed referrer id %q", referrerID)
		return
	}
	if referrer == userID {
		return
	}

	if _, err := s.AutoConnect(ctx, userID, referrer, userID); err != nil {
		log.Printf("Referrer auto-connect failed for %s -> %s: %v", userID, referrer, err)
	}
}

// RecoverReceipts binds receipts that were addressed to the given email
// before it had an account. For each distinct sender an accepted connection
// is ensured, then every still-unbound receipt from that sender is moved to
// AWAITING_ACCEPTANCE. Per-sender failures are skipped so one bad sender
// cannot block onboarding.
func (s *Service) RecoverReceipts(ctx context.Context, newUserID uuid.UUID, email string) error {
	orphans, err := s.store.ListUnboundReceiptsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("list unbound receipts: %w", err)
	}
	if len(orphans) == 0 {
		return nil
	}

	senders := make(map[uuid.UUID]struct{})
	for _, r := range orphans {
		senders[r.FromUserID] = struct{}{}
	}
	log.Printf("Recovering %d orphan receipts for %s from %d senders", len(orphans), email, len(senders))

	for senderID := range senders {
		connID, err := s.ensureRecoveryConnection(ctx, newUserID, senderID)
		if err != nil {
			log.Printf("Skipping receipts from %s: %v", senderID, err)
			continue
		}

		if _, err := s.store.BindReceiptsFromSender(ctx, email, senderID, newUserID, connID, models.StatusAwaitingAcceptance); err != nil {
			log.Printf("Failed to bind receipts from %s: %v", senderID, err)
		}
	}

	return nil
}

// ensureRecoveryConnection returns the id of an accepted connection between
// the new user and a sender, creating one if the pair has none. The new user
// is recorded as requested_by: signing up against an addressed receipt is
// treated as accepting the implicit invite.
func (s *Service) ensureRecoveryConnection(ctx context.Context, newUserID, senderID uuid.UUID) (uuid.UUID, error) {
	low, high := models.CanonicalPair(newUserID, senderID)

	existing, err := s.store.GetConnectionByPair(ctx, low, high)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return uuid.Nil, fmt.Errorf("lookup connection: %w", err)
	}

	conn, err := s.AutoConnect(ctx, newUserID, senderID, newUserID)
	if err != nil {
		return uuid.Nil, err
	}
	return conn.ID, nil
}
