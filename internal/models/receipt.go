package models

import (
	"time"

	"github.com/google/uuid"
)

// Receipt status values. A receipt starts in one of the three awaiting
// states depending on what is known about the recipient, and ends in
// ACCEPTED or REJECTED.
const (
	StatusAwaitingSignup     = "AWAITING_SIGNUP"     // recipient email has no account yet
	StatusAwaitingConnection = "AWAITING_CONNECTION" // recipient exists but is not connected to the sender
	StatusAwaitingAcceptance = "AWAITING_ACCEPTANCE" // recipient exists and the pair is connected
	StatusAccepted           = "ACCEPTED"
	StatusRejected           = "REJECTED"
)

// Receipt is a directed acknowledgement from a sender to a recipient. The
// recipient is identified by email at creation time; ToUserID is nil exactly
// while the receipt is AWAITING_SIGNUP and, once set, never changes to a
// different account.
type Receipt struct {
	ID             uuid.UUID  `json:"id"`
	FromUserID     uuid.UUID  `json:"from_user_id"`
	ToUserID       *uuid.UUID `json:"to_user_id"`
	RecipientEmail string     `json:"recipient_email"`
	Tags           []string   `json:"tags"`
	Description    string     `json:"description"`
	IsPublic       bool       `json:"is_public"`
	ConnectionID   *uuid.UUID `json:"connection_id"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// IsFinalized reports whether the receipt has reached a terminal status.
func (r *Receipt) IsFinalized() bool {
	return r.Status == StatusAccepted || r.Status == StatusRejected
}
