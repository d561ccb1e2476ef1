package models

import (
	"bytes"
	"time"

	"github.com/google/uuid"
)

// Connection is an undirected relationship between exactly two users. The
// pair is stored in canonical order (LowID < HighID) so each unordered pair
// maps to exactly one row; a unique index on (low_id, high_id) enforces it.
type Connection struct {
	ID          uuid.UUID  `json:"id"`
	LowID       uuid.UUID  `json:"low_id"`
	HighID      uuid.UUID  `json:"high_id"`
	RequestedBy uuid.UUID  `json:"requested_by"`
	Accepted    bool       `json:"accepted"`
	AcceptedAt  *time.Time `json:"accepted_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

// HasParty reports whether the given user is one of the two connected users.
func (c *Connection) HasParty(userID uuid.UUID) bool {
	return c.LowID == userID || c.HighID == userID
}

// OtherParty returns the user on the other side of the connection.
func (c *Connection) OtherParty(userID uuid.UUID) uuid.UUID {
	if c.LowID == userID {
		return c.HighID
	}
	return c.LowID
}

// CanonicalPair orders two user ids so that the smaller one comes first.
// Every connection read or write must go through this; comparing or writing
// the raw order would allow duplicate rows for the same logical pair.
func CanonicalPair(a, b uuid.UUID) (low, high uuid.UUID) {
	if bytes.Compare(a[:], b[:]) <= 0 {
		return a, b
	}
	return b, a
}
