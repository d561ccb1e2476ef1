package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the public profile row created at onboarding. The user id and
// email come from the external auth provider and are never minted here.
type Profile struct {
	UserID        uuid.UUID `json:"user_id"`
	Email         string    `json:"email"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Institution   string    `json:"institution"` // legacy field, kept aligned with InstitutionID
	InstitutionID string    `json:"institution_id"`
	CampusCode    string    `json:"campus_code"`
	BatchYear     *int      `json:"batch_year"`
	RollNumber    string    `json:"roll_number"`
	Major         string    `json:"major"`
	IsHostelite   bool      `json:"is_hostelite"`
	Societies     []string  `json:"societies"`
	GhostMode     bool      `json:"ghost_mode"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// FullName returns the display name used in leaderboard entries.
func (p *Profile) FullName() string {
	switch {
	case p.FirstName == "" && p.LastName == "":
		return "Unknown User"
	case p.LastName == "":
		return p.FirstName
	case p.FirstName == "":
		return p.LastName
	}
	return p.FirstName + " " + p.LastName
}
