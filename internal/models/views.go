package models

import "github.com/google/uuid"

// LeaderboardStat is one row of the leaderboard_stats projection: accepted
// receipt counts per user, joined with the profile fields shown next to them.
type LeaderboardStat struct {
	UserID        uuid.UUID `json:"user_id"`
	Name          string    `json:"name"`
	Institution   string    `json:"institution"`
	GivenCount    int       `json:"given_count"`
	ReceivedCount int       `json:"received_count"`
}

// LeaderboardEntry is one ranked entry in a leaderboard response.
type LeaderboardEntry struct {
	UserID      uuid.UUID `json:"user_id"`
	Name        string    `json:"name"`
	Institution string    `json:"institution"`
	Count       int       `json:"count"`
}

// Leaderboard holds the two ranked lists returned by GET /api/leaderboard.
type Leaderboard struct {
	TopGivers    []LeaderboardEntry `json:"top_givers"`
	TopReceivers []LeaderboardEntry `json:"top_receivers"`
}

// InstitutionEdge is a directed exchange count between two institutions.
type InstitutionEdge struct {
	FromInstitution string `json:"from_institution"`
	ToInstitution   string `json:"to_institution"`
	ExchangeCount   int    `json:"exchange_count"`
}

// InstitutionStats aggregates a single institution's totals across edges.
type InstitutionStats struct {
	Given    int `json:"given"`
	Received int `json:"received"`
}

// InstitutionNode is one node in the institution graph response.
type InstitutionNode struct {
	ID    string           `json:"id"`
	Label string           `json:"label"`
	Stats InstitutionStats `json:"stats"`
}

// InstitutionLink is one edge in the institution graph response.
type InstitutionLink struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Value  int    `json:"value"`
}

// InstitutionGraph is the graph returned by GET /api/institutions/graph.
type InstitutionGraph struct {
	Nodes []InstitutionNode `json:"nodes"`
	Links []InstitutionLink `json:"links"`
}
