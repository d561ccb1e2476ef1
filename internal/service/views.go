package service

import (
	"context"
	"fmt"
	"sort"

	"pledge/internal/models"
)

const leaderboardLimit = 50

// Leaderboard builds the top-giver and top-receiver rankings from the
// aggregated stats projection. Zero-count entries are dropped.
func (s *Service) Leaderboard(ctx context.Context) (*models.Leaderboard, error) {
	stats, err := s.store.GetLeaderboardStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("leaderboard stats: %w", err)
	}

	lb := &models.Leaderboard{
		TopGivers:    []models.LeaderboardEntry{},
		TopReceivers: []models.LeaderboardEntry{},
	}

	for _, s := range stats {
		if s.GivenCount > 0 {
			lb.TopGivers = append(lb.TopGivers, models.LeaderboardEntry{
				UserID:      s.UserID,
				Name:        s.Name,
				Institution: s.Institution,
				Count:       s.GivenCount,
			})
		}
		if s.ReceivedCount > 0 {
			lb.TopReceivers = append(lb.TopReceivers, models.LeaderboardEntry{
				UserID:      s.UserID,
				Name:        s.Name,
				Institution: s.Institution,
				Count:       s.ReceivedCount,
			})
		}
	}

	sortEntries(lb.TopGivers)
	sortEntries(lb.TopReceivers)
	lb.TopGivers = truncate(lb.TopGivers, leaderboardLimit)
	lb.TopReceivers = truncate(lb.TopReceivers, leaderboardLimit)

	return lb, nil
}

func sortEntries(entries []models.LeaderboardEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
}

func truncate(entries []models.LeaderboardEntry, limit int) []models.LeaderboardEntry {
	if len(entries) > limit {
		return entries[:limit]
	}
	return entries
}

// InstitutionGraph assembles the institution exchange graph: one node per
// institution appearing on either side of an edge, with given/received
// totals summed across its edges.
func (s *Service) InstitutionGraph(ctx context.Context) (*models.InstitutionGraph, error) {
	edges, err := s.store.ListInstitutionEdges(ctx)
	if err != nil {
		return nil, fmt.Errorf("institution edges: %w", err)
	}

	nodes := make(map[string]*models.InstitutionNode)
	ensure := func(id string) *models.InstitutionNode {
		if n, ok := nodes[id]; ok {
			return n
		}
		n := &models.InstitutionNode{ID: id, Label: id}
		nodes[id] = n
		return n
	}

	graph := &models.InstitutionGraph{
		Nodes: []models.InstitutionNode{},
		Links: []models.InstitutionLink{},
	}

	for _, e := range edges {
		ensure(e.FromInstitution).Stats.Given += e.ExchangeCount
		ensure(e.ToInstitution).Stats.Received += e.ExchangeCount
		graph.Links = append(graph.Links, models.InstitutionLink{
			Source: e.FromInstitution,
			Target: e.ToInstitution,
			Value:  e.ExchangeCount,
		})
	}

	ids := make([]string, 0, len(nodes))
	for id := range nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		graph.Nodes = append(graph.Nodes, *nodes[id])
	}

	return graph, nil
}
