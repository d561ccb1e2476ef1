package jobs

import (
	"context"
	"log"
	"time"

	"pledge/internal/db"
)

// GraphAggregator periodically recomputes the cross-institution exchange
// edges from accepted receipts. The graph endpoint reads the materialized
// edges, so a stale run only delays the view, never corrupts it.
type GraphAggregator struct {
	db       *db.DB
	interval time.Duration
}

// NewGraphAggregator creates a new graph aggregator.
func NewGraphAggregator(database *db.DB, interval time.Duration) *GraphAggregator {
	return &GraphAggregator{db: database, interval: interval}
}

// Start begins the background aggregation loop.
func (g *GraphAggregator) Start(ctx context.Context) {
	log.Printf("Institution graph aggregator started (interval: %v)", g.interval)

	// Run immediately on start
	g.rebuild(ctx)

	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Institution graph aggregator stopped")
			return
		case <-ticker.C:
			g.rebuild(ctx)
		}
	}
}

func (g *GraphAggregator) rebuild(ctx context.Context) {
	if err := g.db.RebuildInstitutionEdges(ctx); err != nil {
		log.Printf("Graph aggregator: rebuild failed: %v", err)
	}
}
