package metrics

import (
	"context"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"pledge/internal/db"
)

var (
	receiptStatusDesc = prometheus.NewDesc(
		"pledge_receipts_total",
		"Receipt count by status, read from the database on scrape",
		[]string{"status"},
		nil,
	)
	connectionsDesc = prometheus.NewDesc(
		"pledge_connections_total",
		"Connection count by state, read from the database on scrape",
		[]string{"state"},
		nil,
	)
)

// Operation counters, incremented by the HTTP handlers.
var (
	ReceiptsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pledge_receipts_created_total",
		Help: "Receipts created via the API",
	})
	ReceiptsClaimed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pledge_receipts_claimed_total",
		Help: "Receipts claimed via the API",
	})
	ReceiptsRejected = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pledge_receipts_rejected_total",
		Help: "Receipts rejected via the API",
	})
	ConnectionRequests = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pledge_connection_requests_total",
		Help: "Connection requests made via the API",
	})
	Onboardings = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pledge_onboardings_total",
		Help: "Profiles created or updated via onboarding",
	})
)

// LedgerCollector is a custom Prometheus collector that reads receipt and
// connection totals from the database on each scrape.
type LedgerCollector struct {
	db *db.DB
}

// Describe sends the metric descriptors to the channel.
func (c *LedgerCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- receiptStatusDesc
	ch <- connectionsDesc
}

// Collect queries the database for current totals and emits them as gauges.
func (c *LedgerCollector) Collect(ch chan<- prometheus.Metric) {
	ctx := context.Background()

	byStatus, err := c.db.CountReceiptsByStatus(ctx)
	if err != nil {
		slog.Error("failed to collect receipt metrics", "error", err)
	} else {
		for status, count := range byStatus {
			ch <- prometheus.MustNewConstMetric(
				receiptStatusDesc,
				prometheus.GaugeValue,
				float64(count),
				status,
			)
		}
	}

	total, accepted, err := c.db.CountConnections(ctx)
	if err != nil {
		slog.Error("failed to collect connection metrics", "error", err)
		return
	}
	ch <- prometheus.MustNewConstMetric(connectionsDesc, prometheus.GaugeValue, float64(total), "total")
	ch <- prometheus.MustNewConstMetric(connectionsDesc, prometheus.GaugeValue, float64(accepted), "accepted")
}

var initOnce sync.Once

// Init registers the counters and the database-backed collector.
// Must be called once at startup.
func Init(database *db.DB) {
	initOnce.Do(func() {
		prometheus.MustRegister(
			ReceiptsCreated,
			ReceiptsClaimed,
			ReceiptsRejected,
			ConnectionRequests,
			Onboardings,
			&LedgerCollector{db: database},
		)
	})
}
