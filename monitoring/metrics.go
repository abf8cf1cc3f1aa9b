package monitoring

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ledgerOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_operations_total",
			Help: "Total ledger operations by outcome",
		},
		[]string{"operation", "outcome"},
	)

	settlementDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "settlement_duration_seconds",
			Help:    "Duration of settlement operations including payouts",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"operation"},
	)

	tokenSupply = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reward_token_supply_total",
			Help: "Current aggregate reward token supply",
		},
	)

	tierSupply = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ticket_tier_supply_total",
			Help: "Tickets sold per tier",
		},
		[]string{"tier_id"},
	)

	recordsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_records_published_total",
			Help: "Observable records delivered per sink",
		},
		[]string{"kind", "sink"},
	)

	payoutTransfers = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payout_transfers_total",
			Help: "Outbound value transfers by outcome",
		},
		[]string{"outcome"},
	)
)

// TrackOperation counts a ledger operation.
func TrackOperation(operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	ledgerOperations.WithLabelValues(operation, outcome).Inc()
}

// TrackSettlement records the duration of a settlement operation.
func TrackSettlement(operation string, d time.Duration) {
	settlementDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// SetTokenSupply updates the supply gauge after a mint or burn.
func SetTokenSupply(supply uint64) {
	tokenSupply.Set(float64(supply))
}

// SetTierSupply updates the sold count for a tier.
func SetTierSupply(tierID, current uint64) {
	tierSupply.WithLabelValues(strconv.FormatUint(tierID, 10)).Set(float64(current))
}

// TrackRecordPublished counts a record delivery to a sink.
func TrackRecordPublished(kind, sink string) {
	recordsPublished.WithLabelValues(kind, sink).Inc()
}

// TrackPayout counts an outbound transfer attempt.
func TrackPayout(err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	payoutTransfers.WithLabelValues(outcome).Inc()
}
