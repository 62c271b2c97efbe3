package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "shuttle"

var (
	// Batch build metrics
	buildsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "relayer",
			Name:      "builds_total",
			Help:      "Total number of batch builds",
		},
		[]string{"status"}, // built, noop, error
	)

	buildDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "relayer",
			Name:      "build_duration_seconds",
			Help:      "Time taken to build and sign a batch",
			Buckets:   prometheus.DefBuckets,
		},
	)

	messagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "relayer",
			Name:      "messages_total",
			Help:      "Total number of outbound messages emitted",
		},
		[]string{"kind"}, // transfer, contract_transfer, contract_mint
	)

	recordsDroppedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "relayer",
			Name:      "records_dropped_total",
			Help:      "Total number of deposit records skipped during build",
		},
		[]string{"reason"},
	)

	donationRedirectsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "relayer",
			Name:      "donation_redirects_total",
			Help:      "Total number of records paid to the donation address",
		},
	)

	// Fee estimation metrics
	gasPriceFallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fees",
			Name:      "gas_price_fallbacks_total",
			Help:      "Total number of times default gas prices were used",
		},
		[]string{"reason"},
	)

	// Submission metrics
	broadcastsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "relayer",
			Name:      "broadcasts_total",
			Help:      "Total number of transaction broadcasts",
		},
		[]string{"status"}, // accepted, duplicate, rejected, error
	)

	lookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "relayer",
			Name:      "lookups_total",
			Help:      "Total number of transaction lookups",
		},
		[]string{"result"}, // found, not_found, error
	)

	lastRelayTimestamp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "relayer",
			Name:      "last_relay_timestamp",
			Help:      "Timestamp of the last accepted broadcast",
		},
	)
)

// RecordBuild records the outcome and duration of one batch build.
func RecordBuild(status string, duration time.Duration) {
	buildsTotal.WithLabelValues(status).Inc()
	buildDuration.Observe(duration.Seconds())
}

// RecordMessage counts one emitted outbound message of the given kind.
func RecordMessage(kind string) {
	messagesTotal.WithLabelValues(kind).Inc()
}

// RecordDropped counts a skipped deposit record.
func RecordDropped(reason string) {
	recordsDroppedTotal.WithLabelValues(reason).Inc()
}

// RecordDonationRedirect counts a record whose recipient was replaced.
func RecordDonationRedirect() {
	donationRedirectsTotal.Inc()
}

// RecordGasPriceFallback counts a fall back to default gas prices.
func RecordGasPriceFallback(reason string) {
	gasPriceFallbacksTotal.WithLabelValues(reason).Inc()
}

// RecordBroadcast counts one broadcast by outcome.
func RecordBroadcast(status string) {
	broadcastsTotal.WithLabelValues(status).Inc()
	if status == "accepted" || status == "duplicate" {
		lastRelayTimestamp.SetToCurrentTime()
	}
}

// RecordLookup counts one confirmation lookup by result.
func RecordLookup(result string) {
	lookupsTotal.WithLabelValues(result).Inc()
}
