package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
)

// Register registers all relayer collectors with the default registry.
// Calling it again is harmless.
func Register(logger zerolog.Logger) {
	registerIfNotExists(collectors.NewGoCollector(), "go_collector", logger)
	registerIfNotExists(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}), "process_collector", logger)

	registerIfNotExists(buildsTotal, "builds_total", logger)
	registerIfNotExists(buildDuration, "build_duration", logger)
	registerIfNotExists(messagesTotal, "messages_total", logger)
	registerIfNotExists(recordsDroppedTotal, "records_dropped_total", logger)
	registerIfNotExists(donationRedirectsTotal, "donation_redirects_total", logger)
	registerIfNotExists(gasPriceFallbacksTotal, "gas_price_fallbacks_total", logger)
	registerIfNotExists(broadcastsTotal, "broadcasts_total", logger)
	registerIfNotExists(lookupsTotal, "lookups_total", logger)
	registerIfNotExists(lastRelayTimestamp, "last_relay_timestamp", logger)

	registerIfNotExists(httpRequestsTotal, "http_requests_total", logger)
	registerIfNotExists(httpRequestDuration, "http_request_duration", logger)
}

func registerIfNotExists(collector prometheus.Collector, name string, logger zerolog.Logger) {
	if err := prometheus.Register(collector); err != nil {
		var alreadyRegErr prometheus.AlreadyRegisteredError
		if errors.As(err, &alreadyRegErr) {
			logger.Debug().Str("collector", name).Msg("already registered")
			return
		}
		logger.Error().Err(err).Str("collector", name).Msg("failed to register collector")
	}
}
