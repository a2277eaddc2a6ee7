// Package metrics exposes Prometheus instrumentation for outbound
// provider traffic.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ProviderRequests counts outbound provider API calls by outcome.
	// Outcome is "ok", "degraded" (best-effort call swallowed a failure)
	// or "error".
	ProviderRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moodtune_provider_requests_total",
		Help: "Outbound music provider API calls.",
	}, []string{"provider", "operation", "outcome"})

	// RetryAttempts counts individual attempts made under the retry policy.
	RetryAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moodtune_retry_attempts_total",
		Help: "Attempts performed by the shared retry policy.",
	}, []string{"operation"})

	// TokenRefreshes counts credential cache refreshes per provider.
	TokenRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moodtune_token_refreshes_total",
		Help: "Provider token fetches triggered by cache expiry.",
	}, []string{"provider"})
)

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
