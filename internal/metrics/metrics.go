// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Enquiry outcomes
const (
	OutcomeAccepted       = "accepted"
	OutcomeInvalid        = "invalid"
	OutcomeDeliveryFailed = "delivery_failed"
)

var (
	// Enquiries counts form submissions by kind and outcome
	Enquiries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lanesite_enquiries_total",
		Help: "Form submissions handled, by enquiry kind and outcome.",
	}, []string{"kind", "outcome"})

	// RelayFailures counts best-effort relay forwards that failed
	RelayFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lanesite_form_relay_failures_total",
		Help: "Submissions that could not be forwarded to the form relay.",
	})

	// ContentFetchFailures counts content store queries that degraded to an empty result
	ContentFetchFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lanesite_content_fetch_failures_total",
		Help: "Content store queries that failed, by record kind.",
	}, []string{"kind"})

	// ContentCache counts revalidation cache lookups by result (hit, miss)
	ContentCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lanesite_content_cache_lookups_total",
		Help: "Content cache lookups, by result.",
	}, []string{"result"})
)

// Handler serves the default registry in the Prometheus text format
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
