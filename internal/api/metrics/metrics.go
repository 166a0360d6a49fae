// Package metrics defines and registers all custom Prometheus metrics for the
// healthcare API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics register with the default Prometheus registry on import and are
// exposed at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "healthcare"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "inactive" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokensIssuedTotal counts signed tokens handed out.
// Label:
//   - kind: "access" or "refresh"
var TokensIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "tokens_issued_total",
		Help:      "Total number of tokens issued, by kind.",
	},
	[]string{"kind"},
)

// AuthRejectionsTotal counts requests turned away by the auth middleware.
// Label:
//   - reason: "missing_header", "malformed_header", "invalid_token", "inactive", "unavailable"
var AuthRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "rejections_total",
		Help:      "Total number of requests rejected during authentication or authorization.",
	},
	[]string{"reason"},
)

// ── Account metrics ───────────────────────────────────────────────────────────

// RegistrationsTotal counts accounts opened.
// Label:
//   - role: "patient", "doctor" or "admin"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of accounts registered, by role.",
	},
	[]string{"role"},
)

// ── HTTP metrics ──────────────────────────────────────────────────────────────

// HTTPRequestDuration measures request latency per route.
// Labels:
//   - method: HTTP method
//   - route: the matched route pattern (e.g. "/patients/:id")
//   - status: response status code
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Duration of HTTP requests by method, route and status.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"method", "route", "status"},
)
