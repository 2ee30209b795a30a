// Package metrics defines the custom Prometheus collectors of the AppFounders
// API. Collectors register with the default registry through promauto when the
// package is imported; echoprometheus serves them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "appfounders"

// ── Gate metrics ──────────────────────────────────────────────────────────────

// GateDecisionsTotal counts authorization gate outcomes.
// Labels:
//   - decision: "allow", "deny_unauthenticated", "deny_insufficient_role" or "deny_resource_forbidden"
//   - required_role: the role the route policy asks for
var GateDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gate_decisions_total",
		Help:      "Total number of authorization gate decisions.",
	},
	[]string{"decision", "required_role"},
)

// SessionResolutionDuration measures how long resolving a request principal takes.
// Label:
//   - outcome: "ok", "missing", "invalid", "revoked", "stale", "error" or "dev"
var SessionResolutionDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "session_resolution_duration_seconds",
		Help:      "Duration of session resolution, labelled by outcome.",
		Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	},
	[]string{"outcome"},
)

// ── Moderation metrics ────────────────────────────────────────────────────────

// ModerationProcessedTotal counts moderation decisions applied.
// Label:
//   - status: the new app status
var ModerationProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "moderation_processed_total",
		Help:      "Total number of moderation decisions successfully applied.",
	},
	[]string{"status"},
)

// ModerationErrorsTotal counts moderation decisions that failed.
// Label:
//   - reason: "invalid_transition", "app_not_found" or "update_failed"
var ModerationErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "moderation_errors_total",
		Help:      "Total number of moderation decisions that failed processing.",
	},
	[]string{"reason"},
)

// ModerationDedupTotal counts deduplication checks by result ("hit" or "miss").
var ModerationDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "moderation_dedup_total",
		Help:      "Total number of moderation deduplication checks, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// ModerationQueueDepth tracks pending decisions per dispatcher worker.
var ModerationQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "moderation_queue_depth",
		Help:      "Current number of moderation decisions pending in each worker channel.",
	},
	[]string{"worker_id"},
)

// ModerationProcessingDuration measures dequeue-to-persistence time.
// Label:
//   - status: the resulting app status, or "error" on failure
var ModerationProcessingDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "moderation_processing_duration_seconds",
		Help:      "Duration of moderation processing from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"status"},
)

// ── Marketplace metrics ───────────────────────────────────────────────────────

// AppsSubmittedTotal counts new app submissions by category.
var AppsSubmittedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "apps_submitted_total",
		Help:      "Total number of apps submitted, by category.",
	},
	[]string{"category"},
)

// ReviewsCreatedTotal counts reviews by star rating.
var ReviewsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reviews_created_total",
		Help:      "Total number of reviews created, by rating.",
	},
	[]string{"rating"},
)
