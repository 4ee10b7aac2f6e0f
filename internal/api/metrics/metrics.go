// Package metrics defines and registers all custom Prometheus metrics for the
// blog API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "blog"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts authentication decisions.
// Labels:
//   - method: "login", "password_header", "bearer" or "google"
//   - result: "success", "failure" or "throttled"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of authentication attempts, by method and result.",
	},
	[]string{"method", "result"},
)

// AuthorsRegisteredTotal counts accounts created through password
// registration. OAuth sign-ups are logged by the auth service.
var AuthorsRegisteredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authors_registered_total",
		Help:      "Total number of author accounts created through registration.",
	},
)

// ── Content metrics ───────────────────────────────────────────────────────────

// PostsTotal counts post writes.
// Label:
//   - op: "create", "update" or "delete"
var PostsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "posts_total",
		Help:      "Total number of blog post writes, by operation.",
	},
	[]string{"op"},
)

// CommentsTotal counts comment writes.
// Label:
//   - op: "create", "update" or "delete"
var CommentsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "comments_total",
		Help:      "Total number of comment writes, by operation.",
	},
	[]string{"op"},
)

// ListPageSize observes how many items a list request returned.
// Label:
//   - resource: "authors" or "blogs"
var ListPageSize = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "list_page_size",
		Help:      "Number of items returned per list request.",
		Buckets:   []float64{0, 1, 5, 10, 20, 50, 100},
	},
	[]string{"resource"},
)
