// Package metrics defines and registers all custom Prometheus metrics for the
// booking API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/eventhall/booking-api/internal/core/domain"
	"github.com/eventhall/booking-api/internal/core/ports"
)

const namespace = "booking"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts login, refresh and logout calls.
// Labels:
//   - role: "admin" or "user"
//   - operation: "login", "refresh" or "logout"
//   - outcome: "success", "invalid_credentials", "not_found", "invalid_token",
//     "bad_request" or "error"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of authentication protocol calls, by role, operation and outcome.",
	},
	[]string{"role", "operation", "outcome"},
)

// AccessDeniedTotal counts requests refused by the authorization gate.
// Label:
//   - reason: "missing_token", "invalid_token" or "insufficient_role"
var AccessDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_denied_total",
		Help:      "Total number of requests rejected by the authorization gate.",
	},
	[]string{"reason"},
)

// ── Account metrics ───────────────────────────────────────────────────────────

// AccountsRegisteredTotal counts newly registered accounts.
// Label:
//   - role: "admin" or "user"
var AccountsRegisteredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "accounts_registered_total",
		Help:      "Total number of accounts registered, by role.",
	},
	[]string{"role"},
)

// EmployeeHistoryRecordsTotal counts administrator release snapshots written.
var EmployeeHistoryRecordsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "employee_history_records_total",
		Help:      "Total number of employee history snapshots written on administrator removal.",
	},
)

// ── Catalog metrics ───────────────────────────────────────────────────────────

// PackageCacheLookupsTotal counts package list cache reads.
// Label:
//   - result: "hit", "miss" or "error"
var PackageCacheLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "package_cache_lookups_total",
		Help:      "Total number of package list cache lookups, labelled by result (hit/miss/error).",
	},
	[]string{"result"},
)

// PackageCacheDuration measures the latency of package cache operations.
// Label:
//   - operation: "get", "set" or "invalidate"
var PackageCacheDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "package_cache_duration_seconds",
		Help:      "Duration of package cache operations.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation"},
)

// InstrumentPackageCache wraps a cache so every call is counted and timed.
func InstrumentPackageCache(next ports.PackageCache) ports.PackageCache {
	return &instrumentedCache{next: next}
}

type instrumentedCache struct {
	next ports.PackageCache
}

func (c *instrumentedCache) Get(ctx context.Context) ([]*domain.Package, bool, error) {
	start := time.Now()
	pkgs, ok, err := c.next.Get(ctx)
	PackageCacheDuration.WithLabelValues("get").Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		PackageCacheLookupsTotal.WithLabelValues("error").Inc()
	case ok:
		PackageCacheLookupsTotal.WithLabelValues("hit").Inc()
	default:
		PackageCacheLookupsTotal.WithLabelValues("miss").Inc()
	}
	return pkgs, ok, err
}

func (c *instrumentedCache) Generation(ctx context.Context) (int64, error) {
	return c.next.Generation(ctx)
}

func (c *instrumentedCache) Set(ctx context.Context, gen int64, pkgs []*domain.Package, ttl time.Duration) error {
	start := time.Now()
	err := c.next.Set(ctx, gen, pkgs, ttl)
	PackageCacheDuration.WithLabelValues("set").Observe(time.Since(start).Seconds())
	return err
}

func (c *instrumentedCache) Invalidate(ctx context.Context) error {
	start := time.Now()
	err := c.next.Invalidate(ctx)
	PackageCacheDuration.WithLabelValues("invalidate").Observe(time.Since(start).Seconds())
	return err
}
