package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Settlement metrics
	SettlementsTotal   *prometheus.CounterVec
	SettlementErrors   *prometheus.CounterVec
	SettlementDuration *prometheus.HistogramVec

	// Price oracle metrics
	OracleRequests  *prometheus.CounterVec
	OracleDuration  *prometheus.HistogramVec
	OracleCacheHits prometheus.Counter

	// User metrics
	UsersRegistered prometheus.Counter
	AuthFailures    prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		SettlementsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bitcoin_settlements_total",
				Help: "Total number of settled operations by type",
			},
			[]string{"operation"},
		),
		SettlementErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bitcoin_settlement_errors_total",
				Help: "Total number of failed operations by type",
			},
			[]string{"operation"},
		),
		SettlementDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bitcoin_settlement_duration_seconds",
				Help:    "Duration of settlement operations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		OracleRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bitcoin_oracle_requests_total",
				Help: "Total price oracle requests by provider and status",
			},
			[]string{"provider", "status"},
		),
		OracleDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bitcoin_oracle_duration_seconds",
				Help:    "Price oracle request duration by provider",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider"},
		),
		OracleCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bitcoin_oracle_cache_hits_total",
			Help: "Total price quotes served from cache",
		}),

		UsersRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bitcoin_users_registered_total",
			Help: "Total number of registered users",
		}),
		AuthFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bitcoin_auth_failures_total",
			Help: "Total number of failed authentication attempts",
		}),

		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bitcoin_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bitcoin_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}
}
