package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Transfer metrics
	TransfersPosted    *prometheus.CounterVec
	TransfersFailed    *prometheus.CounterVec
	TransferDuration   prometheus.Histogram
	TransferAmount     prometheus.Histogram
	IdempotentReplays  prometheus.Counter
	FeesCollected      prometheus.Counter

	// Account metrics
	AccountsCreated   prometheus.Counter
	AccountOperations *prometheus.CounterVec

	// Member metrics
	MembersRegistered prometheus.Counter

	// Outbox metrics
	OutboxPublished  prometheus.Counter
	OutboxErrors     prometheus.Counter
	OutboxBacklog    prometheus.Gauge

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBRetries     *prometheus.CounterVec
	DBConnections prometheus.Gauge

	// Redis metrics
	RedisErrors *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Transfer metrics
		TransfersPosted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "remit_transfers_posted_total",
				Help: "Total number of transfers posted",
			},
			[]string{"operation"},
		),
		TransfersFailed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "remit_transfers_failed_total",
				Help: "Total number of failed transfers by fail code",
			},
			[]string{"fail_code"},
		),
		TransferDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "remit_transfer_duration_seconds",
			Help:    "Duration of transfer operations",
			Buckets: prometheus.DefBuckets,
		}),
		TransferAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "remit_transfer_amount",
			Help:    "Transfer amounts",
			Buckets: []float64{1000, 10000, 100000, 1000000, 10000000, 100000000},
		}),
		IdempotentReplays: promauto.NewCounter(prometheus.CounterOpts{
			Name: "remit_idempotent_replays_total",
			Help: "Total number of transfer requests served from a prior result",
		}),
		FeesCollected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "remit_fees_collected_total",
			Help: "Total fee amount collected",
		}),

		// Account metrics
		AccountsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "remit_accounts_created_total",
			Help: "Total number of accounts created",
		}),
		AccountOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "remit_account_operations_total",
				Help: "Total account operations by type",
			},
			[]string{"operation"},
		),

		// Member metrics
		MembersRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "remit_members_registered_total",
			Help: "Total number of members registered",
		}),

		// Outbox metrics
		OutboxPublished: promauto.NewCounter(prometheus.CounterOpts{
			Name: "remit_outbox_published_total",
			Help: "Total number of outbox events published",
		}),
		OutboxErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "remit_outbox_errors_total",
			Help: "Total number of outbox publish errors",
		}),
		OutboxBacklog: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "remit_outbox_backlog",
			Help: "Number of unpublished outbox events seen on the last poll",
		}),

		// API metrics
		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "remit_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "remit_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Database metrics
		DBRetries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "remit_db_retries_total",
				Help: "Total transaction retries by SQL state",
			},
			[]string{"code"},
		),
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "remit_db_connections",
			Help: "Current number of database connections",
		}),

		// Redis metrics
		RedisErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "remit_redis_errors_total",
				Help: "Total Redis errors",
			},
			[]string{"operation"},
		),

		// Rate limiting metrics
		RateLimitHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "remit_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),
	}
}
