package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RecordsRegistered = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "disasterbio",
		Name:      "records_registered_total",
		Help:      "Total number of victim records registered",
	})

	RecordsStored = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "disasterbio",
		Name:      "records_stored",
		Help:      "Number of victim records currently in the registry",
	})

	Searches = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "disasterbio",
		Name:      "searches_total",
		Help:      "Total number of text searches",
	})

	Scans = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "disasterbio",
		Name:      "scans_total",
		Help:      "Total number of simulated biometric scans",
	}, []string{"mode"})

	PersistFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "disasterbio",
		Name:      "persist_failures_total",
		Help:      "Number of failed writes to the blob store",
	})

	SyncRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "disasterbio",
		Name:      "sync_runs_total",
		Help:      "Offline queue drain attempts by result",
	}, []string{"result"})

	OpenSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "disasterbio",
		Name:      "registration_sessions",
		Help:      "Number of open registration sessions",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "disasterbio",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	WSConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "disasterbio",
		Name:      "ws_connections",
		Help:      "Number of active WebSocket connections",
	})

	SyncQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "disasterbio",
		Name:      "sync_queue_depth",
		Help:      "Sync batches waiting in the SYNC stream",
	})

	ArchivedBatches = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "disasterbio",
		Name:      "archived_batches_total",
		Help:      "Sync batches written to object storage by the worker",
	})
)
