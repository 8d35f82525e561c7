package observability

import "github.com/prometheus/client_golang/prometheus"

var (
	// prodcat-api metrics
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "prodcat_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"route", "method", "code"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "prodcat_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	ActiveRequests = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "prodcat_active_requests",
		Help: "Current in-flight requests",
	})

	// audit recorder metrics
	AuditWritesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "prodcat_audit_writes_total",
		Help: "Audit sink writes by sink and result",
	}, []string{"sink", "result"})

	AuditRejectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "prodcat_audit_rejected_total",
		Help: "Audit events refused before reaching any sink",
	}, []string{"reason"})

	// content cache metrics
	ContentCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "prodcat_content_cache_total",
		Help: "Content cache lookups by result",
	}, []string{"result"})

	// maintenance metrics
	EnrichTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "prodcat_enrich_total",
		Help: "Description enrichment attempts by result",
	}, []string{"result"})

	EnrichFetchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "prodcat_enrich_fetch_duration_seconds",
		Help:    "Product page fetch duration",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 15},
	})

	// prodcat-worker metrics
	JobRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "prodcat_job_runs_total",
		Help: "Scheduled maintenance job runs by job and result",
	}, []string{"job", "result"})

	JobDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "prodcat_job_duration_seconds",
		Help:    "Scheduled maintenance job duration",
		Buckets: []float64{0.1, 0.5, 1, 5, 15, 60, 300, 900},
	}, []string{"job"})

	LockWaitSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "prodcat_job_lock_seconds",
		Help:    "Time to try the job advisory lock",
		Buckets: prometheus.DefBuckets,
	})
)

func RegisterAll(reg prometheus.Registerer) {
	reg.MustRegister(
		HTTPRequestsTotal, HTTPRequestDuration, ActiveRequests,
		AuditWritesTotal, AuditRejectedTotal,
		ContentCacheTotal,
		EnrichTotal, EnrichFetchDuration,
		JobRunsTotal, JobDuration, LockWaitSeconds,
	)
}
