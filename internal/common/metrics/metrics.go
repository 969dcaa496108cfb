package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	StatusOK       = "ok"
	StatusNotFound = "not_found"
	StatusError    = "error"
)

var (
	ContentRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_requests_total",
			Help: "Total number of content gateway calls",
		},
		[]string{"backend", "operation", "status"},
	)

	ContentRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "content_request_duration_seconds",
			Help:    "Duration of content gateway calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend", "operation"},
	)

	ContentCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_cache_lookups_total",
			Help: "Headless CMS response cache lookups by result",
		},
		[]string{"result"},
	)

	CRMRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_requests_total",
			Help: "Total number of CRM adapter calls",
		},
		[]string{"provider", "operation", "status"},
	)

	LeadSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_submissions_total",
			Help: "Contact form submissions by outcome",
		},
		[]string{"status"},
	)
)
