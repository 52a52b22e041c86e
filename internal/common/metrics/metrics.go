// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	// QuestionsReceived counts questions by entry point (api, worker, cli).
	QuestionsReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatbot_questions_received_total",
			Help: "Total number of questions received",
		},
		[]string{"source"},
	)

	AnswersReturned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatbot_answers_returned_total",
			Help: "Total number of answers returned by response code",
		},
		[]string{"response_code"},
	)

	IntentsRendered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatbot_intents_rendered_total",
			Help: "Total number of answers rendered per formatter intent",
		},
		[]string{"intent"},
	)

	KnowledgeBaseDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chatbot_knowledge_base_duration_seconds",
			Help:    "Duration of knowledge base queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)

	DatasetFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chatbot_dataset_fetch_duration_seconds",
			Help:    "Duration of dataset fetches in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"dataset", "backend"},
	)

	DatasetFetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatbot_dataset_fetch_errors_total",
			Help: "Total number of failed dataset fetches",
		},
		[]string{"dataset", "error_code"},
	)

	MalformedRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatbot_malformed_rows_total",
			Help: "Total number of dataset rows skipped because they could not be decoded",
		},
		[]string{"dataset"},
	)

	DatasetCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatbot_dataset_cache_lookups_total",
			Help: "Dataset cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)

	UnansweredRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatbot_unanswered_recorded_total",
			Help: "Unanswered questions written to the analytics index",
		},
		[]string{"status"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)
