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

	SubmissionsAccepted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assessment_submissions_accepted_total",
			Help: "Submissions accepted by the gateway and handed to the scoring pipeline",
		},
		[]string{"assessment_id"},
	)

	ResultsPersisted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "assessment_results_persisted_total",
			Help: "Result bundles written to storage",
		},
	)

	MatchesComputed = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "assessment_matches_computed",
			Help:    "Number of profession candidates scored per match run",
			Buckets: prometheus.LinearBuckets(0, 50, 10),
		},
	)
)
