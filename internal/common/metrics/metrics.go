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

	SubmissionsReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "submissions_received_total",
			Help: "Total number of survey submissions accepted by the intake API",
		},
		[]string{"tier"},
	)

	SubmissionsThrottled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "submissions_throttled_total",
			Help: "Total number of submissions rejected by the per-email throttle",
		},
	)

	ReportsGenerated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reports_generated_total",
			Help: "Total number of readiness reports rendered",
		},
	)

	ReportsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reports_sent_total",
			Help: "Total number of readiness report emails delivered",
		},
		[]string{"status"},
	)
)
