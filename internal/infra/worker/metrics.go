package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"fact-news/internal/pkg/config"
)

// WorkerMetrics holds the warm-up job metrics plus the embedded configuration metrics:
//
//   - worker_cron_job_runs_total{status}: runs by status (started|success|failure)
//   - worker_cron_job_duration_seconds: run duration
//   - worker_papers_warmed_total{result}: papers per run result (found|generated|failure)
//   - worker_cron_job_last_success_timestamp: Unix time of the last successful run
type WorkerMetrics struct {
	*config.ConfigMetrics

	CronJobRunsTotal            *prometheus.CounterVec
	CronJobDurationSeconds      prometheus.Histogram
	PapersWarmedTotal           *prometheus.CounterVec
	CronJobLastSuccessTimestamp prometheus.Gauge
}

// NewWorkerMetrics creates and registers the worker metrics with reg
// (prometheus.DefaultRegisterer when nil). Tests pass a fresh registry.
func NewWorkerMetrics(reg prometheus.Registerer) *WorkerMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &WorkerMetrics{
		ConfigMetrics: config.NewConfigMetrics("worker", reg),

		CronJobRunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_cron_job_runs_total",
			Help: "Total number of cron job runs by status",
		}, []string{"status"}),

		// 生成 API は数十秒かかることがある
		CronJobDurationSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "worker_cron_job_duration_seconds",
			Help:    "Duration of cron job execution in seconds",
			Buckets: []float64{0.5, 1, 5, 15, 30, 60, 300, 600},
		}),

		PapersWarmedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_papers_warmed_total",
			Help: "Total number of papers checked by the warm-up job by result",
		}, []string{"result"}),

		CronJobLastSuccessTimestamp: factory.NewGauge(prometheus.GaugeOpts{
			Name: "worker_cron_job_last_success_timestamp",
			Help: "Unix timestamp of the last successful cron job run",
		}),
	}
}

// RecordJobRun increments the run counter for status.
func (m *WorkerMetrics) RecordJobRun(status string) {
	m.CronJobRunsTotal.WithLabelValues(status).Inc()
}

// RecordJobDuration observes one run's duration in seconds.
func (m *WorkerMetrics) RecordJobDuration(seconds float64) {
	m.CronJobDurationSeconds.Observe(seconds)
}

// RecordPaperWarmed counts one paper by how its warm-up resolved.
func (m *WorkerMetrics) RecordPaperWarmed(result string) {
	m.PapersWarmedTotal.WithLabelValues(result).Inc()
}

// RecordLastSuccess stamps the current time as the last successful run.
func (m *WorkerMetrics) RecordLastSuccess() {
	m.CronJobLastSuccessTimestamp.SetToCurrentTime()
}
