package worker

import (
	"fmt"
	"log/slog"
	"time"

	"fact-news/internal/pkg/config"
)

// WorkerConfig controls when and how the daily paper warm-up runs.
//
// Values come from environment variables (LoadConfigFromEnv) and fall back to
// DefaultConfig field by field when a variable is invalid.
type WorkerConfig struct {
	// CronSchedule is a 5-field cron expression. Default: "30 5 * * *".
	CronSchedule string

	// Timezone is the IANA zone the schedule and "today" are evaluated in.
	// Default: "Asia/Tokyo".
	Timezone string

	// JobTimeout bounds one warm-up run, generation included. Default: 10m.
	JobTimeout time.Duration

	// DaysAhead warms this many days after today as well (0-7). Default: 0.
	DaysAhead int

	// HealthPort serves /health, /health/ready and /metrics (1024-65535). Default: 9091.
	HealthPort int
}

// DefaultConfig returns the production defaults: one run every morning at 5:30 JST.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		CronSchedule: "30 5 * * *",
		Timezone:     "Asia/Tokyo",
		JobTimeout:   10 * time.Minute,
		DaysAhead:    0,
		HealthPort:   9091,
	}
}

// Location resolves Timezone, falling back to UTC.
func (c *WorkerConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Validate checks every field and reports all problems together.
func (c *WorkerConfig) Validate() error {
	var errs []error

	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("CronSchedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("Timezone: %w", err))
	}
	if err := config.ValidatePositiveDuration(c.JobTimeout); err != nil {
		errs = append(errs, fmt.Errorf("JobTimeout: %w", err))
	}
	if err := config.ValidateIntRange(c.DaysAhead, 0, 7); err != nil {
		errs = append(errs, fmt.Errorf("DaysAhead: %w", err))
	}
	if err := config.ValidateIntRange(c.HealthPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("HealthPort: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation errors: %v", errs)
	}
	return nil
}

// LoadConfigFromEnv reads the WORKER_* variables. It never fails: an invalid
// value is logged, counted in metrics and replaced by its default.
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) (*WorkerConfig, error) {
	cfg := DefaultConfig()
	var cm *config.ConfigMetrics
	if metrics != nil {
		cm = metrics.ConfigMetrics
	}

	cfg.CronSchedule = config.Apply(cm, logger, "cron_schedule",
		config.LoadEnvString("CRON_SCHEDULE", cfg.CronSchedule, config.ValidateCronSchedule))
	cfg.Timezone = config.Apply(cm, logger, "timezone",
		config.LoadEnvString("WORKER_TIMEZONE", cfg.Timezone, config.ValidateTimezone))
	cfg.JobTimeout = config.Apply(cm, logger, "job_timeout",
		config.LoadEnvDuration("WORKER_JOB_TIMEOUT", cfg.JobTimeout, config.ValidatePositiveDuration))
	cfg.DaysAhead = config.Apply(cm, logger, "days_ahead",
		config.LoadEnvInt("WORKER_DAYS_AHEAD", cfg.DaysAhead, func(v int) error {
			return config.ValidateIntRange(v, 0, 7)
		}))
	cfg.HealthPort = config.Apply(cm, logger, "health_port",
		config.LoadEnvInt("WORKER_HEALTH_PORT", cfg.HealthPort, func(v int) error {
			return config.ValidateIntRange(v, 1024, 65535)
		}))

	if cm != nil {
		cm.RecordLoadTimestamp()
	}
	return &cfg, nil
}
