package worker

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "30 5 * * *", cfg.CronSchedule)
	assert.Equal(t, "Asia/Tokyo", cfg.Timezone)
	assert.Equal(t, 10*time.Minute, cfg.JobTimeout)
	assert.Equal(t, 0, cfg.DaysAhead)
	assert.Equal(t, 9091, cfg.HealthPort)
	require.NoError(t, cfg.Validate())
}

func TestWorkerConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*WorkerConfig)
		wantErr string
	}{
		{name: "defaults", mutate: func(*WorkerConfig) {}},
		{name: "hourly in UTC", mutate: func(c *WorkerConfig) { c.CronSchedule = "0 * * * *"; c.Timezone = "UTC" }},
		{name: "invalid cron", mutate: func(c *WorkerConfig) { c.CronSchedule = "every morning" }, wantErr: "CronSchedule"},
		{name: "empty cron", mutate: func(c *WorkerConfig) { c.CronSchedule = "" }, wantErr: "CronSchedule"},
		{name: "invalid timezone", mutate: func(c *WorkerConfig) { c.Timezone = "Mars/Olympus" }, wantErr: "Timezone"},
		{name: "zero timeout", mutate: func(c *WorkerConfig) { c.JobTimeout = 0 }, wantErr: "JobTimeout"},
		{name: "negative days ahead", mutate: func(c *WorkerConfig) { c.DaysAhead = -1 }, wantErr: "DaysAhead"},
		{name: "days ahead max", mutate: func(c *WorkerConfig) { c.DaysAhead = 7 }},
		{name: "days ahead too many", mutate: func(c *WorkerConfig) { c.DaysAhead = 8 }, wantErr: "DaysAhead"},
		{name: "privileged port", mutate: func(c *WorkerConfig) { c.HealthPort = 80 }, wantErr: "HealthPort"},
		{name: "port boundary", mutate: func(c *WorkerConfig) { c.HealthPort = 65535 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWorkerConfig_Validate_MultipleErrors(t *testing.T) {
	cfg := WorkerConfig{}
	err := cfg.Validate()
	require.Error(t, err)
	for _, field := range []string{"CronSchedule", "Timezone", "JobTimeout", "HealthPort"} {
		assert.Contains(t, err.Error(), field)
	}
}

func TestWorkerConfig_Location(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "Asia/Tokyo", cfg.Location().String())

	cfg.Timezone = "nowhere"
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestLoadConfigFromEnv_AllValid(t *testing.T) {
	t.Setenv("CRON_SCHEDULE", "0 6 * * *")
	t.Setenv("WORKER_TIMEZONE", "UTC")
	t.Setenv("WORKER_JOB_TIMEOUT", "2m")
	t.Setenv("WORKER_DAYS_AHEAD", "1")
	t.Setenv("WORKER_HEALTH_PORT", "9191")

	metrics := NewWorkerMetrics(prometheus.NewRegistry())
	cfg, err := LoadConfigFromEnv(slog.Default(), metrics)
	require.NoError(t, err)

	assert.Equal(t, WorkerConfig{
		CronSchedule: "0 6 * * *",
		Timezone:     "UTC",
		JobTimeout:   2 * time.Minute,
		DaysAhead:    1,
		HealthPort:   9191,
	}, *cfg)
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.FallbackActive))
}

func TestLoadConfigFromEnv_Unset(t *testing.T) {
	for _, key := range []string{"CRON_SCHEDULE", "WORKER_TIMEZONE", "WORKER_JOB_TIMEOUT", "WORKER_DAYS_AHEAD", "WORKER_HEALTH_PORT"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfigFromEnv(slog.Default(), nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), *cfg)
}

func TestLoadConfigFromEnv_InvalidFallsBack(t *testing.T) {
	tests := []struct {
		key   string
		value string
		field string
	}{
		{key: "CRON_SCHEDULE", value: "whenever", field: "cron_schedule"},
		{key: "WORKER_TIMEZONE", value: "Invalid/Zone", field: "timezone"},
		{key: "WORKER_JOB_TIMEOUT", value: "-5m", field: "job_timeout"},
		{key: "WORKER_DAYS_AHEAD", value: "30", field: "days_ahead"},
		{key: "WORKER_HEALTH_PORT", value: "abc", field: "health_port"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, nil))
			metrics := NewWorkerMetrics(prometheus.NewRegistry())

			cfg, err := LoadConfigFromEnv(logger, metrics)
			require.NoError(t, err)
			assert.Equal(t, DefaultConfig(), *cfg)

			assert.Contains(t, buf.String(), "configuration fallback applied")
			assert.Contains(t, buf.String(), tt.field)
			assert.Equal(t, float64(1), testutil.ToFloat64(metrics.FallbacksTotal.WithLabelValues(tt.field)))
			assert.Equal(t, float64(1), testutil.ToFloat64(metrics.FallbackActive))
		})
	}
}
