package config

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnv(t *testing.T) {
	tests := []struct {
		name         string
		value        string
		wantValue    time.Duration
		wantFallback bool
	}{
		{name: "unset", value: "", wantValue: time.Minute},
		{name: "valid", value: "45s", wantValue: 45 * time.Second},
		{name: "unparsable", value: "soon", wantValue: time.Minute, wantFallback: true},
		{name: "fails validation", value: "-5s", wantValue: time.Minute, wantFallback: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("T_TIMEOUT", tt.value)
			r := LoadEnvDuration("T_TIMEOUT", time.Minute, ValidatePositiveDuration)
			assert.Equal(t, tt.wantValue, r.Value)
			assert.Equal(t, tt.wantFallback, r.FallbackApplied)
			assert.Equal(t, tt.wantFallback, r.Warning != "")
		})
	}
}

func TestLoadEnvVariants(t *testing.T) {
	t.Setenv("T_CRON", "0 6 * * *")
	t.Setenv("T_PORT", "80")
	t.Setenv("T_FLAG", "true")

	assert.Equal(t, "0 6 * * *", LoadEnvString("T_CRON", "x", ValidateCronSchedule).Value)
	port := LoadEnvInt("T_PORT", 9091, func(v int) error { return ValidateIntRange(v, 1024, 65535) })
	assert.True(t, port.FallbackApplied)
	assert.Equal(t, 9091, port.Value)
	assert.True(t, LoadEnvBool("T_FLAG", false).Value)
}

func TestApply_RecordsFallbacks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewConfigMetrics("test", reg)

	v := Apply(m, nil, "timeout", LoadResult[int]{Value: 5, Warning: "bad", FallbackApplied: true})
	assert.Equal(t, 5, v)
	assert.InDelta(t, 1, testutil.ToFloat64(m.FallbacksTotal.WithLabelValues("timeout")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.FallbackActive), 0)

	Apply(m, nil, "timeout", LoadResult[int]{Value: 7})
	assert.InDelta(t, 0, testutil.ToFloat64(m.FallbackActive), 0)

	count, err := testutil.GatherAndCount(reg, "test_config_fallbacks_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
