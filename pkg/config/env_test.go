package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("T_STRING", "  hello ")
	t.Setenv("T_INT", "42")
	t.Setenv("T_BAD_INT", "4.2")
	t.Setenv("T_FLOAT", "0.25")
	t.Setenv("T_BOOL", "false")
	t.Setenv("T_BAD_BOOL", "yes")
	t.Setenv("T_DURATION", "1m30s")
	t.Setenv("T_LIST", " a, ,b ,")
	t.Setenv("T_EMPTY_LIST", " , ")

	assert.Equal(t, "hello", GetEnvString("T_STRING", "d"))
	assert.Equal(t, "d", GetEnvString("T_UNSET", "d"))
	assert.Equal(t, 42, GetEnvInt("T_INT", 1))
	assert.Equal(t, 1, GetEnvInt("T_BAD_INT", 1))
	assert.InDelta(t, 0.25, GetEnvFloat("T_FLOAT", 1), 1e-9)
	assert.False(t, GetEnvBool("T_BOOL", true))
	assert.True(t, GetEnvBool("T_BAD_BOOL", true))
	assert.Equal(t, 90*time.Second, GetEnvDuration("T_DURATION", time.Second))
	assert.Equal(t, time.Second, GetEnvDuration("T_UNSET", time.Second))
	assert.Equal(t, []string{"a", "b"}, GetEnvStringList("T_LIST", nil))
	assert.Equal(t, []string{"x"}, GetEnvStringList("T_EMPTY_LIST", []string{"x"}))
}
