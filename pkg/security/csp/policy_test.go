package csp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuilder_Build(t *testing.T) {
	tests := []struct {
		name    string
		builder *Builder
		want    string
	}{
		{
			name:    "empty",
			builder: NewBuilder(),
			want:    "",
		},
		{
			name:    "stable order and deduplicated sources",
			builder: NewBuilder().Set("script-src", "'self'", "'self'").Set("default-src", "'none'"),
			want:    "default-src 'none'; script-src 'self'",
		},
		{
			name:    "unknown directive ignored",
			builder: NewBuilder().Set("sandbox", "allow-forms").Set("base-uri", "'self'"),
			want:    "base-uri 'self'",
		},
		{
			name:    "strict",
			builder: StrictPolicy(),
			want:    "default-src 'none'; frame-ancestors 'none'; base-uri 'none'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.builder.Build())
		})
	}
}

func TestDashboardPolicy(t *testing.T) {
	got := DashboardPolicy().Build()

	assert.Contains(t, got, "script-src 'self'")
	assert.Contains(t, got, "form-action 'self'")
	assert.Contains(t, got, "frame-ancestors 'none'")
	assert.NotContains(t, got, "unsafe-inline")
}

func TestHeaderName(t *testing.T) {
	assert.Equal(t, "Content-Security-Policy", NewBuilder().HeaderName())
	assert.Equal(t, "Content-Security-Policy-Report-Only", NewBuilder().ReportOnly(true).HeaderName())
}
