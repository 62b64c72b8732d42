// Package csp builds Content-Security-Policy header values.
package csp

import (
	"strings"

	"github.com/samber/lo"
)

// directiveOrder keeps the rendered header stable.
var directiveOrder = []string{
	"default-src",
	"script-src",
	"style-src",
	"img-src",
	"font-src",
	"connect-src",
	"frame-ancestors",
	"form-action",
	"base-uri",
	"object-src",
}

// Builder assembles a policy directive by directive. It is not safe for concurrent use;
// build the header once at startup and share the string.
type Builder struct {
	directives map[string][]string
	reportOnly bool
}

// NewBuilder returns an empty policy.
func NewBuilder() *Builder {
	return &Builder{directives: map[string][]string{}}
}

// Set replaces the sources of one directive. Unknown directives are ignored by Build.
func (b *Builder) Set(directive string, sources ...string) *Builder {
	b.directives[directive] = lo.Uniq(sources)
	return b
}

// ReportOnly switches the policy to the report-only header.
func (b *Builder) ReportOnly(enabled bool) *Builder {
	b.reportOnly = enabled
	return b
}

// Build renders the header value. An empty policy renders "".
func (b *Builder) Build() string {
	parts := make([]string, 0, len(b.directives))
	for _, d := range directiveOrder {
		if sources := b.directives[d]; len(sources) > 0 {
			parts = append(parts, d+" "+strings.Join(sources, " "))
		}
	}
	return strings.Join(parts, "; ")
}

// HeaderName returns the enforcing or report-only header name.
func (b *Builder) HeaderName() string {
	if b.reportOnly {
		return "Content-Security-Policy-Report-Only"
	}
	return "Content-Security-Policy"
}

// DashboardPolicy allows the dashboard's own assets and forms and nothing else.
// Article links open elsewhere and are unaffected.
func DashboardPolicy() *Builder {
	return NewBuilder().
		Set("default-src", "'self'").
		Set("script-src", "'self'").
		Set("style-src", "'self'").
		Set("img-src", "'self'", "data:").
		Set("connect-src", "'self'").
		Set("frame-ancestors", "'none'").
		Set("form-action", "'self'").
		Set("base-uri", "'self'").
		Set("object-src", "'none'")
}

// StrictPolicy is for JSON and probe endpoints that never render HTML.
func StrictPolicy() *Builder {
	return NewBuilder().
		Set("default-src", "'none'").
		Set("frame-ancestors", "'none'").
		Set("base-uri", "'none'")
}
