// Package pathutil maps request paths onto a bounded set of metric labels and parses
// numeric identifiers posted by the dashboard forms.
package pathutil

import "strings"

// OtherPath labels every path the dashboard does not serve.
const OtherPath = "/other"

// knownPaths are the routes served by the dashboard.
var knownPaths = map[string]struct{}{
	"/":                  {},
	"/feed":              {},
	"/feed/filter":       {},
	"/feed/search":       {},
	"/feed/reset":        {},
	"/feed/page":         {},
	"/feed/toggle":       {},
	"/feed/fact-check":   {},
	"/papers":            {},
	"/papers/date":       {},
	"/papers/fact-check": {},
	"/sources":           {},
	"/sources/remove":    {},
	"/sources/refresh":   {},
	"/sources/page":      {},
	"/sources/swipe":     {},
	"/sources/preview":   {},
	"/health":            {},
	"/live":              {},
	"/ready":             {},
	"/metrics":           {},
}

// NormalizePath returns the metric label for path. Query strings and a trailing slash
// are ignored, assets share one label and unknown paths collapse into OtherPath.
//
//	NormalizePath("/feed/")            // "/feed"
//	NormalizePath("/static/app.js")    // "/static"
//	NormalizePath("/wp-login.php")     // "/other"
func NormalizePath(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}
	if _, ok := knownPaths[path]; ok {
		return path
	}
	if path == "/static" || strings.HasPrefix(path, "/static/") {
		return "/static"
	}
	return OtherPath
}

// ExpectedCardinality is the number of distinct labels NormalizePath can return.
func ExpectedCardinality() int {
	return len(knownPaths) + 2
}
