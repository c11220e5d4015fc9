package ratelimit

import (
	"strings"
)

// MatchPath reports whether a request counts against the limiter.
// Paths ending in "/" match by prefix; others must match exactly.
// The health check is never limited.
func MatchPath(path string, paths []string) bool {
	if path == "/health" {
		return false
	}

	for _, p := range paths {
		if p == path {
			return true
		}
		if strings.HasSuffix(p, "/") && strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
