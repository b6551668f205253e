package cache

import (
	"strings"
	"time"
)

const (
	// DefaultTTL is the fallback TTL for list routes.
	DefaultTTL = 5 * time.Minute

	// DetailTTL is the TTL for detail-by-id routes.
	DetailTTL = 15 * time.Minute

	// AggregateTTL is the TTL for assembled aggregate payloads
	// (landing page, dashboard stats, popular content).
	AggregateTTL = 30 * time.Minute
)

// aggregatePaths are route suffixes served from aggregate singleton keys.
var aggregatePaths = []string{"/landing", "/stats", "/popular"}

// TTLForPath resolves the default TTL for a route when no explicit TTL is
// configured. Aggregate routes get the longest TTL, detail-by-id routes a
// longer TTL than collection listings.
func TTLForPath(path string) time.Duration {
	p := strings.TrimSuffix(path, "/")

	for _, suffix := range aggregatePaths {
		if strings.HasSuffix(p, suffix) {
			return AggregateTTL
		}
	}

	// /api/<collection> is a listing; anything deeper is a detail route.
	segments := strings.Split(strings.Trim(strings.TrimPrefix(p, "/api"), "/"), "/")
	if len(segments) > 1 {
		return DetailTTL
	}

	return DefaultTTL
}
