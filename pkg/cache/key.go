package cache

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Aggregate singleton keys. These hold payloads assembled from multiple
// entity types and are invalidated whenever a feeding type mutates.
const (
	KeyLandingPage    = "landing_page"
	KeyDashboardStats = "dashboard_stats"
	KeyPopularContent = "popular_content"
)

// RequestKey generates a deterministic cache key from a request shape.
// Format: path:query1=val1:query2=val2 with query parameters sorted.
//
// Example:
//
//	RequestKey("/api/blogs", url.Values{"category": {"go"}}) == "api/blogs:category=go"
func RequestKey(path string, query url.Values) string {
	parts := []string{strings.Trim(path, "/")}

	if len(query) > 0 {
		keys := make([]string, 0, len(query))
		for k := range query {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%s", k, strings.Join(query[k], ",")))
		}
	}

	return strings.Join(parts, ":")
}

// EntityKey generates the key for a single entity.
// Format: prefix:id (e.g. "blog:66f0a1...").
func EntityKey(prefix, id string) string {
	return prefix + ":" + id
}

// ListKey generates the key for a filtered collection listing.
// Format: prefix:all for an unfiltered list, prefix:all:k=v:... otherwise,
// with filter keys sorted for determinism. Empty filter values are omitted
// so that an absent filter and an empty filter collide to the same key.
func ListKey(prefix string, filter map[string]string) string {
	parts := []string{prefix, "all"}

	keys := make([]string, 0, len(filter))
	for k, v := range filter {
		if v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, filter[k]))
	}

	return strings.Join(parts, ":")
}
