package cache

import (
	"net/url"
	"testing"
)

func TestRequestKey(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		query url.Values
		want  string
	}{
		{
			name: "path only",
			path: "/api/blogs",
			want: "api/blogs",
		},
		{
			name:  "single query param",
			path:  "/api/blogs",
			query: url.Values{"category": {"go"}},
			want:  "api/blogs:category=go",
		},
		{
			name: "multiple query params sorted",
			path: "/api/blogs",
			query: url.Values{
				"page":     {"2"},
				"category": {"go"},
			},
			want: "api/blogs:category=go:page=2",
		},
		{
			name:  "multi-value param joined",
			path:  "/api/projects",
			query: url.Values{"tag": {"go", "redis"}},
			want:  "api/projects:tag=go,redis",
		},
		{
			name: "trailing slash normalized",
			path: "/api/gallery/",
			want: "api/gallery",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RequestKey(tt.path, tt.query)
			if got != tt.want {
				t.Errorf("RequestKey() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestRequestKey_Determinism ensures identical request shapes collide and
// differing filter values do not.
func TestRequestKey_Determinism(t *testing.T) {
	a1 := RequestKey("/api/items", url.Values{"category": {"a"}})
	a2 := RequestKey("/api/items", url.Values{"category": {"a"}})
	b := RequestKey("/api/items", url.Values{"category": {"b"}})

	if a1 != a2 {
		t.Errorf("identical requests produced different keys: %q vs %q", a1, a2)
	}
	if a1 == b {
		t.Errorf("different filter values collided to %q", a1)
	}

	for i := 0; i < 10; i++ {
		got := RequestKey("/api/items", url.Values{
			"category": {"a"},
			"page":     {"1"},
			"tag":      {"x"},
		})
		if got != "api/items:category=a:page=1:tag=x" {
			t.Fatalf("iteration %d produced %q (not deterministic)", i, got)
		}
	}
}

func TestEntityKey(t *testing.T) {
	if got := EntityKey("blog", "abc123"); got != "blog:abc123" {
		t.Errorf("EntityKey() = %v, want blog:abc123", got)
	}
}

func TestListKey(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		filter map[string]string
		want   string
	}{
		{
			name:   "no filter",
			prefix: "blog",
			want:   "blog:all",
		},
		{
			name:   "empty values omitted",
			prefix: "blog",
			filter: map[string]string{"category": ""},
			want:   "blog:all",
		},
		{
			name:   "filters sorted",
			prefix: "blog",
			filter: map[string]string{"page": "1", "category": "go"},
			want:   "blog:all:category=go:page=1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ListKey(tt.prefix, tt.filter)
			if got != tt.want {
				t.Errorf("ListKey() = %v, want %v", got, tt.want)
			}
		})
	}
}

// Filtered list keys share the type prefix, so the type-level glob used by
// the invalidator covers every filtered variant.
func TestListKey_CoveredByTypeGlob(t *testing.T) {
	keys := []string{
		ListKey("blog", nil),
		ListKey("blog", map[string]string{"category": "go"}),
		ListKey("blog", map[string]string{"category": "go", "page": "3"}),
		EntityKey("blog", "abc123"),
	}

	for _, k := range keys {
		if len(k) < 5 || k[:5] != "blog:" {
			t.Errorf("key %q not covered by glob blog:*", k)
		}
	}
}
