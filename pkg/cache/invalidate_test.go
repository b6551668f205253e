package cache

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestInvalidator_Patterns(t *testing.T) {
	iv := NewInvalidator(New(nil, zerolog.Nop()), zerolog.Nop())

	tests := []struct {
		name   string
		entity EntityType
		ids    []string
		want   []string
	}{
		{
			name:   "blog with id",
			entity: EntityBlog,
			ids:    []string{"abc"},
			want:   []string{"blog:*", KeyLandingPage, KeyPopularContent, KeyDashboardStats, "blog:abc"},
		},
		{
			name:   "project without id",
			entity: EntityProject,
			want:   []string{"project:*", KeyLandingPage, KeyPopularContent, KeyDashboardStats},
		},
		{
			name:   "contact does not feed landing",
			entity: EntityContact,
			ids:    []string{"m1"},
			want:   []string{"contact:*", KeyDashboardStats, "contact:m1"},
		},
		{
			name:   "newsletter does not feed landing",
			entity: EntityNewsletter,
			want:   []string{"newsletter:*", KeyDashboardStats},
		},
		{
			name:   "empty id skipped",
			entity: EntityGallery,
			ids:    []string{""},
			want:   []string{"gallery:*", KeyLandingPage, KeyPopularContent, KeyDashboardStats},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := iv.Patterns(tt.entity, tt.ids...)
			if len(got) != len(tt.want) {
				t.Fatalf("Patterns() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Patterns()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestInvalidator_PurgesAffectedKeys(t *testing.T) {
	c, _ := setupTestCache(t)
	iv := NewInvalidator(c, zerolog.Nop())
	ctx := context.Background()

	c.Set(ctx, "blog:abc", []byte(`1`), time.Minute)
	c.Set(ctx, "blog:all", []byte(`[]`), time.Minute)
	c.Set(ctx, "blog:all:category=go", []byte(`[]`), time.Minute)
	c.Set(ctx, KeyLandingPage, []byte(`{}`), time.Minute)
	c.Set(ctx, KeyDashboardStats, []byte(`{}`), time.Minute)
	c.Set(ctx, "project:1", []byte(`1`), time.Minute)

	iv.Invalidate(ctx, EntityBlog, "abc")

	purged := []string{"blog:abc", "blog:all", "blog:all:category=go", KeyLandingPage, KeyDashboardStats}
	for _, key := range purged {
		if c.Exists(ctx, key) {
			t.Errorf("expected %s to be purged", key)
		}
	}
	if !c.Exists(ctx, "project:1") {
		t.Error("expected project:1 to survive a blog invalidation")
	}
}

// TestInvalidator_FilteredListCovered verifies the staleness question from
// the key scheme: every filtered list variant shares the type prefix, so
// the type glob purges them all.
func TestInvalidator_FilteredListCovered(t *testing.T) {
	c, _ := setupTestCache(t)
	iv := NewInvalidator(c, zerolog.Nop())
	ctx := context.Background()

	c.Set(ctx, ListKey("blog", map[string]string{"category": "go"}), []byte(`[]`), time.Minute)
	c.Set(ctx, ListKey("blog", map[string]string{"category": "go", "page": "2"}), []byte(`[]`), time.Minute)
	c.Set(ctx, ListKey("blog", map[string]string{"tag": "redis"}), []byte(`[]`), time.Minute)

	iv.Invalidate(ctx, EntityBlog)

	for _, filter := range []map[string]string{
		{"category": "go"},
		{"category": "go", "page": "2"},
		{"tag": "redis"},
	} {
		if c.Exists(ctx, ListKey("blog", filter)) {
			t.Errorf("filtered list %v survived invalidation", filter)
		}
	}
}

func TestInvalidator_Idempotent(t *testing.T) {
	c, _ := setupTestCache(t)
	iv := NewInvalidator(c, zerolog.Nop())
	ctx := context.Background()

	// No matching entries exist: both runs must be clean no-ops.
	iv.Invalidate(ctx, EntityBlog, "ghost")
	iv.Invalidate(ctx, EntityBlog, "ghost")
}

func TestInvalidator_DegradedClient(t *testing.T) {
	iv := NewInvalidator(New(nil, zerolog.Nop()), zerolog.Nop())

	// Must not panic or error with a degraded cache client.
	iv.Invalidate(context.Background(), EntityBlog, "abc")
}
