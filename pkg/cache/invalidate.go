package cache

import (
	"context"

	"github.com/rs/zerolog"
)

// EntityType identifies a cached content entity type.
type EntityType string

const (
	EntityBlog        EntityType = "blog"
	EntityProject     EntityType = "project"
	EntityGallery     EntityType = "gallery"
	EntityTestimonial EntityType = "testimonial"
	EntityExperience  EntityType = "experience"
	EntityContact     EntityType = "contact"
	EntityNewsletter  EntityType = "newsletter"
)

// feedsLanding marks the entity types whose documents appear in the landing
// page and popular content aggregates.
var feedsLanding = map[EntityType]bool{
	EntityBlog:        true,
	EntityProject:     true,
	EntityGallery:     true,
	EntityTestimonial: true,
	EntityExperience:  true,
}

// Invalidator purges the cache entries made stale by an entity mutation.
type Invalidator struct {
	client *Client
	logger zerolog.Logger
}

// NewInvalidator creates an invalidator over the given cache client.
func NewInvalidator(client *Client, logger zerolog.Logger) *Invalidator {
	return &Invalidator{client: client, logger: logger}
}

// Invalidate purges every cache pattern affected by a mutation of the given
// entity type: the type's collection glob (which covers filtered list keys),
// the aggregate singletons the type feeds, and the single-item keys for any
// given ids. Idempotent: purging patterns with no matching entries is a
// no-op. Must run after the mutation is committed and before the mutation's
// HTTP response is sent.
func (iv *Invalidator) Invalidate(ctx context.Context, entity EntityType, ids ...string) {
	patterns := iv.Patterns(entity, ids...)

	for _, p := range patterns {
		iv.client.DeleteByPattern(ctx, p)
	}

	CacheInvalidations.WithLabelValues(string(entity)).Inc()
	iv.logger.Debug().
		Str("entity", string(entity)).
		Strs("patterns", patterns).
		Msg("Invalidated cache")
}

// Patterns returns the glob patterns Invalidate purges for an entity type.
// An exact key is a valid glob, so single-item keys ride the same path.
func (iv *Invalidator) Patterns(entity EntityType, ids ...string) []string {
	patterns := []string{string(entity) + ":*"}

	if feedsLanding[entity] {
		patterns = append(patterns, KeyLandingPage, KeyPopularContent)
	}
	patterns = append(patterns, KeyDashboardStats)

	for _, id := range ids {
		if id != "" {
			patterns = append(patterns, EntityKey(string(entity), id))
		}
	}

	return patterns
}
