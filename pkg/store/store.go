package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates the requested document does not exist.
var ErrNotFound = errors.New("document not found")

// BlogFilter selects blogs for a listing. Zero values mean "no constraint";
// unknown query keys are rejected at the HTTP boundary before a filter is
// built.
type BlogFilter struct {
	Category  string
	Tag       string
	Published *bool
	Page      int64
	Limit     int64
}

// ProjectFilter selects projects for a listing.
type ProjectFilter struct {
	Featured *bool
	Tech     string
	Page     int64
	Limit    int64
}

// TestimonialFilter selects testimonials for a listing.
type TestimonialFilter struct {
	Approved *bool
}

// ContactFilter selects contact messages for the admin inbox.
type ContactFilter struct {
	Unread *bool
	Page   int64
	Limit  int64
}

// BlogUpdate carries the mutable blog fields; nil means "leave unchanged".
type BlogUpdate struct {
	Title     *string
	Slug      *string
	Excerpt   *string
	Content   *string
	Category  *string
	Tags      *[]string
	Image     *Image
	Published *bool
}

// ProjectUpdate carries the mutable project fields.
type ProjectUpdate struct {
	Title       *string
	Summary     *string
	Description *string
	Image       *Image
	RepoURL     *string
	LiveURL     *string
	Tech        *[]string
	Featured    *bool
}

// TestimonialUpdate carries the mutable testimonial fields.
type TestimonialUpdate struct {
	Author   *string
	Role     *string
	Quote    *string
	Avatar   *Image
	Approved *bool
}

// ExperienceUpdate carries the mutable experience fields.
type ExperienceUpdate struct {
	Company   *string
	Role      *string
	Summary   *string
	StartDate *time.Time
	EndDate   *time.Time
	Current   *bool
}

// BlogStore is the blog collection contract. Update returns the document as
// it was before the mutation so callers can detect state transitions.
type BlogStore interface {
	List(ctx context.Context, f BlogFilter) ([]Blog, error)
	Get(ctx context.Context, id string) (*Blog, error)
	GetBySlug(ctx context.Context, slug string) (*Blog, error)
	Create(ctx context.Context, b *Blog) error
	Update(ctx context.Context, id string, upd BlogUpdate) (*Blog, error)
	Delete(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) error
	MarkNotified(ctx context.Context, id string, at time.Time) error
	Popular(ctx context.Context, limit int64) ([]Blog, error)
	Count(ctx context.Context) (int64, error)
}

// ProjectStore is the project collection contract.
type ProjectStore interface {
	List(ctx context.Context, f ProjectFilter) ([]Project, error)
	Get(ctx context.Context, id string) (*Project, error)
	Create(ctx context.Context, p *Project) error
	Update(ctx context.Context, id string, upd ProjectUpdate) (*Project, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// GalleryStore is the gallery collection contract.
type GalleryStore interface {
	List(ctx context.Context) ([]GalleryItem, error)
	Get(ctx context.Context, id string) (*GalleryItem, error)
	Create(ctx context.Context, g *GalleryItem) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// TestimonialStore is the testimonial collection contract.
type TestimonialStore interface {
	List(ctx context.Context, f TestimonialFilter) ([]Testimonial, error)
	Get(ctx context.Context, id string) (*Testimonial, error)
	Create(ctx context.Context, tm *Testimonial) error
	Update(ctx context.Context, id string, upd TestimonialUpdate) (*Testimonial, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// ExperienceStore is the experience collection contract.
type ExperienceStore interface {
	List(ctx context.Context) ([]Experience, error)
	Get(ctx context.Context, id string) (*Experience, error)
	Create(ctx context.Context, e *Experience) error
	Update(ctx context.Context, id string, upd ExperienceUpdate) (*Experience, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// ContactStore is the contact message collection contract.
type ContactStore interface {
	List(ctx context.Context, f ContactFilter) ([]ContactMessage, error)
	Create(ctx context.Context, m *ContactMessage) error
	MarkRead(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// SubscriberStore is the subscriber collection contract. Emails are stored
// lowercased; FindByEmail expects a lowercased input.
type SubscriberStore interface {
	Active(ctx context.Context) ([]Subscriber, error)
	All(ctx context.Context) ([]Subscriber, error)
	FindByEmail(ctx context.Context, email string) (*Subscriber, error)
	FindByToken(ctx context.Context, token string) (*Subscriber, error)
	Create(ctx context.Context, s *Subscriber) error
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
	CountActive(ctx context.Context) (int64, error)
}
