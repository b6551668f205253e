package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/RxRakari/main-portfolio-sub001/pkg/store"
)

// FakeGalleryStore is an in-memory store.GalleryStore.
type FakeGalleryStore struct {
	mu    sync.Mutex
	items []store.GalleryItem
	next  int
}

func NewFakeGalleryStore(items ...store.GalleryItem) *FakeGalleryStore {
	f := &FakeGalleryStore{}
	for _, g := range items {
		g := g
		if g.ID == "" {
			f.next++
			g.ID = fmt.Sprintf("gallery-%d", f.next)
		}
		f.items = append(f.items, g)
	}
	return f
}

func (f *FakeGalleryStore) List(_ context.Context) ([]store.GalleryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]store.GalleryItem(nil), f.items...), nil
}

func (f *FakeGalleryStore) Get(_ context.Context, id string) (*store.GalleryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.items {
		if f.items[i].ID == id {
			g := f.items[i]
			return &g, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *FakeGalleryStore) Create(_ context.Context, g *store.GalleryItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.next++
	g.ID = fmt.Sprintf("gallery-%d", f.next)
	g.CreatedAt = time.Now().UTC()
	f.items = append(f.items, *g)
	return nil
}

func (f *FakeGalleryStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *FakeGalleryStore) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.items)), nil
}

// FakeTestimonialStore is an in-memory store.TestimonialStore.
type FakeTestimonialStore struct {
	mu    sync.Mutex
	items []store.Testimonial
	next  int
}

func NewFakeTestimonialStore(items ...store.Testimonial) *FakeTestimonialStore {
	f := &FakeTestimonialStore{}
	for _, tm := range items {
		tm := tm
		if tm.ID == "" {
			f.next++
			tm.ID = fmt.Sprintf("testimonial-%d", f.next)
		}
		f.items = append(f.items, tm)
	}
	return f
}

func (f *FakeTestimonialStore) List(_ context.Context, filter store.TestimonialFilter) ([]store.Testimonial, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []store.Testimonial
	for _, tm := range f.items {
		if filter.Approved != nil && tm.Approved != *filter.Approved {
			continue
		}
		out = append(out, tm)
	}
	return out, nil
}

func (f *FakeTestimonialStore) Get(_ context.Context, id string) (*store.Testimonial, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.items {
		if f.items[i].ID == id {
			tm := f.items[i]
			return &tm, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *FakeTestimonialStore) Create(_ context.Context, tm *store.Testimonial) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.next++
	tm.ID = fmt.Sprintf("testimonial-%d", f.next)
	tm.CreatedAt = time.Now().UTC()
	f.items = append(f.items, *tm)
	return nil
}

func (f *FakeTestimonialStore) Update(_ context.Context, id string, upd store.TestimonialUpdate) (*store.Testimonial, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.items {
		if f.items[i].ID != id {
			continue
		}
		prev := f.items[i]
		if upd.Author != nil {
			f.items[i].Author = *upd.Author
		}
		if upd.Role != nil {
			f.items[i].Role = *upd.Role
		}
		if upd.Quote != nil {
			f.items[i].Quote = *upd.Quote
		}
		if upd.Avatar != nil {
			f.items[i].Avatar = *upd.Avatar
		}
		if upd.Approved != nil {
			f.items[i].Approved = *upd.Approved
		}
		return &prev, nil
	}
	return nil, store.ErrNotFound
}

func (f *FakeTestimonialStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *FakeTestimonialStore) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.items)), nil
}

// FakeExperienceStore is an in-memory store.ExperienceStore.
type FakeExperienceStore struct {
	mu      sync.Mutex
	entries []store.Experience
	next    int
}

func NewFakeExperienceStore(entries ...store.Experience) *FakeExperienceStore {
	f := &FakeExperienceStore{}
	for _, e := range entries {
		e := e
		if e.ID == "" {
			f.next++
			e.ID = fmt.Sprintf("experience-%d", f.next)
		}
		f.entries = append(f.entries, e)
	}
	return f
}

func (f *FakeExperienceStore) List(_ context.Context) ([]store.Experience, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]store.Experience(nil), f.entries...), nil
}

func (f *FakeExperienceStore) Get(_ context.Context, id string) (*store.Experience, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.entries {
		if f.entries[i].ID == id {
			e := f.entries[i]
			return &e, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *FakeExperienceStore) Create(_ context.Context, e *store.Experience) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.next++
	e.ID = fmt.Sprintf("experience-%d", f.next)
	e.CreatedAt = time.Now().UTC()
	f.entries = append(f.entries, *e)
	return nil
}

func (f *FakeExperienceStore) Update(_ context.Context, id string, upd store.ExperienceUpdate) (*store.Experience, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.entries {
		if f.entries[i].ID != id {
			continue
		}
		prev := f.entries[i]
		if upd.Company != nil {
			f.entries[i].Company = *upd.Company
		}
		if upd.Role != nil {
			f.entries[i].Role = *upd.Role
		}
		if upd.Summary != nil {
			f.entries[i].Summary = *upd.Summary
		}
		if upd.StartDate != nil {
			f.entries[i].StartDate = *upd.StartDate
		}
		if upd.EndDate != nil {
			f.entries[i].EndDate = *upd.EndDate
		}
		if upd.Current != nil {
			f.entries[i].Current = *upd.Current
		}
		return &prev, nil
	}
	return nil, store.ErrNotFound
}

func (f *FakeExperienceStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.entries {
		if f.entries[i].ID == id {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *FakeExperienceStore) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.entries)), nil
}
