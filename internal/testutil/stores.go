package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/RxRakari/main-portfolio-sub001/pkg/store"
)

// FakeBlogStore is an in-memory store.BlogStore.
type FakeBlogStore struct {
	mu    sync.Mutex
	blogs []store.Blog
	next  int
}

func NewFakeBlogStore(blogs ...store.Blog) *FakeBlogStore {
	f := &FakeBlogStore{}
	for _, b := range blogs {
		b := b
		if b.ID == "" {
			f.next++
			b.ID = fmt.Sprintf("blog-%d", f.next)
		}
		f.blogs = append(f.blogs, b)
	}
	return f
}

func (f *FakeBlogStore) List(_ context.Context, filter store.BlogFilter) ([]store.Blog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []store.Blog
	for _, b := range f.blogs {
		if filter.Category != "" && b.Category != filter.Category {
			continue
		}
		if filter.Published != nil && b.Published != *filter.Published {
			continue
		}
		if filter.Tag != "" && !contains(b.Tags, filter.Tag) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (f *FakeBlogStore) Get(_ context.Context, id string) (*store.Blog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.blogs {
		if f.blogs[i].ID == id {
			b := f.blogs[i]
			return &b, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *FakeBlogStore) GetBySlug(_ context.Context, slug string) (*store.Blog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.blogs {
		if f.blogs[i].Slug == slug {
			b := f.blogs[i]
			return &b, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *FakeBlogStore) Create(_ context.Context, b *store.Blog) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.next++
	b.ID = fmt.Sprintf("blog-%d", f.next)
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now
	f.blogs = append(f.blogs, *b)
	return nil
}

func (f *FakeBlogStore) Update(_ context.Context, id string, upd store.BlogUpdate) (*store.Blog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.blogs {
		if f.blogs[i].ID != id {
			continue
		}
		prev := f.blogs[i]
		if upd.Title != nil {
			f.blogs[i].Title = *upd.Title
		}
		if upd.Slug != nil {
			f.blogs[i].Slug = *upd.Slug
		}
		if upd.Excerpt != nil {
			f.blogs[i].Excerpt = *upd.Excerpt
		}
		if upd.Content != nil {
			f.blogs[i].Content = *upd.Content
		}
		if upd.Category != nil {
			f.blogs[i].Category = *upd.Category
		}
		if upd.Tags != nil {
			f.blogs[i].Tags = *upd.Tags
		}
		if upd.Image != nil {
			f.blogs[i].Image = *upd.Image
		}
		if upd.Published != nil {
			f.blogs[i].Published = *upd.Published
		}
		f.blogs[i].UpdatedAt = time.Now().UTC()
		return &prev, nil
	}
	return nil, store.ErrNotFound
}

func (f *FakeBlogStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.blogs {
		if f.blogs[i].ID == id {
			f.blogs = append(f.blogs[:i], f.blogs[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *FakeBlogStore) IncrementViews(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.blogs {
		if f.blogs[i].ID == id {
			f.blogs[i].Views++
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *FakeBlogStore) MarkNotified(_ context.Context, id string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.blogs {
		if f.blogs[i].ID == id {
			f.blogs[i].NotifiedAt = at
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *FakeBlogStore) Popular(_ context.Context, limit int64) ([]store.Blog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []store.Blog
	for _, b := range f.blogs {
		if b.Published {
			out = append(out, b)
		}
	}
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *FakeBlogStore) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.blogs)), nil
}

// FakeProjectStore is an in-memory store.ProjectStore.
type FakeProjectStore struct {
	mu       sync.Mutex
	projects []store.Project
	next     int
}

func NewFakeProjectStore(projects ...store.Project) *FakeProjectStore {
	f := &FakeProjectStore{}
	for _, p := range projects {
		p := p
		if p.ID == "" {
			f.next++
			p.ID = fmt.Sprintf("project-%d", f.next)
		}
		f.projects = append(f.projects, p)
	}
	return f
}

func (f *FakeProjectStore) List(_ context.Context, filter store.ProjectFilter) ([]store.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []store.Project
	for _, p := range f.projects {
		if filter.Featured != nil && p.Featured != *filter.Featured {
			continue
		}
		if filter.Tech != "" && !contains(p.Tech, filter.Tech) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *FakeProjectStore) Get(_ context.Context, id string) (*store.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.projects {
		if f.projects[i].ID == id {
			p := f.projects[i]
			return &p, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *FakeProjectStore) Create(_ context.Context, p *store.Project) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.next++
	p.ID = fmt.Sprintf("project-%d", f.next)
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	f.projects = append(f.projects, *p)
	return nil
}

func (f *FakeProjectStore) Update(_ context.Context, id string, upd store.ProjectUpdate) (*store.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.projects {
		if f.projects[i].ID != id {
			continue
		}
		prev := f.projects[i]
		if upd.Title != nil {
			f.projects[i].Title = *upd.Title
		}
		if upd.Summary != nil {
			f.projects[i].Summary = *upd.Summary
		}
		if upd.Description != nil {
			f.projects[i].Description = *upd.Description
		}
		if upd.Image != nil {
			f.projects[i].Image = *upd.Image
		}
		if upd.RepoURL != nil {
			f.projects[i].RepoURL = *upd.RepoURL
		}
		if upd.LiveURL != nil {
			f.projects[i].LiveURL = *upd.LiveURL
		}
		if upd.Tech != nil {
			f.projects[i].Tech = *upd.Tech
		}
		if upd.Featured != nil {
			f.projects[i].Featured = *upd.Featured
		}
		f.projects[i].UpdatedAt = time.Now().UTC()
		return &prev, nil
	}
	return nil, store.ErrNotFound
}

func (f *FakeProjectStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.projects {
		if f.projects[i].ID == id {
			f.projects = append(f.projects[:i], f.projects[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *FakeProjectStore) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.projects)), nil
}

// FakeContactStore is an in-memory store.ContactStore.
type FakeContactStore struct {
	mu       sync.Mutex
	messages []store.ContactMessage
	next     int
}

func NewFakeContactStore() *FakeContactStore {
	return &FakeContactStore{}
}

func (f *FakeContactStore) List(_ context.Context, filter store.ContactFilter) ([]store.ContactMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []store.ContactMessage
	for _, m := range f.messages {
		if filter.Unread != nil && m.Read == *filter.Unread {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (f *FakeContactStore) Create(_ context.Context, m *store.ContactMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.next++
	m.ID = fmt.Sprintf("contact-%d", f.next)
	m.CreatedAt = time.Now().UTC()
	f.messages = append(f.messages, *m)
	return nil
}

func (f *FakeContactStore) MarkRead(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.messages {
		if f.messages[i].ID == id {
			f.messages[i].Read = true
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *FakeContactStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.messages {
		if f.messages[i].ID == id {
			f.messages = append(f.messages[:i], f.messages[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *FakeContactStore) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.messages)), nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
