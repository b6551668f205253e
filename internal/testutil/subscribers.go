package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/RxRakari/main-portfolio-sub001/pkg/store"
)

// FakeSubscriberStore is an in-memory store.SubscriberStore.
type FakeSubscriberStore struct {
	mu   sync.Mutex
	subs []store.Subscriber
	next int

	// FailList makes subscriber resolution fail, to exercise the
	// dispatch error path.
	FailList bool
}

// NewFakeSubscriberStore seeds the store with the given subscribers.
func NewFakeSubscriberStore(subs ...store.Subscriber) *FakeSubscriberStore {
	f := &FakeSubscriberStore{}
	for _, s := range subs {
		s := s
		if s.ID == "" {
			f.next++
			s.ID = fmt.Sprintf("sub-%d", f.next)
		}
		f.subs = append(f.subs, s)
	}
	return f
}

func (f *FakeSubscriberStore) Active(_ context.Context) ([]store.Subscriber, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.FailList {
		return nil, fmt.Errorf("simulated subscriber store failure")
	}

	var active []store.Subscriber
	for _, s := range f.subs {
		if s.Active {
			active = append(active, s)
		}
	}
	return active, nil
}

func (f *FakeSubscriberStore) All(_ context.Context) ([]store.Subscriber, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]store.Subscriber(nil), f.subs...), nil
}

func (f *FakeSubscriberStore) FindByEmail(_ context.Context, email string) (*store.Subscriber, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.subs {
		if f.subs[i].Email == email {
			s := f.subs[i]
			return &s, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *FakeSubscriberStore) FindByToken(_ context.Context, token string) (*store.Subscriber, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.subs {
		if f.subs[i].UnsubscribeToken == token {
			s := f.subs[i]
			return &s, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *FakeSubscriberStore) Create(_ context.Context, s *store.Subscriber) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.next++
	s.ID = fmt.Sprintf("sub-%d", f.next)
	f.subs = append(f.subs, *s)
	return nil
}

func (f *FakeSubscriberStore) SetActive(_ context.Context, id string, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.subs {
		if f.subs[i].ID == id {
			f.subs[i].Active = active
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *FakeSubscriberStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.subs {
		if f.subs[i].ID == id {
			f.subs = append(f.subs[:i], f.subs[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *FakeSubscriberStore) CountActive(ctx context.Context) (int64, error) {
	active, err := f.Active(ctx)
	if err != nil {
		return 0, err
	}
	return int64(len(active)), nil
}

// Get returns a copy of the subscriber with the given id, for assertions.
func (f *FakeSubscriberStore) Get(id string) (store.Subscriber, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, s := range f.subs {
		if s.ID == id {
			return s, true
		}
	}
	return store.Subscriber{}, false
}
