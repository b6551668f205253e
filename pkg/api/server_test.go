package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/RxRakari/main-portfolio-sub001/internal/testutil"
	"github.com/RxRakari/main-portfolio-sub001/pkg/cache"
	"github.com/RxRakari/main-portfolio-sub001/pkg/newsletter"
	"github.com/RxRakari/main-portfolio-sub001/pkg/ratelimit"
	"github.com/RxRakari/main-portfolio-sub001/pkg/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const (
	testSecret   = "test-secret"
	testAdmin    = "admin"
	testPassword = "hunter2"
	testOwner    = "owner@example.com"
)

type fixture struct {
	t      *testing.T
	server *Server
	router *gin.Engine
	mr     *miniredis.Miniredis

	blogs        *testutil.FakeBlogStore
	projects     *testutil.FakeProjectStore
	gallery      *testutil.FakeGalleryStore
	testimonials *testutil.FakeTestimonialStore
	experience   *testutil.FakeExperienceStore
	contacts     *testutil.FakeContactStore
	subscribers  *testutil.FakeSubscriberStore
	sender       *testutil.FakeSender
}

// seed mutates the fixture's stores before the server is built.
type seed func(f *fixture)

func withBlogs(blogs ...store.Blog) seed {
	return func(f *fixture) { f.blogs = testutil.NewFakeBlogStore(blogs...) }
}

func withSubscribers(subs ...store.Subscriber) seed {
	return func(f *fixture) { f.subscribers = testutil.NewFakeSubscriberStore(subs...) }
}

func newFixture(t *testing.T, seeds ...seed) *fixture {
	t.Helper()

	mr := miniredis.RunT(t)
	client := cache.New(redis.NewClient(&redis.Options{Addr: mr.Addr()}), zerolog.Nop())
	if err := client.Connect(t.Context()); err != nil {
		t.Fatalf("cache connect: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	f := &fixture{
		t:            t,
		mr:           mr,
		blogs:        testutil.NewFakeBlogStore(),
		projects:     testutil.NewFakeProjectStore(),
		gallery:      testutil.NewFakeGalleryStore(),
		testimonials: testutil.NewFakeTestimonialStore(),
		experience:   testutil.NewFakeExperienceStore(),
		contacts:     testutil.NewFakeContactStore(),
		subscribers:  testutil.NewFakeSubscriberStore(),
		sender:       testutil.NewFakeSender(),
	}
	for _, s := range seeds {
		s(f)
	}

	f.server = NewServer(Deps{
		Blogs:        f.blogs,
		Projects:     f.projects,
		Gallery:      f.gallery,
		Testimonials: f.testimonials,
		Experience:   f.experience,
		Contacts:     f.contacts,
		Subscribers:  f.subscribers,

		Cache:       client,
		Invalidator: cache.NewInvalidator(client, zerolog.Nop()),
		Newsletter:  newsletter.New(f.subscribers, f.sender, "https://example.com", zerolog.Nop()),
		Sender:      f.sender,

		JWTSecret:     testSecret,
		AdminUser:     testAdmin,
		AdminPassword: testPassword,
		OwnerEmail:    testOwner,

		Logger: zerolog.Nop(),
	})
	f.router = f.server.Router()
	return f
}

func adminToken(t *testing.T) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":  testAdmin,
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("signing test token: %v", err)
	}
	return signed
}

func (f *fixture) do(method, path string, body any) *httptest.ResponseRecorder {
	f.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			f.t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *fixture) doAdmin(method, path string, body any) *httptest.ResponseRecorder {
	f.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			f.t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+adminToken(f.t))
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

// waitForKey polls until the detached cache write lands.
func (f *fixture) waitForKey(key string) {
	f.t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if f.mr.Exists(key) {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	f.t.Fatalf("cache key %q never appeared", key)
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decoding response %q: %v", w.Body.String(), err)
	}
	return out
}

func TestHealthEndpoint(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/healthz", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestLandingServedFromCacheAfterFirstHit(t *testing.T) {
	f := newFixture(t, withBlogs(
		store.Blog{ID: "b1", Title: "First", Slug: "first", Published: true},
	))

	first := f.do(http.MethodGet, "/api/landing", nil)
	if first.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", first.Code)
	}
	f.waitForKey(cache.KeyLandingPage)

	// Mutate the store behind the cache's back; the cached payload must
	// still be served.
	f.blogs.Create(t.Context(), &store.Blog{Title: "Second", Slug: "second", Published: true})

	second := f.do(http.MethodGet, "/api/landing", nil)
	if second.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", second.Code)
	}
	if !bytes.Equal(first.Body.Bytes(), second.Body.Bytes()) {
		t.Error("expected cached landing payload to be byte-identical to the first response")
	}
}

func TestBlogMutationPurgesStaleEntries(t *testing.T) {
	f := newFixture(t, withBlogs(
		store.Blog{ID: "b1", Title: "Post", Slug: "post", Published: true},
	))

	stale := []string{
		"blog:all",
		"blog:all:category=go",
		"blog:b1",
		cache.KeyLandingPage,
		cache.KeyPopularContent,
		cache.KeyDashboardStats,
	}
	for _, key := range stale {
		if err := f.mr.Set(key, "stale"); err != nil {
			t.Fatalf("seeding %q: %v", key, err)
		}
	}
	if err := f.mr.Set("project:p1", "untouched"); err != nil {
		t.Fatalf("seeding project key: %v", err)
	}

	w := f.doAdmin(http.MethodPut, "/api/admin/blogs/b1", map[string]any{"title": "Updated"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	for _, key := range stale {
		if f.mr.Exists(key) {
			t.Errorf("expected %q to be purged", key)
		}
	}
	if !f.mr.Exists("project:p1") {
		t.Error("expected unrelated project entry to survive a blog mutation")
	}
}

func TestDashboardStats(t *testing.T) {
	f := newFixture(t,
		withBlogs(
			store.Blog{ID: "b1", Published: true},
			store.Blog{ID: "b2", Published: false},
		),
		withSubscribers(
			store.Subscriber{Email: "a@example.com", Active: true, UnsubscribeToken: "tok-a"},
			store.Subscriber{Email: "b@example.com", Active: false, UnsubscribeToken: "tok-b"},
		),
	)

	w := f.doAdmin(http.MethodGet, "/api/admin/stats", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	stats := decodeBody(t, w)
	if got := stats["blogs"].(float64); got != 2 {
		t.Errorf("expected 2 blogs, got %v", got)
	}
	if got := stats["active_subscribers"].(float64); got != 1 {
		t.Errorf("expected 1 active subscriber, got %v", got)
	}
}

func TestUnknownQueryParameterRejected(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/api/blogs?categroy=go", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a misspelled filter, got %d", w.Code)
	}
}

func TestUnknownQueryParameterRejectedDespiteCachedList(t *testing.T) {
	f := newFixture(t, withBlogs(
		store.Blog{ID: "b1", Title: "Live", Published: true},
	))

	// Fresh, the invalid shape is rejected.
	if w := f.do(http.MethodGet, "/api/blogs?bogus=1", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("fresh: expected 400, got %d", w.Code)
	}

	// Populate the unfiltered list entry with a valid request.
	if w := f.do(http.MethodGet, "/api/blogs", nil); w.Code != http.StatusOK {
		t.Fatalf("valid request: expected 200, got %d", w.Code)
	}
	f.waitForKey("blog:all")

	// The invalid shape must still be rejected, not served the cached 200.
	if w := f.do(http.MethodGet, "/api/blogs?bogus=1", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("cached: expected 400, got %d (body %q)", w.Code, w.Body.String())
	}

	// And it must not have poisoned the valid entry either.
	if !f.mr.Exists("blog:all") {
		t.Error("expected the valid cached entry to survive")
	}
}

func TestPublicWriteRateLimited(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	srv := NewServer(Deps{
		Blogs:        testutil.NewFakeBlogStore(),
		Projects:     testutil.NewFakeProjectStore(),
		Gallery:      testutil.NewFakeGalleryStore(),
		Testimonials: testutil.NewFakeTestimonialStore(),
		Experience:   testutil.NewFakeExperienceStore(),
		Contacts:     testutil.NewFakeContactStore(),
		Subscribers:  testutil.NewFakeSubscriberStore(),
		Limiter:      ratelimit.NewLimiter(rdb, 2, time.Minute, zerolog.Nop()),
		Logger:       zerolog.Nop(),
	})
	router := srv.Router()

	body := []byte(`{"name":"A","email":"a@example.com","message":"hi"}`)
	send := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/contact", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	if got := send(); got != http.StatusCreated {
		t.Fatalf("first request: expected 201, got %d", got)
	}
	if got := send(); got != http.StatusCreated {
		t.Fatalf("second request: expected 201, got %d", got)
	}
	if got := send(); got != http.StatusTooManyRequests {
		t.Fatalf("third request: expected 429, got %d", got)
	}
}

func TestServerWithoutCacheStillServes(t *testing.T) {
	blogs := testutil.NewFakeBlogStore(store.Blog{ID: "b1", Title: "Post", Published: true})
	srv := NewServer(Deps{
		Blogs:        blogs,
		Projects:     testutil.NewFakeProjectStore(),
		Gallery:      testutil.NewFakeGalleryStore(),
		Testimonials: testutil.NewFakeTestimonialStore(),
		Experience:   testutil.NewFakeExperienceStore(),
		Contacts:     testutil.NewFakeContactStore(),
		Subscribers:  testutil.NewFakeSubscriberStore(),
		Logger:       zerolog.Nop(),
	})
	router := srv.Router()

	req := httptest.NewRequest(http.MethodGet, "/api/blogs", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 without cache wiring, got %d", w.Code)
	}
}
