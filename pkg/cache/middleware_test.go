package cache

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// waitForKey polls until the key appears in the store, since the middleware
// populates the cache on a detached goroutine.
func waitForKey(t *testing.T, c *Client, key string) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if c.Exists(t.Context(), key) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("key %q never appeared in cache", key)
}

func doRequest(r *gin.Engine, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestResponse_HitBypassesHandler(t *testing.T) {
	c, _ := setupTestCache(t)

	calls := 0
	r := gin.New()
	r.GET("/api/blogs", Response(c, Options{}), func(g *gin.Context) {
		calls++
		g.JSON(http.StatusOK, gin.H{"items": []string{"a", "b"}})
	})

	first := doRequest(r, http.MethodGet, "/api/blogs")
	if first.Code != http.StatusOK {
		t.Fatalf("first request status = %d", first.Code)
	}
	if calls != 1 {
		t.Fatalf("handler calls after first request = %d, want 1", calls)
	}

	waitForKey(t, c, "api/blogs")

	second := doRequest(r, http.MethodGet, "/api/blogs")
	if second.Code != http.StatusOK {
		t.Fatalf("second request status = %d", second.Code)
	}
	if calls != 1 {
		t.Errorf("handler calls after cached request = %d, want 1", calls)
	}
	if first.Body.String() != second.Body.String() {
		t.Errorf("cached body differs: %q vs %q", first.Body.String(), second.Body.String())
	}
}

func TestResponse_QueryShapesKeySeparately(t *testing.T) {
	c, _ := setupTestCache(t)

	calls := 0
	r := gin.New()
	r.GET("/api/items", Response(c, Options{}), func(g *gin.Context) {
		calls++
		g.JSON(http.StatusOK, gin.H{"category": g.Query("category")})
	})

	doRequest(r, http.MethodGet, "/api/items?category=a")
	waitForKey(t, c, "api/items:category=a")

	doRequest(r, http.MethodGet, "/api/items?category=b")
	waitForKey(t, c, "api/items:category=b")

	if calls != 2 {
		t.Errorf("handler calls = %d, want 2 (distinct filter values must not collide)", calls)
	}

	doRequest(r, http.MethodGet, "/api/items?category=a")
	if calls != 2 {
		t.Errorf("handler calls = %d, want 2 (identical request must hit)", calls)
	}
}

func TestResponse_NonGETBypassed(t *testing.T) {
	c, _ := setupTestCache(t)

	calls := 0
	r := gin.New()
	r.POST("/api/blogs", Response(c, Options{}), func(g *gin.Context) {
		calls++
		g.JSON(http.StatusCreated, gin.H{"id": "1"})
	})

	doRequest(r, http.MethodPost, "/api/blogs")
	doRequest(r, http.MethodPost, "/api/blogs")

	if calls != 2 {
		t.Errorf("handler calls = %d, want 2 (POST must never be cached)", calls)
	}
	if c.Exists(t.Context(), "api/blogs") {
		t.Error("POST response must not populate the cache")
	}
}

func TestResponse_SkipPredicate(t *testing.T) {
	c, _ := setupTestCache(t)

	calls := 0
	r := gin.New()
	opts := Options{
		Skip: func(g *gin.Context) bool { return g.Query("nocache") == "1" },
	}
	r.GET("/api/blogs", Response(c, opts), func(g *gin.Context) {
		calls++
		g.JSON(http.StatusOK, gin.H{"ok": true})
	})

	doRequest(r, http.MethodGet, "/api/blogs?nocache=1")
	doRequest(r, http.MethodGet, "/api/blogs?nocache=1")

	if calls != 2 {
		t.Errorf("handler calls = %d, want 2 (skipped requests bypass the cache)", calls)
	}
}

func TestResponse_ErrorStatusNotCached(t *testing.T) {
	c, _ := setupTestCache(t)

	r := gin.New()
	r.GET("/api/blogs/:id", Response(c, Options{}), func(g *gin.Context) {
		g.JSON(http.StatusNotFound, gin.H{"error": "blog not found"})
	})

	doRequest(r, http.MethodGet, "/api/blogs/missing")

	// Give any (incorrect) detached store a chance to land.
	time.Sleep(50 * time.Millisecond)

	if c.Exists(t.Context(), "api/blogs/missing") {
		t.Error("non-2xx response must not populate the cache")
	}
}

func TestResponse_CustomKeyFunc(t *testing.T) {
	c, _ := setupTestCache(t)

	r := gin.New()
	opts := Options{
		TTL:     time.Minute,
		KeyFunc: func(g *gin.Context) string { return EntityKey("blog", g.Param("id")) },
	}
	r.GET("/api/blogs/:id", Response(c, opts), func(g *gin.Context) {
		g.JSON(http.StatusOK, gin.H{"id": g.Param("id")})
	})

	doRequest(r, http.MethodGet, "/api/blogs/abc")
	waitForKey(t, c, "blog:abc")
}

func TestResponse_DegradedClientServesFresh(t *testing.T) {
	c := New(nil, zerolog.Nop())

	calls := 0
	r := gin.New()
	r.GET("/api/blogs", Response(c, Options{}), func(g *gin.Context) {
		calls++
		g.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w1 := doRequest(r, http.MethodGet, "/api/blogs")
	w2 := doRequest(r, http.MethodGet, "/api/blogs")

	if calls != 2 {
		t.Errorf("handler calls = %d, want 2 (degraded cache always computes fresh)", calls)
	}
	if w1.Body.String() != w2.Body.String() {
		t.Errorf("fresh bodies differ: %q vs %q", w1.Body.String(), w2.Body.String())
	}
}
