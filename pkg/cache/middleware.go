package cache

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// storeTimeout bounds the detached write that populates the cache after a
// miss. The response is never delayed by this write.
const storeTimeout = 2 * time.Second

// Options configures the response cache middleware for a route.
type Options struct {
	// TTL overrides the path-based default TTL when positive.
	TTL time.Duration

	// KeyFunc overrides the request-shape key generator.
	KeyFunc func(c *gin.Context) string

	// Skip bypasses caching entirely when it returns true.
	Skip func(c *gin.Context) bool
}

// Response returns a middleware that serves successful GET responses from
// the cache. On a hit the stored JSON body is written directly and the
// handler never runs. On a miss the handler's body is captured and stored
// asynchronously; the client receives the identical bytes either way.
// Non-GET requests and skipped requests pass straight through.
func Response(client *Client, opts Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}
		if opts.Skip != nil && opts.Skip(c) {
			c.Next()
			return
		}

		key := requestKey(c, opts)

		if body, ok := client.Get(c.Request.Context(), key); ok {
			c.Data(http.StatusOK, "application/json; charset=utf-8", body)
			c.Abort()
			return
		}

		capture := &captureWriter{ResponseWriter: c.Writer}
		c.Writer = capture

		c.Next()

		status := capture.Status()
		if status < 200 || status >= 300 || capture.body.Len() == 0 {
			return
		}

		ttl := opts.TTL
		if ttl <= 0 {
			ttl = TTLForPath(c.Request.URL.Path)
		}

		// Detached write: a slow or failing store must not delay the
		// response that was already sent.
		body := append([]byte(nil), capture.body.Bytes()...)
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
			defer cancel()
			client.Set(ctx, key, body, ttl)
		}()
	}
}

func requestKey(c *gin.Context, opts Options) string {
	if opts.KeyFunc != nil {
		return opts.KeyFunc(c)
	}
	return RequestKey(c.Request.URL.Path, c.Request.URL.Query())
}

// captureWriter tees the response body so the middleware can store what the
// handler wrote without touching the handler's own write path.
type captureWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
