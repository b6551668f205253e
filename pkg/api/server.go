// Package api exposes the portfolio REST surface: cached public reads,
// invalidating admin writes, newsletter subscription and dispatch triggers.
package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/RxRakari/main-portfolio-sub001/pkg/cache"
	"github.com/RxRakari/main-portfolio-sub001/pkg/mailer"
	"github.com/RxRakari/main-portfolio-sub001/pkg/media"
	"github.com/RxRakari/main-portfolio-sub001/pkg/newsletter"
	"github.com/RxRakari/main-portfolio-sub001/pkg/ratelimit"
	"github.com/RxRakari/main-portfolio-sub001/pkg/store"
)

// Deps bundles everything the server needs. Cache, invalidator, limiter,
// media and sender are optional: absent ones degrade the corresponding
// side channel, never a primary response.
type Deps struct {
	Blogs        store.BlogStore
	Projects     store.ProjectStore
	Gallery      store.GalleryStore
	Testimonials store.TestimonialStore
	Experience   store.ExperienceStore
	Contacts     store.ContactStore
	Subscribers  store.SubscriberStore

	Cache       *cache.Client
	Invalidator *cache.Invalidator
	Newsletter  *newsletter.Service
	Media       *media.Uploader
	Limiter     *ratelimit.Limiter
	Sender      mailer.Sender

	JWTSecret     string
	AdminUser     string
	AdminPassword string
	OwnerEmail    string

	Logger zerolog.Logger
}

// Server is the HTTP handler set over the portfolio stores.
type Server struct {
	deps   Deps
	logger zerolog.Logger
	wg     sync.WaitGroup
}

// NewServer creates a server from its dependencies.
func NewServer(deps Deps) *Server {
	return &Server{
		deps:   deps,
		logger: deps.Logger,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/healthz", s.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	pub := r.Group("/api")
	{
		pub.GET("/blogs", s.cached(cache.Options{
			TTL:     cache.DefaultTTL,
			KeyFunc: listKeyFunc("blog", blogListParams...),
			Skip:    skipUnknownQuery(blogListParams),
		}), s.listBlogs)
		pub.GET("/blogs/:id", s.cached(cache.Options{
			TTL:     cache.DetailTTL,
			KeyFunc: entityKeyFunc("blog"),
		}), s.getBlog)
		pub.POST("/blogs/:id/views", s.countBlogView)

		pub.GET("/projects", s.cached(cache.Options{
			TTL:     cache.DefaultTTL,
			KeyFunc: listKeyFunc("project", projectListParams...),
			Skip:    skipUnknownQuery(projectListParams),
		}), s.listProjects)
		pub.GET("/projects/:id", s.cached(cache.Options{
			TTL:     cache.DetailTTL,
			KeyFunc: entityKeyFunc("project"),
		}), s.getProject)

		pub.GET("/gallery", s.cached(cache.Options{
			TTL:     cache.DefaultTTL,
			KeyFunc: listKeyFunc("gallery"),
		}), s.listGallery)
		pub.GET("/gallery/:id", s.cached(cache.Options{
			TTL:     cache.DetailTTL,
			KeyFunc: entityKeyFunc("gallery"),
		}), s.getGalleryItem)

		pub.GET("/testimonials", s.cached(cache.Options{
			TTL:     cache.DefaultTTL,
			KeyFunc: listKeyFunc("testimonial"),
		}), s.listTestimonials)
		pub.POST("/testimonials", s.limited("testimonial"), s.createTestimonial)

		pub.GET("/experience", s.cached(cache.Options{
			TTL:     cache.DefaultTTL,
			KeyFunc: listKeyFunc("experience"),
		}), s.listExperience)

		pub.GET("/landing", s.cached(cache.Options{
			TTL:     cache.AggregateTTL,
			KeyFunc: staticKeyFunc(cache.KeyLandingPage),
		}), s.landing)

		pub.POST("/contact", s.limited("contact"), s.createContact)

		pub.POST("/newsletter/subscribe", s.limited("subscribe"), s.subscribe)
		pub.GET("/newsletter/unsubscribe/:token", s.unsubscribe)

		pub.POST("/auth/login", s.login)
	}

	admin := r.Group("/api/admin", s.requireAdmin())
	{
		admin.GET("/blogs", s.adminListBlogs)
		admin.POST("/blogs", s.createBlog)
		admin.PUT("/blogs/:id", s.updateBlog)
		admin.PATCH("/blogs/:id/publish", s.toggleBlogPublished)
		admin.DELETE("/blogs/:id", s.deleteBlog)

		admin.POST("/projects", s.createProject)
		admin.PUT("/projects/:id", s.updateProject)
		admin.DELETE("/projects/:id", s.deleteProject)

		admin.POST("/gallery", s.createGalleryItem)
		admin.DELETE("/gallery/:id", s.deleteGalleryItem)

		admin.GET("/testimonials", s.adminListTestimonials)
		admin.PATCH("/testimonials/:id/approve", s.approveTestimonial)
		admin.DELETE("/testimonials/:id", s.deleteTestimonial)

		admin.POST("/experience", s.createExperience)
		admin.PUT("/experience/:id", s.updateExperience)
		admin.DELETE("/experience/:id", s.deleteExperience)

		admin.GET("/contacts", s.listContacts)
		admin.PATCH("/contacts/:id/read", s.markContactRead)
		admin.DELETE("/contacts/:id", s.deleteContact)

		admin.GET("/subscribers", s.listSubscribers)
		admin.DELETE("/subscribers/:id", s.deleteSubscriber)
		admin.POST("/newsletter/broadcast", s.broadcast)

		admin.POST("/media", s.uploadMedia)
		admin.DELETE("/media", s.deleteMedia)

		admin.GET("/stats", s.cached(cache.Options{
			TTL:     cache.AggregateTTL,
			KeyFunc: staticKeyFunc(cache.KeyDashboardStats),
		}), s.dashboardStats)
		admin.GET("/popular", s.cached(cache.Options{
			TTL:     cache.AggregateTTL,
			KeyFunc: staticKeyFunc(cache.KeyPopularContent),
		}), s.popularContent)
	}

	return r
}

// WaitBackground blocks until every detached side effect (newsletter
// dispatch, owner notifications, media cleanup) has finished. Called on
// shutdown and by tests.
func (s *Server) WaitBackground() {
	s.wg.Wait()
}

// background runs fn detached from the request that spawned it. Failures
// are fn's to log; nothing propagates back to the request.
func (s *Server) background(fn func(ctx context.Context)) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		fn(context.Background())
	}()
}

// invalidate purges the cache entries made stale by a committed mutation.
// Runs synchronously, before the mutation's response is written.
func (s *Server) invalidate(c *gin.Context, entity cache.EntityType, ids ...string) {
	if s.deps.Invalidator == nil {
		return
	}
	s.deps.Invalidator.Invalidate(c.Request.Context(), entity, ids...)
}

// cached wraps a read route with the response cache when one is configured.
func (s *Server) cached(opts cache.Options) gin.HandlerFunc {
	if s.deps.Cache == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return cache.Response(s.deps.Cache, opts)
}

// limited wraps a public write route with the rate limiter when one is
// configured.
func (s *Server) limited(scope string) gin.HandlerFunc {
	if s.deps.Limiter == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return s.deps.Limiter.Middleware(scope)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// requestLogger emits one structured line per request.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		event := s.logger.Info()
		if c.Writer.Status() >= 500 {
			event = s.logger.Error()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("Request handled")
	}
}

// listKeyFunc builds a list cache key from the allowed query parameters.
func listKeyFunc(prefix string, allowed ...string) func(*gin.Context) string {
	return func(c *gin.Context) string {
		filter := make(map[string]string, len(allowed))
		for _, k := range allowed {
			filter[k] = c.Query(k)
		}
		return cache.ListKey(prefix, filter)
	}
}

// skipUnknownQuery bypasses the cache when the request carries a query
// parameter the route will reject. The list key function only serializes the
// allowed parameters, so without this an invalid request would collide with
// a valid cached entry and be served its 200 payload.
func skipUnknownQuery(allowed []string) func(*gin.Context) bool {
	return func(c *gin.Context) bool {
		_, found := unknownQueryKey(c, allowed)
		return found
	}
}

// entityKeyFunc builds a detail cache key from the id path parameter.
func entityKeyFunc(prefix string) func(*gin.Context) string {
	return func(c *gin.Context) string {
		return cache.EntityKey(prefix, c.Param("id"))
	}
}

// staticKeyFunc pins a route to an aggregate singleton key.
func staticKeyFunc(key string) func(*gin.Context) string {
	return func(*gin.Context) string { return key }
}
