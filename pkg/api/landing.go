package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/RxRakari/main-portfolio-sub001/pkg/store"
)

// landing assembles the landing page payload from every public section in
// one cached response.
func (s *Server) landing(c *gin.Context) {
	ctx := c.Request.Context()
	published, approved, featured := true, true, true

	blogs, err := s.deps.Blogs.List(ctx, store.BlogFilter{Published: &published, Page: 1, Limit: 3})
	if err != nil {
		s.respondError(c, errInternal("assembling landing page failed", err))
		return
	}
	projects, err := s.deps.Projects.List(ctx, store.ProjectFilter{Featured: &featured, Page: 1, Limit: 6})
	if err != nil {
		s.respondError(c, errInternal("assembling landing page failed", err))
		return
	}
	gallery, err := s.deps.Gallery.List(ctx)
	if err != nil {
		s.respondError(c, errInternal("assembling landing page failed", err))
		return
	}
	if len(gallery) > 6 {
		gallery = gallery[:6]
	}
	testimonials, err := s.deps.Testimonials.List(ctx, store.TestimonialFilter{Approved: &approved})
	if err != nil {
		s.respondError(c, errInternal("assembling landing page failed", err))
		return
	}
	experience, err := s.deps.Experience.List(ctx)
	if err != nil {
		s.respondError(c, errInternal("assembling landing page failed", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"blogs":        blogs,
		"projects":     projects,
		"gallery":      gallery,
		"testimonials": testimonials,
		"experience":   experience,
	})
}

// dashboardStats reports collection counts for the admin dashboard.
func (s *Server) dashboardStats(c *gin.Context) {
	ctx := c.Request.Context()

	blogs, err := s.deps.Blogs.Count(ctx)
	if err != nil {
		s.respondError(c, errInternal("counting blogs failed", err))
		return
	}
	projects, err := s.deps.Projects.Count(ctx)
	if err != nil {
		s.respondError(c, errInternal("counting projects failed", err))
		return
	}
	gallery, err := s.deps.Gallery.Count(ctx)
	if err != nil {
		s.respondError(c, errInternal("counting gallery failed", err))
		return
	}
	testimonials, err := s.deps.Testimonials.Count(ctx)
	if err != nil {
		s.respondError(c, errInternal("counting testimonials failed", err))
		return
	}
	contacts, err := s.deps.Contacts.Count(ctx)
	if err != nil {
		s.respondError(c, errInternal("counting contacts failed", err))
		return
	}
	subscribers, err := s.deps.Subscribers.CountActive(ctx)
	if err != nil {
		s.respondError(c, errInternal("counting subscribers failed", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"blogs":              blogs,
		"projects":           projects,
		"gallery":            gallery,
		"testimonials":       testimonials,
		"contacts":           contacts,
		"active_subscribers": subscribers,
	})
}

// popularContent reports the most-viewed posts and featured projects.
func (s *Server) popularContent(c *gin.Context) {
	ctx := c.Request.Context()
	featured := true

	blogs, err := s.deps.Blogs.Popular(ctx, 5)
	if err != nil {
		s.respondError(c, errInternal("resolving popular blogs failed", err))
		return
	}
	projects, err := s.deps.Projects.List(ctx, store.ProjectFilter{Featured: &featured, Page: 1, Limit: 5})
	if err != nil {
		s.respondError(c, errInternal("resolving featured projects failed", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"blogs": blogs, "projects": projects})
}
