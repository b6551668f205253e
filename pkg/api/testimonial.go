package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/RxRakari/main-portfolio-sub001/pkg/cache"
	"github.com/RxRakari/main-portfolio-sub001/pkg/store"
)

type testimonialRequest struct {
	Author string       `json:"author"`
	Role   string       `json:"role"`
	Quote  string       `json:"quote"`
	Avatar *store.Image `json:"avatar"`
}

// listTestimonials serves the public listing; only approved entries are
// visible.
func (s *Server) listTestimonials(c *gin.Context) {
	approved := true
	items, err := s.deps.Testimonials.List(c.Request.Context(), store.TestimonialFilter{Approved: &approved})
	if err != nil {
		s.respondError(c, errInternal("listing testimonials failed", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"testimonials": items})
}

func (s *Server) adminListTestimonials(c *gin.Context) {
	if err := checkQuery(c, "approved"); err != nil {
		s.respondError(c, err)
		return
	}
	approved, err := boolQuery(c, "approved")
	if err != nil {
		s.respondError(c, err)
		return
	}

	items, err := s.deps.Testimonials.List(c.Request.Context(), store.TestimonialFilter{Approved: approved})
	if err != nil {
		s.respondError(c, errInternal("listing testimonials failed", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"testimonials": items})
}

// createTestimonial accepts a visitor submission. New entries start
// unapproved and stay invisible until an admin approves them.
func (s *Server) createTestimonial(c *gin.Context) {
	var req testimonialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, errBadRequest("invalid request body"))
		return
	}
	if strings.TrimSpace(req.Author) == "" || strings.TrimSpace(req.Quote) == "" {
		s.respondError(c, errBadRequest("author and quote are required"))
		return
	}

	item := &store.Testimonial{
		Author: req.Author,
		Role:   req.Role,
		Quote:  req.Quote,
	}
	if req.Avatar != nil {
		item.Avatar = *req.Avatar
	}
	if err := s.deps.Testimonials.Create(c.Request.Context(), item); err != nil {
		s.respondError(c, errInternal("creating testimonial failed", err))
		return
	}

	// Unapproved entries never appear in cached responses, so nothing to
	// purge yet.
	c.JSON(http.StatusCreated, item)
}

func (s *Server) approveTestimonial(c *gin.Context) {
	id := c.Param("id")
	approved := true
	if _, err := s.deps.Testimonials.Update(c.Request.Context(), id, store.TestimonialUpdate{Approved: &approved}); err != nil {
		s.respondError(c, err)
		return
	}

	s.invalidate(c, cache.EntityTestimonial, id)

	curr, err := s.deps.Testimonials.Get(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, curr)
}

func (s *Server) deleteTestimonial(c *gin.Context) {
	id := c.Param("id")
	if err := s.deps.Testimonials.Delete(c.Request.Context(), id); err != nil {
		s.respondError(c, err)
		return
	}
	s.invalidate(c, cache.EntityTestimonial, id)
	c.Status(http.StatusNoContent)
}
