package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/RxRakari/main-portfolio-sub001/pkg/cache"
	"github.com/RxRakari/main-portfolio-sub001/pkg/store"
)

type experienceRequest struct {
	Company   string     `json:"company"`
	Role      string     `json:"role"`
	Summary   string     `json:"summary"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	Current   bool       `json:"current"`
}

type experienceUpdateRequest struct {
	Company   *string    `json:"company"`
	Role      *string    `json:"role"`
	Summary   *string    `json:"summary"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	Current   *bool      `json:"current"`
}

func (s *Server) listExperience(c *gin.Context) {
	entries, err := s.deps.Experience.List(c.Request.Context())
	if err != nil {
		s.respondError(c, errInternal("listing experience failed", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"experience": entries})
}

func (s *Server) createExperience(c *gin.Context) {
	var req experienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, errBadRequest("invalid request body"))
		return
	}
	if strings.TrimSpace(req.Company) == "" || strings.TrimSpace(req.Role) == "" {
		s.respondError(c, errBadRequest("company and role are required"))
		return
	}
	if req.StartDate.IsZero() {
		s.respondError(c, errBadRequest("start_date is required"))
		return
	}

	entry := &store.Experience{
		Company:   req.Company,
		Role:      req.Role,
		Summary:   req.Summary,
		StartDate: req.StartDate,
		Current:   req.Current,
	}
	if req.EndDate != nil {
		entry.EndDate = *req.EndDate
	}
	if err := s.deps.Experience.Create(c.Request.Context(), entry); err != nil {
		s.respondError(c, errInternal("creating experience entry failed", err))
		return
	}

	s.invalidate(c, cache.EntityExperience)
	c.JSON(http.StatusCreated, entry)
}

func (s *Server) updateExperience(c *gin.Context) {
	var req experienceUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, errBadRequest("invalid request body"))
		return
	}

	id := c.Param("id")
	if _, err := s.deps.Experience.Update(c.Request.Context(), id, store.ExperienceUpdate{
		Company:   req.Company,
		Role:      req.Role,
		Summary:   req.Summary,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Current:   req.Current,
	}); err != nil {
		s.respondError(c, err)
		return
	}

	s.invalidate(c, cache.EntityExperience, id)

	curr, err := s.deps.Experience.Get(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, curr)
}

func (s *Server) deleteExperience(c *gin.Context) {
	id := c.Param("id")
	if err := s.deps.Experience.Delete(c.Request.Context(), id); err != nil {
		s.respondError(c, err)
		return
	}
	s.invalidate(c, cache.EntityExperience, id)
	c.Status(http.StatusNoContent)
}
