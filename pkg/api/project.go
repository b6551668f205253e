package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/RxRakari/main-portfolio-sub001/pkg/cache"
	"github.com/RxRakari/main-portfolio-sub001/pkg/newsletter"
	"github.com/RxRakari/main-portfolio-sub001/pkg/store"
)

type projectRequest struct {
	Title       string       `json:"title"`
	Summary     string       `json:"summary"`
	Description string       `json:"description"`
	Image       *store.Image `json:"image"`
	RepoURL     string       `json:"repo_url"`
	LiveURL     string       `json:"live_url"`
	Tech        []string     `json:"tech"`
	Featured    bool         `json:"featured"`
}

type projectUpdateRequest struct {
	Title       *string      `json:"title"`
	Summary     *string      `json:"summary"`
	Description *string      `json:"description"`
	Image       *store.Image `json:"image"`
	RepoURL     *string      `json:"repo_url"`
	LiveURL     *string      `json:"live_url"`
	Tech        *[]string    `json:"tech"`
	Featured    *bool        `json:"featured"`
}

func (s *Server) listProjects(c *gin.Context) {
	if err := checkQuery(c, projectListParams...); err != nil {
		s.respondError(c, err)
		return
	}
	page, limit, err := pagination(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	featured, err := boolQuery(c, "featured")
	if err != nil {
		s.respondError(c, err)
		return
	}

	projects, err := s.deps.Projects.List(c.Request.Context(), store.ProjectFilter{
		Featured: featured,
		Tech:     c.Query("tech"),
		Page:     int64(page),
		Limit:    int64(limit),
	})
	if err != nil {
		s.respondError(c, errInternal("listing projects failed", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects, "page": page, "limit": limit})
}

func (s *Server) getProject(c *gin.Context) {
	project, err := s.deps.Projects.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// createProject stores a new project and announces it to subscribers.
func (s *Server) createProject(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, errBadRequest("invalid request body"))
		return
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Summary) == "" {
		s.respondError(c, errBadRequest("title and summary are required"))
		return
	}

	project := &store.Project{
		Title:       req.Title,
		Summary:     req.Summary,
		Description: req.Description,
		RepoURL:     req.RepoURL,
		LiveURL:     req.LiveURL,
		Tech:        req.Tech,
		Featured:    req.Featured,
	}
	if req.Image != nil {
		project.Image = *req.Image
	}
	if err := s.deps.Projects.Create(c.Request.Context(), project); err != nil {
		s.respondError(c, errInternal("creating project failed", err))
		return
	}

	s.invalidate(c, cache.EntityProject)
	s.notifyContentCreated(newsletter.KindProject, newsletter.Content{
		Title:    project.Title,
		Ref:      project.ID,
		Teaser:   project.Summary,
		ImageURL: project.Image.URL,
	})
	c.JSON(http.StatusCreated, project)
}

func (s *Server) updateProject(c *gin.Context) {
	var req projectUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, errBadRequest("invalid request body"))
		return
	}

	id := c.Param("id")
	if _, err := s.deps.Projects.Update(c.Request.Context(), id, store.ProjectUpdate{
		Title:       req.Title,
		Summary:     req.Summary,
		Description: req.Description,
		Image:       req.Image,
		RepoURL:     req.RepoURL,
		LiveURL:     req.LiveURL,
		Tech:        req.Tech,
		Featured:    req.Featured,
	}); err != nil {
		s.respondError(c, err)
		return
	}

	s.invalidate(c, cache.EntityProject, id)

	curr, err := s.deps.Projects.Get(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, curr)
}

func (s *Server) deleteProject(c *gin.Context) {
	id := c.Param("id")
	project, err := s.deps.Projects.Get(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if err := s.deps.Projects.Delete(c.Request.Context(), id); err != nil {
		s.respondError(c, err)
		return
	}

	s.invalidate(c, cache.EntityProject, id)
	s.cleanupAsset(project.Image)
	c.Status(http.StatusNoContent)
}

// notifyContentCreated fires the newsletter in the background for content
// kinds announced on creation.
func (s *Server) notifyContentCreated(kind newsletter.ContentKind, content newsletter.Content) {
	if s.deps.Newsletter == nil {
		return
	}
	s.background(func(ctx context.Context) {
		if err := s.deps.Newsletter.NotifyContent(ctx, kind, content); err != nil {
			s.logger.Error().Err(err).Str("kind", string(kind)).Str("ref", content.Ref).Msg("Newsletter dispatch failed")
		}
	})
}
