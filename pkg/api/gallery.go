package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/RxRakari/main-portfolio-sub001/pkg/cache"
	"github.com/RxRakari/main-portfolio-sub001/pkg/newsletter"
	"github.com/RxRakari/main-portfolio-sub001/pkg/store"
)

type galleryRequest struct {
	Title   string       `json:"title"`
	Caption string       `json:"caption"`
	Image   *store.Image `json:"image"`
}

func (s *Server) listGallery(c *gin.Context) {
	items, err := s.deps.Gallery.List(c.Request.Context())
	if err != nil {
		s.respondError(c, errInternal("listing gallery failed", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"gallery": items})
}

func (s *Server) getGalleryItem(c *gin.Context) {
	item, err := s.deps.Gallery.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// createGalleryItem stores a new gallery entry and announces it to
// subscribers.
func (s *Server) createGalleryItem(c *gin.Context) {
	var req galleryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, errBadRequest("invalid request body"))
		return
	}
	if strings.TrimSpace(req.Title) == "" || req.Image == nil || req.Image.URL == "" {
		s.respondError(c, errBadRequest("title and image are required"))
		return
	}

	item := &store.GalleryItem{
		Title:   req.Title,
		Caption: req.Caption,
		Image:   *req.Image,
	}
	if err := s.deps.Gallery.Create(c.Request.Context(), item); err != nil {
		s.respondError(c, errInternal("creating gallery item failed", err))
		return
	}

	s.invalidate(c, cache.EntityGallery)
	s.notifyContentCreated(newsletter.KindGallery, newsletter.Content{
		Title:    item.Title,
		Ref:      item.ID,
		Teaser:   item.Caption,
		ImageURL: item.Image.URL,
	})
	c.JSON(http.StatusCreated, item)
}

func (s *Server) deleteGalleryItem(c *gin.Context) {
	id := c.Param("id")
	item, err := s.deps.Gallery.Get(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if err := s.deps.Gallery.Delete(c.Request.Context(), id); err != nil {
		s.respondError(c, err)
		return
	}

	s.invalidate(c, cache.EntityGallery, id)
	s.cleanupAsset(item.Image)
	c.Status(http.StatusNoContent)
}
