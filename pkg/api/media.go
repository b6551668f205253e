package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// uploadMedia accepts a multipart file and stores it with the media
// provider, returning the hosted URL and public id.
func (s *Server) uploadMedia(c *gin.Context) {
	if s.deps.Media == nil {
		s.respondError(c, errUnavailable("media uploads are not configured"))
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		s.respondError(c, errBadRequest("multipart field %q is required", "file"))
		return
	}
	file, err := header.Open()
	if err != nil {
		s.respondError(c, errInternal("opening upload failed", err))
		return
	}
	defer file.Close()

	asset, err := s.deps.Media.Upload(c.Request.Context(), file)
	if err != nil {
		s.respondError(c, errInternal("media upload failed", err))
		return
	}
	c.JSON(http.StatusCreated, asset)
}

// deleteMedia removes an asset from the media provider by its public id.
func (s *Server) deleteMedia(c *gin.Context) {
	if s.deps.Media == nil {
		s.respondError(c, errUnavailable("media uploads are not configured"))
		return
	}

	publicID := c.Query("public_id")
	if publicID == "" {
		s.respondError(c, errBadRequest("query parameter %q is required", "public_id"))
		return
	}
	if err := s.deps.Media.Delete(c.Request.Context(), publicID); err != nil {
		s.respondError(c, errInternal("media delete failed", err))
		return
	}
	c.Status(http.StatusNoContent)
}
