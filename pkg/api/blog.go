package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/RxRakari/main-portfolio-sub001/pkg/cache"
	"github.com/RxRakari/main-portfolio-sub001/pkg/newsletter"
	"github.com/RxRakari/main-portfolio-sub001/pkg/store"
)

type blogRequest struct {
	Title     string       `json:"title"`
	Slug      string       `json:"slug"`
	Excerpt   string       `json:"excerpt"`
	Content   string       `json:"content"`
	Category  string       `json:"category"`
	Tags      []string     `json:"tags"`
	Image     *store.Image `json:"image"`
	Published bool         `json:"published"`
}

type blogUpdateRequest struct {
	Title     *string      `json:"title"`
	Slug      *string      `json:"slug"`
	Excerpt   *string      `json:"excerpt"`
	Content   *string      `json:"content"`
	Category  *string      `json:"category"`
	Tags      *[]string    `json:"tags"`
	Image     *store.Image `json:"image"`
	Published *bool        `json:"published"`
}

// listBlogs serves the public listing; only published posts are visible.
func (s *Server) listBlogs(c *gin.Context) {
	if err := checkQuery(c, blogListParams...); err != nil {
		s.respondError(c, err)
		return
	}
	page, limit, err := pagination(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	published := true
	blogs, err := s.deps.Blogs.List(c.Request.Context(), store.BlogFilter{
		Category:  c.Query("category"),
		Tag:       c.Query("tag"),
		Published: &published,
		Page:      int64(page),
		Limit:     int64(limit),
	})
	if err != nil {
		s.respondError(c, errInternal("listing blogs failed", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"blogs": blogs, "page": page, "limit": limit})
}

// adminListBlogs serves the admin listing, drafts included.
func (s *Server) adminListBlogs(c *gin.Context) {
	if err := checkQuery(c, append([]string{"published"}, blogListParams...)...); err != nil {
		s.respondError(c, err)
		return
	}
	page, limit, err := pagination(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	published, err := boolQuery(c, "published")
	if err != nil {
		s.respondError(c, err)
		return
	}

	blogs, err := s.deps.Blogs.List(c.Request.Context(), store.BlogFilter{
		Category:  c.Query("category"),
		Tag:       c.Query("tag"),
		Published: published,
		Page:      int64(page),
		Limit:     int64(limit),
	})
	if err != nil {
		s.respondError(c, errInternal("listing blogs failed", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"blogs": blogs, "page": page, "limit": limit})
}

// getBlog resolves a post by id, falling back to slug so marketing links
// stay stable across migrations.
func (s *Server) getBlog(c *gin.Context) {
	ref := c.Param("id")
	blog, err := s.deps.Blogs.Get(c.Request.Context(), ref)
	if err == store.ErrNotFound {
		blog, err = s.deps.Blogs.GetBySlug(c.Request.Context(), ref)
	}
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, blog)
}

// countBlogView bumps the view counter and drops the stale detail and
// popularity entries. List entries keep their old counts until TTL: a view
// is not a content mutation, and purging blog:* on every page view would
// defeat the list cache.
func (s *Server) countBlogView(c *gin.Context) {
	id := c.Param("id")
	if err := s.deps.Blogs.IncrementViews(c.Request.Context(), id); err != nil {
		s.respondError(c, err)
		return
	}
	if s.deps.Cache != nil {
		ctx := c.Request.Context()
		s.deps.Cache.Delete(ctx, cache.EntityKey("blog", id))
		s.deps.Cache.Delete(ctx, cache.KeyPopularContent)
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) createBlog(c *gin.Context) {
	var req blogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, errBadRequest("invalid request body"))
		return
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Slug) == "" || strings.TrimSpace(req.Content) == "" {
		s.respondError(c, errBadRequest("title, slug and content are required"))
		return
	}

	blog := &store.Blog{
		Title:     req.Title,
		Slug:      req.Slug,
		Excerpt:   req.Excerpt,
		Content:   req.Content,
		Category:  req.Category,
		Tags:      req.Tags,
		Published: req.Published,
	}
	if req.Image != nil {
		blog.Image = *req.Image
	}
	if err := s.deps.Blogs.Create(c.Request.Context(), blog); err != nil {
		s.respondError(c, errInternal("creating blog failed", err))
		return
	}

	s.invalidate(c, cache.EntityBlog)
	if blog.Published {
		s.dispatchBlogNotification(c.Request.Context(), blog)
	}
	c.JSON(http.StatusCreated, blog)
}

func (s *Server) updateBlog(c *gin.Context) {
	var req blogUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, errBadRequest("invalid request body"))
		return
	}

	id := c.Param("id")
	prev, err := s.deps.Blogs.Update(c.Request.Context(), id, store.BlogUpdate{
		Title:     req.Title,
		Slug:      req.Slug,
		Excerpt:   req.Excerpt,
		Content:   req.Content,
		Category:  req.Category,
		Tags:      req.Tags,
		Image:     req.Image,
		Published: req.Published,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}

	s.invalidate(c, cache.EntityBlog, id)

	curr, err := s.deps.Blogs.Get(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	s.maybeNotifyPublished(c.Request.Context(), prev, curr)
	c.JSON(http.StatusOK, curr)
}

// toggleBlogPublished flips the published flag, dispatching the newsletter
// on the first transition to published.
func (s *Server) toggleBlogPublished(c *gin.Context) {
	id := c.Param("id")
	ctx := c.Request.Context()

	blog, err := s.deps.Blogs.Get(ctx, id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	next := !blog.Published
	prev, err := s.deps.Blogs.Update(ctx, id, store.BlogUpdate{Published: &next})
	if err != nil {
		s.respondError(c, err)
		return
	}

	s.invalidate(c, cache.EntityBlog, id)

	curr, err := s.deps.Blogs.Get(ctx, id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	s.maybeNotifyPublished(ctx, prev, curr)
	c.JSON(http.StatusOK, curr)
}

func (s *Server) deleteBlog(c *gin.Context) {
	id := c.Param("id")
	blog, err := s.deps.Blogs.Get(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if err := s.deps.Blogs.Delete(c.Request.Context(), id); err != nil {
		s.respondError(c, err)
		return
	}

	s.invalidate(c, cache.EntityBlog, id)
	s.cleanupAsset(blog.Image)
	c.Status(http.StatusNoContent)
}

// maybeNotifyPublished dispatches the newsletter when a post crosses from
// draft to published for the first time. NotifiedAt keeps later
// unpublish/republish cycles silent.
func (s *Server) maybeNotifyPublished(ctx context.Context, prev, curr *store.Blog) {
	if prev == nil || curr == nil {
		return
	}
	if prev.Published || !curr.Published || !prev.NotifiedAt.IsZero() {
		return
	}
	s.dispatchBlogNotification(ctx, curr)
}

// dispatchBlogNotification marks the post notified, then sends to
// subscribers in the background. The mark happens first so a crash
// mid-dispatch can never cause a second full send.
func (s *Server) dispatchBlogNotification(ctx context.Context, blog *store.Blog) {
	if s.deps.Newsletter == nil {
		return
	}
	if err := s.deps.Blogs.MarkNotified(ctx, blog.ID, time.Now().UTC()); err != nil {
		s.logger.Error().Err(err).Str("blog_id", blog.ID).Msg("Failed to mark blog notified")
		return
	}

	content := newsletter.Content{
		Title:    blog.Title,
		Ref:      blogRef(blog),
		Teaser:   blog.Excerpt,
		ImageURL: blog.Image.URL,
	}
	s.background(func(ctx context.Context) {
		if err := s.deps.Newsletter.NotifyContent(ctx, newsletter.KindBlog, content); err != nil {
			s.logger.Error().Err(err).Str("blog_id", blog.ID).Msg("Blog newsletter dispatch failed")
		}
	})
}

// cleanupAsset removes a hosted image in the background after its owning
// document is gone.
func (s *Server) cleanupAsset(img store.Image) {
	if s.deps.Media == nil || img.PublicID == "" {
		return
	}
	publicID := img.PublicID
	s.background(func(ctx context.Context) {
		if err := s.deps.Media.Delete(ctx, publicID); err != nil {
			s.logger.Warn().Err(err).Str("public_id", publicID).Msg("Orphaned media cleanup failed")
		}
	})
}

func blogRef(b *store.Blog) string {
	if b.Slug != "" {
		return b.Slug
	}
	return b.ID
}
