package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/RxRakari/main-portfolio-sub001/pkg/cache"
	"github.com/RxRakari/main-portfolio-sub001/pkg/newsletter"
)

type subscribeRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type broadcastRequest struct {
	Subject  string `json:"subject"`
	BodyHTML string `json:"body_html"`
}

func (s *Server) subscribe(c *gin.Context) {
	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, errBadRequest("invalid request body"))
		return
	}

	outcome, _, err := s.deps.Newsletter.Subscribe(c.Request.Context(), req.Email, req.Name)
	if err != nil {
		s.respondError(c, err)
		return
	}

	s.invalidate(c, cache.EntityNewsletter)

	status := http.StatusOK
	message := "already subscribed"
	switch outcome {
	case newsletter.OutcomeSubscribed:
		status = http.StatusCreated
		message = "subscribed"
	case newsletter.OutcomeReactivated:
		message = "subscription reactivated"
	}
	c.JSON(status, gin.H{"status": string(outcome), "message": message})
}

func (s *Server) unsubscribe(c *gin.Context) {
	if err := s.deps.Newsletter.Unsubscribe(c.Request.Context(), c.Param("token")); err != nil {
		s.respondError(c, err)
		return
	}
	s.invalidate(c, cache.EntityNewsletter)
	c.JSON(http.StatusOK, gin.H{"message": "you have been unsubscribed"})
}

func (s *Server) listSubscribers(c *gin.Context) {
	subs, err := s.deps.Subscribers.All(c.Request.Context())
	if err != nil {
		s.respondError(c, errInternal("listing subscribers failed", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscribers": subs, "count": len(subs)})
}

// deleteSubscriber removes the record entirely. Regular unsubscribes only
// deactivate; hard deletion is an explicit admin action.
func (s *Server) deleteSubscriber(c *gin.Context) {
	if err := s.deps.Subscribers.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	s.invalidate(c, cache.EntityNewsletter)
	c.Status(http.StatusNoContent)
}

// broadcast sends an admin-authored email to all active subscribers and
// reports the per-recipient tally.
func (s *Server) broadcast(c *gin.Context) {
	var req broadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, errBadRequest("invalid request body"))
		return
	}
	if strings.TrimSpace(req.Subject) == "" {
		s.respondError(c, errBadRequest("subject is required"))
		return
	}

	result, err := s.deps.Newsletter.Broadcast(c.Request.Context(), req.Subject, req.BodyHTML)
	if err != nil {
		s.respondError(c, errInternal("broadcast failed", err))
		return
	}
	c.JSON(http.StatusOK, result)
}
