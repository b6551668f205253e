package api

import (
	"bytes"
	"context"
	"html/template"
	"net/http"
	"net/mail"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/RxRakari/main-portfolio-sub001/pkg/cache"
	"github.com/RxRakari/main-portfolio-sub001/pkg/store"
)

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

var contactNotifyTmpl = template.Must(template.New("contact").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; color: #222;">
  <h2>New contact message</h2>
  <p><strong>{{.Name}}</strong> &lt;{{.Email}}&gt;</p>
  {{if .Subject}}<p><strong>Subject:</strong> {{.Subject}}</p>{{end}}
  <p>{{.Message}}</p>
</body>
</html>`))

// createContact stores an inbound contact message and notifies the site
// owner by email in the background.
func (s *Server) createContact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, errBadRequest("invalid request body"))
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Message) == "" {
		s.respondError(c, errBadRequest("name and message are required"))
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		s.respondError(c, errBadRequest("invalid email address"))
		return
	}

	msg := &store.ContactMessage{
		Name:    req.Name,
		Email:   strings.ToLower(strings.TrimSpace(req.Email)),
		Subject: req.Subject,
		Message: req.Message,
	}
	if err := s.deps.Contacts.Create(c.Request.Context(), msg); err != nil {
		s.respondError(c, errInternal("storing contact message failed", err))
		return
	}

	s.invalidate(c, cache.EntityContact)
	s.notifyOwner(msg)
	c.JSON(http.StatusCreated, gin.H{"id": msg.ID, "message": "message received"})
}

// notifyOwner emails the owner about a new contact message. Failures are
// logged; the submission already succeeded.
func (s *Server) notifyOwner(msg *store.ContactMessage) {
	if s.deps.Sender == nil || s.deps.OwnerEmail == "" {
		return
	}

	var buf bytes.Buffer
	if err := contactNotifyTmpl.Execute(&buf, msg); err != nil {
		s.logger.Error().Err(err).Msg("Failed to render owner notification")
		return
	}
	subject := "New contact message from " + msg.Name
	body := buf.String()
	s.background(func(ctx context.Context) {
		if err := s.deps.Sender.Send(ctx, s.deps.OwnerEmail, subject, body); err != nil {
			s.logger.Error().Err(err).Str("contact_id", msg.ID).Msg("Owner notification failed")
		}
	})
}

func (s *Server) listContacts(c *gin.Context) {
	if err := checkQuery(c, contactListParams...); err != nil {
		s.respondError(c, err)
		return
	}
	page, limit, err := pagination(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	unread, err := boolQuery(c, "unread")
	if err != nil {
		s.respondError(c, err)
		return
	}

	msgs, err := s.deps.Contacts.List(c.Request.Context(), store.ContactFilter{
		Unread: unread,
		Page:   int64(page),
		Limit:  int64(limit),
	})
	if err != nil {
		s.respondError(c, errInternal("listing contacts failed", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"contacts": msgs, "page": page, "limit": limit})
}

func (s *Server) markContactRead(c *gin.Context) {
	id := c.Param("id")
	if err := s.deps.Contacts.MarkRead(c.Request.Context(), id); err != nil {
		s.respondError(c, err)
		return
	}
	s.invalidate(c, cache.EntityContact, id)
	c.Status(http.StatusNoContent)
}

func (s *Server) deleteContact(c *gin.Context) {
	id := c.Param("id")
	if err := s.deps.Contacts.Delete(c.Request.Context(), id); err != nil {
		s.respondError(c, err)
		return
	}
	s.invalidate(c, cache.EntityContact, id)
	c.Status(http.StatusNoContent)
}
