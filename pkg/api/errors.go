package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/RxRakari/main-portfolio-sub001/pkg/newsletter"
	"github.com/RxRakari/main-portfolio-sub001/pkg/store"
)

// apiError carries an HTTP status alongside a client-facing message.
// The wrapped error, when set, is logged but never sent to the client.
type apiError struct {
	Status  int
	Message string
	Err     error
}

func (e *apiError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *apiError) Unwrap() error { return e.Err }

func errBadRequest(format string, args ...any) *apiError {
	return &apiError{Status: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

func errNotFound(message string) *apiError {
	return &apiError{Status: http.StatusNotFound, Message: message}
}

func errUnavailable(message string) *apiError {
	return &apiError{Status: http.StatusServiceUnavailable, Message: message}
}

func errInternal(message string, err error) *apiError {
	return &apiError{Status: http.StatusInternalServerError, Message: message, Err: err}
}

// respondError maps an error to its HTTP representation. Store and
// newsletter sentinels translate directly; anything unrecognized is a 500.
func (s *Server) respondError(c *gin.Context, err error) {
	var ae *apiError
	switch {
	case errors.As(err, &ae):
		if ae.Status >= 500 {
			s.logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
		}
		c.AbortWithStatusJSON(ae.Status, gin.H{"error": ae.Message})
	case errors.Is(err, store.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, newsletter.ErrInvalidEmail):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, newsletter.ErrUnknownToken):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		s.logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
