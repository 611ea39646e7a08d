package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"wcmap/api/internal/repository"
	"wcmap/api/internal/service"
)

// respondError maps the error taxonomy onto HTTP statuses. Unexpected
// errors are logged in full and surfaced as a generic message.
func (h HandlerSet) respondError(c *gin.Context, err error) {
	var validationErr *service.ValidationError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials."})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient privileges."})
	case errors.Is(err, repository.ErrDuplicateEmail):
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered."})
	case errors.Is(err, repository.ErrAccountNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found."})
	case errors.Is(err, repository.ErrLocationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Location not found."})
	case errors.Is(err, repository.ErrRatingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Rating not found."})
	case errors.Is(err, repository.ErrRequestNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Request not found."})
	default:
		h.log.Error().Err(err).
			Str("path", c.Request.URL.Path).
			Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unexpected server error."})
	}
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}
