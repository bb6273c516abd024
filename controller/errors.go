package controller

import (
	"errors"
	"net/http"

	"github.com/fairwayhq/teesheet/entity"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func statusForError(err error) int {
	switch {
	case errors.Is(err, entity.ErrEventNotFound),
		errors.Is(err, entity.ErrPlayerNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrInvalidFlight),
		errors.Is(err, entity.ErrPasswordMismatch),
		errors.Is(err, entity.ErrPasswordBadLength),
		errors.Is(err, entity.ErrResetTokenExpired):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrBadCredentials),
		errors.Is(err, entity.ErrNotRegistered):
		return http.StatusUnauthorized
	case errors.Is(err, entity.ErrNotAuthorized):
		return http.StatusForbidden
	case errors.Is(err, entity.ErrNotInSourceFlight),
		errors.Is(err, entity.ErrAlreadyInFlight),
		errors.Is(err, entity.ErrFlightFull),
		errors.Is(err, entity.ErrStaleEvent),
		errors.Is(err, entity.ErrEmailTaken):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError maps a domain error to its status. Unknown errors are
// persistence-level; their detail stays in the log.
func respondError(c *gin.Context, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}

	c.JSON(status, gin.H{"error": err.Error()})
}
