package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pokerun/leaderboard/internal/service"
	"github.com/pokerun/leaderboard/pkg/logger"
	"go.uber.org/zap"
)

// respondError maps domain errors onto HTTP statuses. Anything outside the
// taxonomy is logged in full and surfaced as a generic 500.
func respondError(c *gin.Context, err error) {
	var validation *service.ValidationError
	if errors.As(err, &validation) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Validation failed",
			"field":  validation.Field,
			"detail": validation.Message,
		})
		return
	}

	switch {
	case errors.Is(err, service.ErrRunNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrResetTokenNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})

	case errors.Is(err, service.ErrInvalidCredentials):
		// Deliberately generic: never reveals which factor failed.
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})

	case errors.Is(err, service.ErrWrongPassword),
		errors.Is(err, service.ErrResetTokenUsed),
		errors.Is(err, service.ErrResetTokenExpired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})

	case errors.Is(err, service.ErrNotRunOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})

	case errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	default:
		logger.Log.Error("Unexpected error",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "An unexpected error occurred. Please try again later.",
		})
	}
}
