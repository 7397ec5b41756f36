package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/your-org/disasterbio/internal/apperr"
)

// statusFor maps an error kind to its HTTP status.
func statusFor(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindInvalidField, apperr.KindMissingRequiredField:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindEmptyCollection:
		return http.StatusConflict
	case apperr.KindInvalidImport, apperr.KindParseFailure:
		return http.StatusUnprocessableEntity
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return http.StatusRequestTimeout
	}
	return http.StatusInternalServerError
}

func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "path", c.FullPath(), "error", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// persistWarning splits a mutation error into a warning for a persistence
// failure, whose change is kept in memory, and a hard error for anything else.
func persistWarning(err error) (string, error) {
	if err == nil {
		return "", nil
	}
	if apperr.IsKind(err, apperr.KindPersistence) {
		return err.Error(), nil
	}
	return "", err
}
