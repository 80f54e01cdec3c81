package api

import (
	"chat-feed/errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// statusOf maps service errors to HTTP statuses. Unknown errors are internal.
func statusOf(err error) int {
	switch {
	case errors.Is(err, errors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, errors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errors.ErrInvalidScope),
		errors.Is(err, errors.ErrInvalidCommand),
		errors.Is(err, errors.ErrInvalidJoinCode):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrUnsupportedMedia):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, errors.ErrFetchFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(c *gin.Context, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		h.log.Error("Request failed", "path", c.FullPath(), "error", err)
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	h.log.Debug("Request refused", "path", c.FullPath(), "status", status, "error", err)
	c.JSON(status, gin.H{"error": err.Error()})
}
