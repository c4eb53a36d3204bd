package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shelfshare/shelfshare/internal/common"
)

// renderError maps a sentinel to a status. isRead controls information
// hiding: a denied read is presented as 404, a denied mutation as 403.
func (s *Server) renderError(c *gin.Context, err error, isRead bool) {
	switch {
	case errors.Is(err, common.ErrAccessDenied):
		if isRead {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, common.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, common.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, common.ErrUnauthenticated),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrSessionExpired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
	case errors.Is(err, common.ErrAlreadyExists),
		errors.Is(err, common.ErrAlreadyFriends),
		errors.Is(err, common.ErrDuplicateRequest),
		errors.Is(err, common.ErrRequestPending),
		errors.Is(err, common.ErrInvalidState):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, common.ErrValidation),
		errors.Is(err, common.ErrInvalidTarget):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, common.ErrStorageUnavailable):
		s.logger.Error(c.Request.Context(), "storage unavailable", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "service unavailable"})
	default:
		s.logger.Error(c.Request.Context(), "unhandled error", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
