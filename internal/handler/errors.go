package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/cloud-wave-best-zizon/catalog-service/internal/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every non-2xx answer of the catalog API.
type ErrorResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Path      string    `json:"path"`
}

func writeError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Timestamp: time.Now().UTC(),
		Status:    status,
		Error:     errorTitle(status),
		Message:   message,
		Path:      c.Request.URL.Path,
	})
}

func errorTitle(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "Bad Request"
	case http.StatusNotFound:
		return "Not Found"
	case http.StatusServiceUnavailable:
		return "Service Unavailable"
	default:
		return http.StatusText(status)
	}
}

func badRequest(c *gin.Context, message string) {
	writeError(c, http.StatusBadRequest, message)
}

// respondError maps the domain error taxonomy onto HTTP answers. Unknown
// errors are logged and reported without detail.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case domain.IsNotFound(err):
		writeError(c, http.StatusNotFound, err.Error())
	case domain.IsValidation(err):
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
			Timestamp: time.Now().UTC(),
			Status:    http.StatusBadRequest,
			Error:     "Business Validation Error",
			Message:   err.Error(),
			Path:      c.Request.URL.Path,
		})
	case errors.Is(err, domain.ErrCommunication):
		writeError(c, http.StatusServiceUnavailable, err.Error())
	default:
		logger.Error("Unexpected failure",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
		writeError(c, http.StatusInternalServerError, unexpectedFailureMessage)
	}
}
