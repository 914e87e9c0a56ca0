package handler

import (
	"net/http"

	"github.com/cloud-wave-best-zizon/catalog-service/pkg/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const unexpectedFailureMessage = "An unexpected error occurred"

// NewRouter builds the gin engine both tiers serve from. Path parameters
// are matched on the escaped path, so a value such as "Home%2FGarden"
// reaches the handler as "Home/Garden".
func NewRouter(logger *zap.Logger, tracerName string) *gin.Engine {
	router := gin.New()
	router.UseRawPath = true
	router.UnescapePathValues = true

	router.Use(Recovery(logger))
	router.Use(middleware.RequestID())
	router.Use(middleware.Tracing(tracerName))
	router.Use(middleware.Logger(logger))
	return router
}

// Recovery answers a panicking handler with the structured 500 body.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("Panic recovered",
			zap.String("path", c.Request.URL.Path),
			zap.Any("panic", recovered),
			zap.Stack("stack"))
		writeError(c, http.StatusInternalServerError, unexpectedFailureMessage)
	})
}
