package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/catalog"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/logging"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// writeServiceError maps a service error to its response: validation errors
// to 400 with the field map, missing documents to an empty 404 and
// everything else to 500.
func writeServiceError(c *gin.Context, code string, err error) {
	if verr, ok := catalog.AsValidationError(err); ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, verr.Fields)
		return
	}

	if catalog.IsNotFound(err) {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	logging.FromContext(c.Request.Context()).Error("store fault",
		"code", code,
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"error", err,
	)
	writeError(c, http.StatusInternalServerError, code, "internal server error")
}
