package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskvault-backend/api/services"
)

var statusByCode = map[string]int{
	services.CodeValidation:     http.StatusBadRequest,
	services.CodeConflict:       http.StatusConflict,
	services.CodeAuthentication: http.StatusUnauthorized,
	services.CodeNotFound:       http.StatusNotFound,
	services.CodeInternal:       http.StatusInternalServerError,
}

// respondError serializes a service failure as {error, code}. Anything that
// is not an AppError becomes a generic 500, its details stay in the server
// log.
func respondError(c *gin.Context, err error) {
	var appErr *services.AppError
	if errors.As(err, &appErr) {
		status, ok := statusByCode[appErr.Code]
		if !ok {
			status = http.StatusInternalServerError
		}
		c.JSON(status, gin.H{"error": appErr.Message, "code": appErr.Code})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"error": "Internal server error",
		"code":  services.CodeInternal,
	})
}

func respondValidation(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message, "code": services.CodeValidation})
}

func respondNotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, gin.H{"error": message, "code": services.CodeNotFound})
}

func respondInternal(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, gin.H{"error": message, "code": services.CodeInternal})
}
