package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	domainerrors "trustlend.backend/internal/domain/errors"
)

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Error maps a domain error to its HTTP status and sends the error body
func Error(c *gin.Context, err error) {
	status := domainerrors.StatusOf(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		// Internal details stay in the logs, not on the wire.
		message = "internal server error"
	}
	c.JSON(status, gin.H{
		"code":    status,
		"message": message,
	})
}

// ErrorWithStatus sends an error response with an explicit status and message
func ErrorWithStatus(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"code":    status,
		"message": message,
	})
}
