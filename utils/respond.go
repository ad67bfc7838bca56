package utils

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// The endpoint wire contract is legacy: every outcome is an HTTP 200 JSON
// body and failures carry a human-readable "message" field embedding the
// underlying error text. Clients inspect the body, not the status code.

// RespondWithMessage sends a 200 response with a formatted message body.
func RespondWithMessage(c *gin.Context, format string, args ...interface{}) {
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf(format, args...)})
}

// RespondWithResult sends a 200 response with the generated result text.
func RespondWithResult(c *gin.Context, result string) {
	c.JSON(http.StatusOK, gin.H{"result": result})
}
