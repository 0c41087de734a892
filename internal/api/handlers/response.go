package handlers

import (
	"github.com/gin-gonic/gin"
)

// respondError writes the {success:false} envelope. The underlying error
// message, when present, is passed through as "message".
func respondError(c *gin.Context, status int, msg string, err error) {
	body := gin.H{
		"success": false,
		"error":   msg,
	}
	if err != nil {
		body["message"] = err.Error()
	}
	c.JSON(status, body)
}
