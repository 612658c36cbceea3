package response

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/unireg-gateway/pkg/errors"
)

// JSON sends a success response with the given payload.
func JSON(c *gin.Context, status int, data interface{}) {
	c.Header("Cache-Control", "no-store")
	c.JSON(status, data)
}

// Raw relays a JSON body unchanged, preserving the given status. Used where
// the upstream payload must reach the caller byte-for-byte.
func Raw(c *gin.Context, status int, body json.RawMessage) {
	c.Header("Cache-Control", "no-store")
	if len(body) == 0 {
		c.Status(status)
		return
	}
	c.Data(status, "application/json", body)
}

// Error writes the error as `{"error": "<message>"}`, or relays the upstream
// body verbatim when the error carries one.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	if len(appErr.Body) > 0 {
		Raw(c, appErr.Status, appErr.Body)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.JSON(appErr.Status, gin.H{"error": appErr.Message})
}

// MessageError writes the error as `{"message": "<message>"}`. The account
// registration surface uses this shape instead of the error key.
func MessageError(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.JSON(appErr.Status, gin.H{"message": appErr.Message})
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data)
}
