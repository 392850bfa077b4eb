package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// DataResponse wraps a successful payload with a message.
type DataResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// JSON writes a JSON response with the given status.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// OK writes a 200 OK JSON response.
func OK(c *gin.Context, payload interface{}) {
	JSON(c, http.StatusOK, payload)
}

// Data writes {message, data} with the given status.
func Data(c *gin.Context, status int, message string, data interface{}) {
	JSON(c, status, DataResponse{Message: message, Data: data})
}
