// Package response defines the JSON envelope every endpoint answers with.
package response

import "github.com/gin-gonic/gin"

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Response is the envelope: Data on success, Error on failure, never both.
type Response struct {
	Status     string `json:"status"`
	StatusCode int    `json:"status_code"`
	Data       any    `json:"data,omitempty"`
	Error      string `json:"error,omitempty"`
}

func Success(statusCode int, data any) Response {
	return Response{Status: StatusSuccess, StatusCode: statusCode, Data: data}
}

func Error(statusCode int, message string) Response {
	return Response{Status: StatusError, StatusCode: statusCode, Error: message}
}

// Abort stops the handler chain and writes an error envelope.
func Abort(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, Error(statusCode, message))
}
