package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// TraceIDKey is the gin context key holding the request trace id.
const TraceIDKey = "trace_id"

// APIResponse is the JSON envelope every API response uses.
type APIResponse struct {
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
	TraceID string `json:"trace_id,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// RespondSuccess writes a success envelope with data.
func RespondSuccess(c *gin.Context, code int, data any, message string) {
	c.JSON(code, APIResponse{
		Status:  "success",
		Code:    code,
		Message: message,
		TraceID: c.GetString(TraceIDKey),
		Data:    data,
	})
}

// RespondError writes an error envelope without data.
func RespondError(c *gin.Context, code int, message string) {
	RespondErrorData(c, code, message, nil)
}

// RespondErrorData writes an error envelope carrying data.
func RespondErrorData(c *gin.Context, code int, message string, data any) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: c.GetString(TraceIDKey),
		Data:    data,
	})
}

// RespondOK is RespondSuccess with 200.
func RespondOK(c *gin.Context, data any, message string) {
	RespondSuccess(c, http.StatusOK, data, message)
}
