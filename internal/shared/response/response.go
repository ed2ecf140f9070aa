package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error là body chung cho mọi response lỗi: {"error": "..."}
type Error struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// Message là body cho các thao tác không trả về resource
type Message struct {
	Message string `json:"message"`
}

// Success trả về payload nguyên dạng, không bọc envelope
func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

func Created(c *gin.Context, data interface{}) {
	Success(c, http.StatusCreated, data)
}

func OK(c *gin.Context, data interface{}) {
	Success(c, http.StatusOK, data)
}

func MessageOK(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Message{Message: message})
}

// Error responses
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Error{Error: message})
}

func ErrorWithDetails(c *gin.Context, statusCode int, message string, details interface{}) {
	c.JSON(statusCode, Error{
		Error:   message,
		Details: details,
	})
}

// Common error responses
func BadRequest(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusNotFound, message)
}

func InternalServerError(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusInternalServerError, message)
}
