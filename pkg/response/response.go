package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Body is the envelope every endpoint responds with.
type Body struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Success sends a 200 response.
func Success(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Body{Success: true, Message: message, Data: data})
}

// Created sends a 201 response.
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Body{Success: true, Message: message, Data: data})
}

// Error sends an error response with the given status.
// data carries optional validation detail (e.g. which bound was missing).
func Error(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Body{Success: false, Message: message, Data: data})
}

// BadRequest sends a 400 error response.
func BadRequest(c *gin.Context, message string, data interface{}) {
	Error(c, http.StatusBadRequest, message, data)
}

// Unauthorized sends a 401 error response.
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message, nil)
}

// Forbidden sends a 403 error response.
func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, message, nil)
}

// NotFound sends a 404 error response.
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message, nil)
}

// Conflict sends a 409 error response.
func Conflict(c *gin.Context, message string) {
	Error(c, http.StatusConflict, message, nil)
}

// InternalError sends a 500 error response.
// The message is always generic; internal detail belongs in the log.
func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "internal server error", nil)
}
