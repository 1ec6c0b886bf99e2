package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the JSON body returned by every endpoint. Status is one of
// "success", "error" or "warning"; Data is omitted when empty.
type Envelope struct {
	Status  string      `json:"status" example:"success"`
	Message string      `json:"message" example:"Item approved"`
	Data    interface{} `json:"data,omitempty"`
}

// PaginatedEnvelope wraps list responses with paging metadata.
type PaginatedEnvelope struct {
	Status  string      `json:"status" example:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
	Total   int64       `json:"total" example:"42"`
	Page    int         `json:"page" example:"1"`
	Limit   int         `json:"limit" example:"20"`
}

// Success sends a 200 OK envelope.
func Success(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Status: "success", Message: message, Data: data})
}

// Created sends a 201 Created envelope.
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Status: "success", Message: message, Data: data})
}

// Paginated sends a 200 OK envelope with paging metadata.
func Paginated(c *gin.Context, data interface{}, total int64, page, limit int) {
	c.JSON(http.StatusOK, PaginatedEnvelope{
		Status: "success",
		Data:   data,
		Total:  total,
		Page:   page,
		Limit:  limit,
	})
}

// Refused sends a 200 OK envelope with status "error". Reserved for
// business-rule refusals that are not strictly HTTP errors, e.g. trying to
// delist a completed item.
func Refused(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Envelope{Status: "error", Message: message})
}

// Warning sends a 200 OK envelope with status "warning".
func Warning(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Envelope{Status: "warning", Message: message})
}

// Error sends an error envelope with the given HTTP status code.
func Error(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Envelope{Status: "error", Message: message})
}

// BadRequest sends a 400 Bad Request error. Used for validation failures.
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// Unauthorized sends a 401 Unauthorized error.
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

// Forbidden sends a 403 Forbidden error. Used for authorization failures.
func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, message)
}

// NotFound sends a 404 Not Found error.
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// Conflict sends a 409 Conflict error. Used for duplicate submissions
// rejected by a storage uniqueness constraint.
func Conflict(c *gin.Context, message string) {
	Error(c, http.StatusConflict, message)
}

// InternalServerError sends a 500 Internal Server Error.
func InternalServerError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}
