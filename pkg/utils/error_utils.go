package utils

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Standardized APIError response
type APIError struct {
	StatusCode int    `json:"-"`              // HTTP status code, not included in JSON response body for error itself
	Code       string `json:"code,omitempty"` // Application-specific error code
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
}

// NewAPIError creates a new APIError instance
func NewAPIError(statusCode int, code string, message string, details string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
		Details:    details,
	}
}

func (e *APIError) Error() string {
	return e.Message
}

// RespondWithError sends a standardized JSON error response
func RespondWithError(c *gin.Context, err *APIError) {
	c.JSON(err.StatusCode, gin.H{"error": err})
	c.Abort()
}

const (
	ErrCodeBadRequest          = "BAD_REQUEST"
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeConflict            = "CONFLICT"
	ErrCodeInsufficientStock   = "INSUFFICIENT_STOCK"
	ErrCodeInconsistentLedger  = "INCONSISTENT_LEDGER"
	ErrCodeInternalServerError = "INTERNAL_SERVER_ERROR"
	ErrCodeValidationFailed    = "VALIDATION_FAILED"
	ErrCodeUnknownOperation    = "UNKNOWN_OPERATION"
)

// RespondValidationFailed is a helper to return a standard validation error
func RespondValidationFailed(c *gin.Context, details string) {
	RespondWithError(c, NewAPIError(http.StatusBadRequest, ErrCodeValidationFailed, "Input validation failed", details))
}

// ProcessValidationErrors flattens validator field errors into field -> failed tag.
func ProcessValidationErrors(err error) map[string]string {
	out := make(map[string]string)
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return out
	}
	for _, ve := range validationErrors {
		out[ve.Field()] = ve.Tag()
	}
	return out
}

// FormatValidationErrors renders ProcessValidationErrors output as a stable, readable string.
func FormatValidationErrors(err error) string {
	fields := ProcessValidationErrors(err)
	if len(fields) == 0 {
		return err.Error()
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s failed on '%s'", k, fields[k]))
	}
	return strings.Join(parts, "; ")
}
