package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Error codes used across the service layer.
const (
	CodeNotFound      = "notFound"
	CodeNotAuthorized = "notAuthorized"
	CodeValidation    = "validation"
	CodeConflict      = "conflict"
)

// ServiceError is a typed error carried from services to handlers.
type ServiceError struct {
	Code    string
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

func NewNotFoundError(msg string) error {
	return &ServiceError{Code: CodeNotFound, Message: msg}
}

func NewAuthzError(msg string) error {
	return &ServiceError{Code: CodeNotAuthorized, Message: msg}
}

func NewValidationError(msg string) error {
	return &ServiceError{Code: CodeValidation, Message: msg}
}

func NewConflictError(msg string) error {
	return &ServiceError{Code: CodeConflict, Message: msg}
}

func hasCode(err error, code string) bool {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Code == code
	}
	return false
}

func IsNotFound(err error) bool      { return hasCode(err, CodeNotFound) }
func IsNotAuthorized(err error) bool { return hasCode(err, CodeNotAuthorized) }
func IsValidation(err error) bool    { return hasCode(err, CodeValidation) }
func IsConflict(err error) bool      { return hasCode(err, CodeConflict) }

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				Logger := GetLogger()
				Logger.Error("Unhandled panic", zap.Any("error", err))

				c.JSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"message": "Internal Server Error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized `{success:false, message}` error response.
func JSONError(c *gin.Context, status int, message string) {
	Logger := GetLogger()
	Logger.Warn(message, zap.Int("status", status))
	c.JSON(status, gin.H{"success": false, "message": message})
}

// RespondError maps a service error to the HTTP envelope.
func RespondError(c *gin.Context, err error) {
	switch {
	case IsNotFound(err):
		JSONError(c, http.StatusNotFound, err.Error())
	case IsNotAuthorized(err):
		JSONError(c, http.StatusForbidden, err.Error())
	case IsValidation(err):
		JSONError(c, http.StatusBadRequest, err.Error())
	case IsConflict(err):
		JSONError(c, http.StatusConflict, err.Error())
	default:
		GetLogger().Error("unexpected service error", zap.Error(err))
		JSONError(c, http.StatusInternalServerError, "Server Error")
	}
}
