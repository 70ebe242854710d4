// api/middleware/error_handler.go
package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/seodash/seodash-backend/internal/auth"
	"github.com/seodash/seodash-backend/internal/core"
	"github.com/seodash/seodash-backend/internal/importer"
	"github.com/seodash/seodash-backend/internal/storage"
)

// ErrorHandler creates a gin middleware for centralized error handling.
// Validation and scope errors map to descriptive 4xx responses; anything
// unrecognized surfaces with its underlying message and a 500. This is an
// internal admin tool, so debuggability outranks hiding internals.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		// Only the last error decides the response.
		err := c.Errors.Last().Err
		customLog.Printf("[ErrorHandler] Detected error: %v | Type: %T", err, err)

		var statusCode int
		var userMessage string

		var validationErrs validator.ValidationErrors
		switch {
		case errors.Is(err, storage.ErrAccountNotFound),
			errors.Is(err, storage.ErrMetricNotFound):
			statusCode = http.StatusNotFound
			userMessage = err.Error()
		case errors.Is(err, storage.ErrUsernameExists),
			errors.Is(err, storage.ErrClientIDExists):
			statusCode = http.StatusBadRequest
			userMessage = err.Error()
		case errors.Is(err, storage.ErrInvalidCredentials):
			statusCode = http.StatusUnauthorized
			userMessage = "Invalid credentials"
		case errors.Is(err, auth.ErrTokenMalformed),
			errors.Is(err, auth.ErrTokenInvalid),
			errors.Is(err, auth.ErrTokenClaimsInvalid),
			errors.Is(err, auth.ErrUnexpectedSigningMethod):
			statusCode = http.StatusUnauthorized
			userMessage = "Invalid or malformed authentication token."
		case errors.Is(err, auth.ErrTokenExpired):
			statusCode = http.StatusUnauthorized
			userMessage = "Authentication token has expired."
		case errors.Is(err, core.ErrInvalidPeriod),
			errors.Is(err, importer.ErrColumnMapping),
			errors.Is(err, importer.ErrEmptyFile),
			errors.Is(err, importer.ErrUnknownDataKind):
			statusCode = http.StatusBadRequest
			userMessage = err.Error()
		case errors.As(err, &validationErrs):
			statusCode = http.StatusBadRequest
			userMessage = "Validation failed. Please check your input."
			for _, fe := range validationErrs {
				customLog.Printf("Validation Error: Field %s failed on %s", fe.Field(), fe.Tag())
			}
		default:
			statusCode = http.StatusInternalServerError
			userMessage = err.Error()
			customLog.Printf("Unhandled error type: %T, Error: %v", err, err)
		}

		if !c.Writer.Written() {
			c.AbortWithStatusJSON(statusCode, gin.H{"error": userMessage})
		} else {
			customLog.Printf("[ErrorHandler] Warning: Response already written before handling error.")
		}
	}
}
