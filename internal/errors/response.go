package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SessionExpiredHeader tells the front-end to clear credentials and redirect to sign-in.
const SessionExpiredHeader = "X-Session-Expired"

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Error   string `json:"error"`           // code from codes.go
	Message string `json:"message"`         // text for the admin
	Field   string `json:"field,omitempty"` // validation failures only
}

// RespondWithError writes an error body with the given status.
func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}

// RespondWithAppError renders any error through the taxonomy.
func RespondWithAppError(c *gin.Context, err error) {
	switch e := Classify(err).(type) {
	case *ValidationError:
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   e.Code,
			Message: e.Message,
			Field:   e.Field,
		})
	case *BusinessRuleError:
		RespondWithError(c, e.Status, e.Code, DisplayMessage(e))
	case *TransportError:
		if e.SessionExpired {
			SessionExpired(c, e.Message)
			return
		}
		status := e.Status
		if status < 400 || status >= 500 {
			status = http.StatusBadGateway
		}
		RespondWithError(c, status, e.Code, DisplayMessage(e))
	default:
		InternalError(c, "")
	}
}

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Please sign in to continue."
	}
	RespondWithError(c, http.StatusUnauthorized, AuthUnauthorized, message)
}

// SessionExpired marks the response so the front-end ends the session.
func SessionExpired(c *gin.Context, message string) {
	if message == "" {
		message = "Your session has expired. Please sign in again."
	}
	c.Header(SessionExpiredHeader, "true")
	RespondWithError(c, http.StatusUnauthorized, AuthSessionExpired, message)
}

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

func NotFound(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusNotFound, errorCode, message)
}

func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = GenericMessage
	}
	RespondWithError(c, http.StatusInternalServerError, InternalServerError, message)
}
