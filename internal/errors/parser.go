package errors

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"strings"
)

// GenericMessage is shown when the server gave no message of its own.
const GenericMessage = "Something went wrong. Please try again."

// Classify maps any error onto the taxonomy. Errors outside it become
// transport failures so that call sites only ever see three shapes.
func Classify(err error) Error {
	if err == nil {
		return nil
	}
	if known, ok := As(err); ok {
		return known
	}

	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(err, context.Canceled) {
		return &TransportError{Code: UpstreamUnavailable, Message: "The request timed out. Please try again.", Err: err}
	}
	var netErr net.Error
	if stderrors.As(err, &netErr) {
		return &TransportError{Code: UpstreamUnavailable, Err: err}
	}

	return &TransportError{Code: InternalServerError, Err: err}
}

// FromResponse builds the taxonomy member for a non-2xx upstream response.
// exempt marks endpoints whose 401 is shown inline rather than ending the session.
func FromResponse(status int, code, message string, exempt bool) Error {
	message = strings.TrimSpace(message)
	switch {
	case status == http.StatusUnauthorized:
		if exempt {
			return &TransportError{Status: status, Code: AuthUnauthorized, Message: message}
		}
		return &TransportError{Status: status, Code: AuthSessionExpired, Message: message, SessionExpired: true}
	case status == http.StatusForbidden:
		return &TransportError{Status: status, Code: firstNonEmpty(code, AuthForbidden), Message: message}
	case status >= 500:
		return &TransportError{Status: status, Code: UpstreamError, Message: message}
	case status == http.StatusNotFound:
		return &BusinessRuleError{Status: status, Code: firstNonEmpty(code, RegistrationNotFound), Message: message}
	default:
		return &BusinessRuleError{Status: status, Code: firstNonEmpty(code, UpstreamRejected), Message: message}
	}
}

// DisplayMessage returns the text to show the admin: the server's message
// verbatim when present, otherwise a generic fallback.
func DisplayMessage(err error) string {
	switch e := Classify(err).(type) {
	case nil:
		return ""
	case *ValidationError:
		return e.Message
	case *BusinessRuleError:
		return firstNonEmpty(e.Message, GenericMessage)
	case *TransportError:
		if e.SessionExpired {
			return firstNonEmpty(e.Message, "Your session has expired. Please sign in again.")
		}
		return firstNonEmpty(e.Message, GenericMessage)
	default:
		return GenericMessage
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
